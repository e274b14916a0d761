package valueobjects

import "fmt"

// PaymentType classifies how a donation was charged.
type PaymentType string

const (
	PaymentTypeOneTime             PaymentType = "one_time"
	PaymentTypeSubscription        PaymentType = "subscription"
	PaymentTypeSubscriptionRenewal PaymentType = "subscription_renewal"
)

func NewPaymentType(paymentType string) (PaymentType, error) {
	pt := PaymentType(paymentType)
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid payment type: %s", paymentType)
	}
	return pt, nil
}

func (pt PaymentType) IsValid() bool {
	switch pt {
	case PaymentTypeOneTime, PaymentTypeSubscription, PaymentTypeSubscriptionRenewal:
		return true
	default:
		return false
	}
}

// IsRecurring returns true for subscription-originated payments.
func (pt PaymentType) IsRecurring() bool {
	return pt == PaymentTypeSubscription || pt == PaymentTypeSubscriptionRenewal
}

func (pt PaymentType) String() string {
	return string(pt)
}
