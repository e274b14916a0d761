package valueobjects

import "fmt"

// SubscriptionStatus is the canonical subscription state vocabulary.
// Provider adapters map their own vocabularies onto this enum before the
// value reaches the user record.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusPaused   SubscriptionStatus = "paused"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
)

func NewSubscriptionStatus(status string) (SubscriptionStatus, error) {
	s := SubscriptionStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid subscription status: %s", status)
	}
	return s, nil
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCanceled,
		SubscriptionStatusPastDue, SubscriptionStatusPaused,
		SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}

func (s SubscriptionStatus) IsActive() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrialing
}

func (s SubscriptionStatus) String() string {
	return string(s)
}
