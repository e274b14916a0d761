package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vonix/internal/application/payment/gateway"
	dvo "vonix/internal/domain/donation/valueobjects"
	uvo "vonix/internal/domain/user/valueobjects"
	"vonix/internal/shared/logger"
)

// SquareAdapter verifies and normalizes Square webhook deliveries.
// Signatures are a base64 HMAC-SHA256 over the notification URL
// concatenated with the raw body, keyed with the webhook signature key.
type SquareAdapter struct {
	signatureKey    string
	notificationURL string
	logger          logger.Interface
}

func NewSquareAdapter(signatureKey, notificationURL string, logger logger.Interface) *SquareAdapter {
	return &SquareAdapter{
		signatureKey:    signatureKey,
		notificationURL: notificationURL,
		logger:          logger,
	}
}

func (a *SquareAdapter) Provider() dvo.Provider {
	return dvo.ProviderSquare
}

func (a *SquareAdapter) SignatureHeader() string {
	return "x-square-hmacsha256-signature"
}

// VerifySignature checks the x-square-hmacsha256-signature header. The
// configured notification URL takes precedence over the request URL because
// Square signs the URL it was registered with, which may differ behind a
// proxy.
func (a *SquareAdapter) VerifySignature(rawBody []byte, signatureHeader, requestURL string) bool {
	if a.signatureKey == "" || signatureHeader == "" {
		return false
	}

	url := a.notificationURL
	if url == "" {
		url = requestURL
	}

	mac := hmac.New(sha256.New, []byte(a.signatureKey))
	mac.Write([]byte(url))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

type squareEvent struct {
	Type      string `json:"type"`
	EventID   string `json:"event_id"`
	CreatedAt string `json:"created_at"`
	Data      struct {
		Type   string          `json:"type"`
		ID     string          `json:"id"`
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type squareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type squarePaymentObject struct {
	Payment struct {
		ID                string      `json:"id"`
		Status            string      `json:"status"`
		AmountMoney       squareMoney `json:"amount_money"`
		BuyerEmailAddress string      `json:"buyer_email_address"`
		ReferenceID       string      `json:"reference_id"`
		Note              string      `json:"note"`
	} `json:"payment"`
}

type squareSubscriptionObject struct {
	Subscription struct {
		ID              string `json:"id"`
		Status          string `json:"status"`
		PlanVariationID string `json:"plan_variation_id"`
		CustomerID      string `json:"customer_id"`
	} `json:"subscription"`
}

type squareInvoiceObject struct {
	Invoice struct {
		ID               string `json:"id"`
		SubscriptionID   string `json:"subscription_id"`
		PrimaryRecipient struct {
			EmailAddress string `json:"email_address"`
			GivenName    string `json:"given_name"`
		} `json:"primary_recipient"`
		PaymentRequests []struct {
			TotalCompletedAmountMoney squareMoney `json:"total_completed_amount_money"`
		} `json:"payment_requests"`
	} `json:"invoice"`
}

// ParseEvent normalizes a verified Square event payload. Square carries no
// metadata map on payments, so the checkout reference ID holds the Vonix
// user ID and rank resolution falls back to the paid amount.
func (a *SquareAdapter) ParseEvent(rawBody []byte) (*gateway.ProviderEvent, error) {
	var event squareEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("failed to decode square event: %w", err)
	}

	occurredAt, err := time.Parse(time.RFC3339, event.CreatedAt)
	if err != nil {
		occurredAt = time.Now().UTC()
	} else {
		occurredAt = occurredAt.UTC()
	}

	switch event.Type {
	case "payment.created", "payment.updated":
		var obj squarePaymentObject
		if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode square payment: %w", err)
		}

		if obj.Payment.Status != "COMPLETED" {
			return &gateway.ProviderEvent{Kind: gateway.EventIgnored, OccurredAt: occurredAt}, nil
		}

		return &gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      obj.Payment.ID,
			AmountInCents:  obj.Payment.AmountMoney.Amount,
			Currency:       strings.ToUpper(obj.Payment.AmountMoney.Currency),
			MetadataUserID: parseSquareReferenceID(obj.Payment.ReferenceID),
			PayerEmail:     obj.Payment.BuyerEmailAddress,
			Message:        obj.Payment.Note,
			OccurredAt:     occurredAt,
		}, nil

	case "subscription.created", "subscription.updated":
		var obj squareSubscriptionObject
		if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode square subscription: %w", err)
		}

		kind := gateway.EventSubscriptionUpdated
		if event.Type == "subscription.created" {
			kind = gateway.EventSubscriptionCreated
		}

		return &gateway.ProviderEvent{
			Kind:               kind,
			SubscriptionID:     obj.Subscription.ID,
			SubscriptionStatus: mapSquareSubscriptionStatus(obj.Subscription.Status),
			PlanID:             obj.Subscription.PlanVariationID,
			OccurredAt:         occurredAt,
		}, nil

	case "invoice.payment_made":
		var obj squareInvoiceObject
		if err := json.Unmarshal(event.Data.Object, &obj); err != nil {
			return nil, fmt.Errorf("failed to decode square invoice: %w", err)
		}

		var amount squareMoney
		if len(obj.Invoice.PaymentRequests) > 0 {
			amount = obj.Invoice.PaymentRequests[0].TotalCompletedAmountMoney
		}

		return &gateway.ProviderEvent{
			Kind:           gateway.EventSubscriptionRenewed,
			PaymentID:      obj.Invoice.ID,
			SubscriptionID: obj.Invoice.SubscriptionID,
			AmountInCents:  amount.Amount,
			Currency:       strings.ToUpper(amount.Currency),
			PayerEmail:     obj.Invoice.PrimaryRecipient.EmailAddress,
			DonorName:      obj.Invoice.PrimaryRecipient.GivenName,
			OccurredAt:     occurredAt,
		}, nil

	default:
		a.logger.Debugw("ignoring square event", "type", event.Type, "event_id", event.EventID)
		return &gateway.ProviderEvent{Kind: gateway.EventIgnored, OccurredAt: occurredAt}, nil
	}
}

// mapSquareSubscriptionStatus maps Square's subscription vocabulary onto
// the canonical enum.
func mapSquareSubscriptionStatus(status string) uvo.SubscriptionStatus {
	switch status {
	case "ACTIVE":
		return uvo.SubscriptionStatusActive
	case "PENDING":
		return uvo.SubscriptionStatusTrialing
	case "PAUSED":
		return uvo.SubscriptionStatusPaused
	case "DELINQUENT":
		return uvo.SubscriptionStatusPastDue
	case "CANCELED", "DEACTIVATED":
		return uvo.SubscriptionStatusCanceled
	default:
		return uvo.SubscriptionStatusCanceled
	}
}

// parseSquareReferenceID extracts the numeric user ID carried in the
// checkout reference ID, if present.
func parseSquareReferenceID(referenceID string) *uint {
	if referenceID == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(referenceID, 10, 32)
	if err != nil {
		return nil
	}
	userID := uint(parsed)
	return &userID
}
