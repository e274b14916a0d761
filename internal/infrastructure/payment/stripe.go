package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vonix/internal/application/payment/gateway"
	dvo "vonix/internal/domain/donation/valueobjects"
	uvo "vonix/internal/domain/user/valueobjects"
	"vonix/internal/shared/biztime"
	"vonix/internal/shared/logger"
)

// stripeSignatureTolerance bounds how old a signed webhook may be before it
// is rejected as a possible replay.
const stripeSignatureTolerance = 5 * time.Minute

// StripeAdapter verifies and normalizes Stripe webhook deliveries.
// Signatures follow the Stripe-Signature scheme: an HMAC-SHA256 over
// "<timestamp>.<payload>" keyed with the endpoint's webhook secret.
type StripeAdapter struct {
	webhookSecret string
	logger        logger.Interface
}

func NewStripeAdapter(webhookSecret string, logger logger.Interface) *StripeAdapter {
	return &StripeAdapter{
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

func (a *StripeAdapter) Provider() dvo.Provider {
	return dvo.ProviderStripe
}

func (a *StripeAdapter) SignatureHeader() string {
	return "Stripe-Signature"
}

// VerifySignature checks the Stripe-Signature header
// ("t=<unix>,v1=<hex>[,v1=<hex>...]") against the raw body.
func (a *StripeAdapter) VerifySignature(rawBody []byte, signatureHeader, requestURL string) bool {
	if a.webhookSecret == "" || signatureHeader == "" {
		return false
	}

	var timestamp int64
	var signatures [][]byte

	for _, part := range strings.Split(signatureHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return false
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return false
	}

	age := biztime.NowUTC().Sub(time.Unix(timestamp, 0))
	if age > stripeSignatureTolerance || age < -stripeSignatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(a.webhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return true
		}
	}
	return false
}

type stripeEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type stripeCheckoutSession struct {
	ID              string            `json:"id"`
	Mode            string            `json:"mode"`
	PaymentIntent   string            `json:"payment_intent"`
	Subscription    string            `json:"subscription"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	Metadata        map[string]string `json:"metadata"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
}

type stripeInvoice struct {
	ID            string `json:"id"`
	AmountPaid    int64  `json:"amount_paid"`
	Currency      string `json:"currency"`
	Subscription  string `json:"subscription"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	BillingReason string `json:"billing_reason"`
	Lines         struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"lines"`
	SubscriptionDetails struct {
		Metadata map[string]string `json:"metadata"`
	} `json:"subscription_details"`
}

type stripeSubscription struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
	Items    struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

// ParseEvent normalizes a verified Stripe event payload. Checkout sessions
// in subscription mode do not produce a payment event here; the grant
// happens on the matching invoice so the amount is never double counted.
func (a *StripeAdapter) ParseEvent(rawBody []byte) (*gateway.ProviderEvent, error) {
	var event stripeEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("failed to decode stripe event: %w", err)
	}

	occurredAt := time.Unix(event.Created, 0).UTC()

	switch event.Type {
	case "checkout.session.completed":
		var session stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Object, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}

		if session.Mode == "subscription" {
			return &gateway.ProviderEvent{
				Kind:               gateway.EventSubscriptionCreated,
				SubscriptionID:     session.Subscription,
				MetadataUserID:     parseMetadataUserID(session.Metadata),
				MetadataRankID:     session.Metadata["rankId"],
				PayerEmail:         session.CustomerDetails.Email,
				SubscriptionStatus: uvo.SubscriptionStatusActive,
				OccurredAt:         occurredAt,
			}, nil
		}

		paymentID := session.PaymentIntent
		if paymentID == "" {
			paymentID = session.ID
		}
		return &gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      paymentID,
			AmountInCents:  session.AmountTotal,
			Currency:       strings.ToUpper(session.Currency),
			MetadataUserID: parseMetadataUserID(session.Metadata),
			MetadataRankID: session.Metadata["rankId"],
			MetadataDays:   parseMetadataDays(session.Metadata),
			PayerEmail:     session.CustomerDetails.Email,
			DonorName:      session.CustomerDetails.Name,
			OccurredAt:     occurredAt,
		}, nil

	case "invoice.paid":
		var invoice stripeInvoice
		if err := json.Unmarshal(event.Data.Object, &invoice); err != nil {
			return nil, fmt.Errorf("failed to decode invoice: %w", err)
		}

		planID := ""
		if len(invoice.Lines.Data) > 0 {
			planID = invoice.Lines.Data[0].Price.ID
		}

		return &gateway.ProviderEvent{
			Kind:                     gateway.EventSubscriptionRenewed,
			PaymentID:                invoice.ID,
			SubscriptionID:           invoice.Subscription,
			AmountInCents:            invoice.AmountPaid,
			Currency:                 strings.ToUpper(invoice.Currency),
			MetadataUserID:           parseMetadataUserID(invoice.SubscriptionDetails.Metadata),
			MetadataRankID:           invoice.SubscriptionDetails.Metadata["rankId"],
			PayerEmail:               invoice.CustomerEmail,
			DonorName:                invoice.CustomerName,
			FirstSubscriptionPayment: invoice.BillingReason == "subscription_create",
			PlanID:                   planID,
			OccurredAt:               occurredAt,
		}, nil

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripeSubscription
		if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}

		kind := gateway.EventSubscriptionUpdated
		if event.Type == "customer.subscription.created" {
			kind = gateway.EventSubscriptionCreated
		}

		planID := ""
		if len(sub.Items.Data) > 0 {
			planID = sub.Items.Data[0].Price.ID
		}

		return &gateway.ProviderEvent{
			Kind:               kind,
			SubscriptionID:     sub.ID,
			MetadataUserID:     parseMetadataUserID(sub.Metadata),
			MetadataRankID:     sub.Metadata["rankId"],
			SubscriptionStatus: mapStripeSubscriptionStatus(sub.Status, event.Type),
			PlanID:             planID,
			OccurredAt:         occurredAt,
		}, nil

	default:
		a.logger.Debugw("ignoring stripe event", "type", event.Type, "event_id", event.ID)
		return &gateway.ProviderEvent{Kind: gateway.EventIgnored, OccurredAt: occurredAt}, nil
	}
}

// mapStripeSubscriptionStatus maps Stripe's subscription vocabulary onto
// the canonical enum.
func mapStripeSubscriptionStatus(status, eventType string) uvo.SubscriptionStatus {
	if eventType == "customer.subscription.deleted" {
		return uvo.SubscriptionStatusCanceled
	}
	switch status {
	case "active":
		return uvo.SubscriptionStatusActive
	case "trialing":
		return uvo.SubscriptionStatusTrialing
	case "past_due", "incomplete":
		return uvo.SubscriptionStatusPastDue
	case "paused":
		return uvo.SubscriptionStatusPaused
	case "canceled", "unpaid", "incomplete_expired":
		return uvo.SubscriptionStatusCanceled
	default:
		return uvo.SubscriptionStatusCanceled
	}
}

func parseMetadataUserID(metadata map[string]string) *uint {
	raw, ok := metadata["userId"]
	if !ok || raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	userID := uint(parsed)
	return &userID
}

func parseMetadataDays(metadata map[string]string) int {
	raw, ok := metadata["days"]
	if !ok || raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0
	}
	return days
}
