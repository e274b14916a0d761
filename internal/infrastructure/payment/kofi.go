package payment

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vonix/internal/application/payment/gateway"
	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/shared/logger"
)

// KofiAdapter normalizes Ko-fi webhook deliveries. Ko-fi posts a
// form-encoded body with a single "data" field holding the JSON payload,
// and authenticates with a verification token embedded in that payload
// instead of a signature header.
type KofiAdapter struct {
	verificationToken string
	logger            logger.Interface
}

func NewKofiAdapter(verificationToken string, logger logger.Interface) *KofiAdapter {
	return &KofiAdapter{
		verificationToken: verificationToken,
		logger:            logger,
	}
}

func (a *KofiAdapter) Provider() dvo.Provider {
	return dvo.ProviderKofi
}

// SignatureHeader returns "" because Ko-fi carries its credential in the
// request body.
func (a *KofiAdapter) SignatureHeader() string {
	return ""
}

type kofiPayload struct {
	VerificationToken          string `json:"verification_token"`
	MessageID                  string `json:"message_id"`
	Timestamp                  string `json:"timestamp"`
	Type                       string `json:"type"`
	FromName                   string `json:"from_name"`
	Message                    string `json:"message"`
	Amount                     string `json:"amount"`
	Email                      string `json:"email"`
	Currency                   string `json:"currency"`
	IsSubscriptionPayment      bool   `json:"is_subscription_payment"`
	IsFirstSubscriptionPayment bool   `json:"is_first_subscription_payment"`
	KofiTransactionID          string `json:"kofi_transaction_id"`
	TierName                   string `json:"tier_name"`
}

func decodeKofiBody(rawBody []byte) (*kofiPayload, error) {
	form, err := url.ParseQuery(string(rawBody))
	if err != nil {
		return nil, fmt.Errorf("failed to parse kofi form body: %w", err)
	}

	data := form.Get("data")
	if data == "" {
		return nil, fmt.Errorf("kofi body missing data field")
	}

	var payload kofiPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode kofi payload: %w", err)
	}
	return &payload, nil
}

// VerifySignature compares the payload's verification token against the
// configured one in constant time. The header and URL arguments are unused.
func (a *KofiAdapter) VerifySignature(rawBody []byte, _ string, _ string) bool {
	if a.verificationToken == "" {
		return false
	}

	payload, err := decodeKofiBody(rawBody)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(
		[]byte(payload.VerificationToken),
		[]byte(a.verificationToken),
	) == 1
}

// ParseEvent normalizes a verified Ko-fi payload. Amounts arrive as decimal
// strings in major units and are converted to cents.
func (a *KofiAdapter) ParseEvent(rawBody []byte) (*gateway.ProviderEvent, error) {
	payload, err := decodeKofiBody(rawBody)
	if err != nil {
		return nil, err
	}

	occurredAt, err := time.Parse(time.RFC3339, payload.Timestamp)
	if err != nil {
		occurredAt = time.Now().UTC()
	} else {
		occurredAt = occurredAt.UTC()
	}

	switch payload.Type {
	case "Donation", "Subscription":
	default:
		// Shop orders and other types never grant ranks.
		a.logger.Debugw("ignoring kofi event", "type", payload.Type, "message_id", payload.MessageID)
		return &gateway.ProviderEvent{Kind: gateway.EventIgnored, OccurredAt: occurredAt}, nil
	}

	amountCents, err := parseKofiAmount(payload.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kofi amount %q: %w", payload.Amount, err)
	}

	kind := gateway.EventPaymentCompleted
	if payload.IsSubscriptionPayment {
		kind = gateway.EventSubscriptionRenewed
	}

	return &gateway.ProviderEvent{
		Kind:                     kind,
		PaymentID:                payload.KofiTransactionID,
		AmountInCents:            amountCents,
		Currency:                 strings.ToUpper(payload.Currency),
		PayerEmail:               payload.Email,
		DonorName:                payload.FromName,
		Message:                  payload.Message,
		FirstSubscriptionPayment: payload.IsFirstSubscriptionPayment,
		OccurredAt:               occurredAt,
	}, nil
}

// parseKofiAmount converts a decimal major-unit string like "3.00" to cents
// without floating point.
func parseKofiAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	// A sign on a "-0.xx" whole part would be silently lost below.
	if strings.HasPrefix(amount, "-") {
		return 0, fmt.Errorf("amount must not be negative")
	}

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}

	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}

	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		frac = frac[:2]
	}

	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}

	return major*100 + minor, nil
}
