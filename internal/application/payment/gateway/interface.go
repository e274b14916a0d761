// Package gateway defines the payment provider adapter boundary. Each
// provider (Stripe, Square, Ko-fi) implements Adapter; the webhook usecase
// consumes any adapter through this interface so the reconciliation logic
// exists exactly once.
package gateway

import (
	"time"

	dvo "vonix/internal/domain/donation/valueobjects"
	uvo "vonix/internal/domain/user/valueobjects"
)

// EventKind classifies a normalized provider event.
type EventKind string

const (
	EventPaymentCompleted    EventKind = "payment_completed"
	EventSubscriptionCreated EventKind = "subscription_created"
	EventSubscriptionUpdated EventKind = "subscription_updated"
	EventSubscriptionRenewed EventKind = "subscription_renewed"
	// EventIgnored marks provider events that carry no payment semantics
	// for this engine (e.g. Stripe charge.updated). The handler
	// acknowledges them without processing.
	EventIgnored EventKind = "ignored"
)

// ProviderEvent is the normalized form of a provider webhook payload.
// AmountInCents is already converted from the provider's minor-unit
// representation.
type ProviderEvent struct {
	Kind           EventKind
	PaymentID      string
	SubscriptionID string
	AmountInCents  int64
	Currency       string

	// User resolution hints, in priority order.
	MetadataUserID *uint
	PayerEmail     string

	// Optional checkout metadata carried through the original order.
	MetadataRankID string
	MetadataDays   int

	// Attribution for the public donation feed.
	DonorName string
	Message   string

	// FirstSubscriptionPayment distinguishes the initial charge of a
	// subscription from renewals for ledger classification.
	FirstSubscriptionPayment bool

	// Canonical status for subscription_created/updated events.
	SubscriptionStatus uvo.SubscriptionStatus
	// Provider plan/price ID, for lazy catalog backfill.
	PlanID string

	OccurredAt time.Time
}

// Adapter normalizes one provider's webhooks. VerifySignature must be
// called on the raw body before ParseEvent; an unverified payload is never
// parsed.
type Adapter interface {
	Provider() dvo.Provider
	// SignatureHeader returns the name of the HTTP header carrying the
	// signature, or "" when verification material is embedded in the body
	// (Ko-fi).
	SignatureHeader() string
	VerifySignature(rawBody []byte, signatureHeader, requestURL string) bool
	ParseEvent(rawBody []byte) (*ProviderEvent, error)
}
