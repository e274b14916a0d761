package donation

import (
	"fmt"
	"time"

	vo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/shared/biztime"
	"vonix/internal/shared/id"
)

// Donation is an immutable ledger entry recording a single successful
// payment event. Exactly one Donation exists per provider payment ID; the
// persistence layer enforces this with a unique constraint, which is the
// authoritative idempotency gate for webhook replays.
type Donation struct {
	id             uint
	sid            string
	userID         *uint
	amount         vo.Money
	provider       vo.Provider
	paymentID      string
	subscriptionID *string
	rankID         *string
	days           int
	paymentType    vo.PaymentType
	status         vo.DonationStatus
	donorName      string
	message        *string
	createdAt      time.Time
}

// NewDonation creates a donation ledger entry for a completed payment.
// userID is nil for payments that could not be matched to a user; rankID is
// nil for tips below the lowest rank threshold.
func NewDonation(
	userID *uint,
	amount vo.Money,
	provider vo.Provider,
	paymentID string,
	paymentType vo.PaymentType,
) (*Donation, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("payment ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if !paymentType.IsValid() {
		return nil, fmt.Errorf("invalid payment type: %s", paymentType)
	}

	sid, err := id.NewDonationID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate SID: %w", err)
	}

	return &Donation{
		sid:         sid,
		userID:      userID,
		amount:      amount,
		provider:    provider,
		paymentID:   paymentID,
		paymentType: paymentType,
		status:      vo.DonationStatusCompleted,
		createdAt:   biztime.NowUTC(),
	}, nil
}

// AttachRankGrant records the rank and day count this donation resolved to.
// Called before persistence; the ledger entry never changes afterwards.
func (d *Donation) AttachRankGrant(rankID *string, days int) error {
	if days < 0 {
		return fmt.Errorf("days must not be negative")
	}
	d.rankID = rankID
	d.days = days
	return nil
}

// SetSubscriptionID records the provider subscription this payment belongs to.
func (d *Donation) SetSubscriptionID(subscriptionID string) {
	if subscriptionID == "" {
		return
	}
	d.subscriptionID = &subscriptionID
}

// SetDonorInfo records the public attribution for the donation feed.
func (d *Donation) SetDonorInfo(donorName string, message string) {
	d.donorName = donorName
	if message != "" {
		d.message = &message
	}
}

// SetID sets the donation ID after persistence (used by repository after Create)
func (d *Donation) SetID(id uint) {
	d.id = id
}

func (d *Donation) ID() uint                { return d.id }
func (d *Donation) SID() string             { return d.sid }
func (d *Donation) UserID() *uint           { return d.userID }
func (d *Donation) Amount() vo.Money        { return d.amount }
func (d *Donation) Provider() vo.Provider   { return d.provider }
func (d *Donation) PaymentID() string       { return d.paymentID }
func (d *Donation) SubscriptionID() *string { return d.subscriptionID }
func (d *Donation) RankID() *string         { return d.rankID }
func (d *Donation) Days() int               { return d.days }

func (d *Donation) PaymentType() vo.PaymentType  { return d.paymentType }
func (d *Donation) Status() vo.DonationStatus    { return d.status }
func (d *Donation) DonorName() string            { return d.donorName }
func (d *Donation) Message() *string             { return d.message }
func (d *Donation) CreatedAt() time.Time         { return d.createdAt }

// HasRankGrant returns true when this donation resolved to a rank.
func (d *Donation) HasRankGrant() bool {
	return d.rankID != nil && d.days > 0
}

// ReconstructDonation creates a Donation instance from persistence.
func ReconstructDonation(
	id uint,
	sid string,
	userID *uint,
	amount vo.Money,
	provider vo.Provider,
	paymentID string,
	subscriptionID *string,
	rankID *string,
	days int,
	paymentType vo.PaymentType,
	status vo.DonationStatus,
	donorName string,
	message *string,
	createdAt time.Time,
) *Donation {
	return &Donation{
		id:             id,
		sid:            sid,
		userID:         userID,
		amount:         amount,
		provider:       provider,
		paymentID:      paymentID,
		subscriptionID: subscriptionID,
		rankID:         rankID,
		days:           days,
		paymentType:    paymentType,
		status:         status,
		donorName:      donorName,
		message:        message,
		createdAt:      createdAt,
	}
}
