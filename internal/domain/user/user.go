package user

import (
	"fmt"
	"time"

	dvo "vonix/internal/domain/donation/valueobjects"
	vo "vonix/internal/domain/user/valueobjects"
	"vonix/internal/shared/biztime"
)

// User is the subset of the community user record owned by the payment
// engine: the rank fields, donation total, and provider subscription state.
// Registration and profile edits happen elsewhere; this engine mutates the
// rank fields through GrantRank and ClearExpiredRank only.
//
// Invariant: a non-nil donationRankID always has a non-nil rankExpiresAt.
type User struct {
	id                   uint
	username             string
	email                string
	donationRankID       *string
	rankExpiresAt        *time.Time
	rankPaused           bool
	totalDonatedCents    int64
	subscriptionStatus   *vo.SubscriptionStatus
	stripeSubscriptionID *string
	squareSubscriptionID *string
	kofiSubscriptionID   *string
	version              int
	createdAt            time.Time
	updatedAt            time.Time
}

func NewUser(username, email string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	now := biztime.NowUTC()
	return &User{
		username:  username,
		email:     email,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func (u *User) ID() uint                 { return u.id }
func (u *User) Username() string         { return u.username }
func (u *User) Email() string            { return u.email }
func (u *User) DonationRankID() *string  { return u.donationRankID }
func (u *User) RankExpiresAt() *time.Time { return u.rankExpiresAt }
func (u *User) RankPaused() bool         { return u.rankPaused }
func (u *User) TotalDonatedCents() int64 { return u.totalDonatedCents }
// Version is the optimistic-lock token as loaded from persistence. The
// repository bumps it on every successful write; the entity never changes it.
func (u *User) Version() int             { return u.version }
func (u *User) CreatedAt() time.Time     { return u.createdAt }
func (u *User) UpdatedAt() time.Time     { return u.updatedAt }

func (u *User) SubscriptionStatus() *vo.SubscriptionStatus { return u.subscriptionStatus }

// SetID sets the user ID (only for persistence layer use)
func (u *User) SetID(id uint) {
	u.id = id
}

// ProviderSubscriptionID returns the stored subscription ID for the provider.
func (u *User) ProviderSubscriptionID(provider dvo.Provider) *string {
	switch provider {
	case dvo.ProviderStripe:
		return u.stripeSubscriptionID
	case dvo.ProviderSquare:
		return u.squareSubscriptionID
	case dvo.ProviderKofi:
		return u.kofiSubscriptionID
	default:
		return nil
	}
}

// SetProviderSubscriptionID records the provider subscription bound to this
// user when a subscription-created event arrives.
func (u *User) SetProviderSubscriptionID(provider dvo.Provider, subscriptionID string) error {
	if subscriptionID == "" {
		return fmt.Errorf("subscription ID is required")
	}
	switch provider {
	case dvo.ProviderStripe:
		u.stripeSubscriptionID = &subscriptionID
	case dvo.ProviderSquare:
		u.squareSubscriptionID = &subscriptionID
	case dvo.ProviderKofi:
		u.kofiSubscriptionID = &subscriptionID
	default:
		return fmt.Errorf("invalid provider: %s", provider)
	}
	u.touch()
	return nil
}

// SetSubscriptionStatus writes the canonical subscription status. A bare
// status change never alters rank expiry; only payments extend it.
func (u *User) SetSubscriptionStatus(status vo.SubscriptionStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid subscription status: %s", status)
	}
	u.subscriptionStatus = &status
	u.touch()
	return nil
}

// GrantRank applies a payment's rank effect: remaining paid time on an
// active rank is preserved and extended, a lapsed or absent rank starts
// counting from now. A nil rankID leaves the current rank untouched (tips
// extend nothing); days of zero only increments the donation total.
func (u *User) GrantRank(rankID *string, days int, amountCents int64) error {
	if days < 0 {
		return fmt.Errorf("days must not be negative")
	}
	if amountCents < 0 {
		return fmt.Errorf("amount must not be negative")
	}

	now := biztime.NowUTC()
	if days > 0 {
		base := now
		if u.rankExpiresAt != nil && u.rankExpiresAt.After(now) {
			base = *u.rankExpiresAt
		}
		newExpiry := base.Add(time.Duration(days) * 24 * time.Hour)
		u.rankExpiresAt = &newExpiry

		if rankID != nil {
			u.donationRankID = rankID
		}
	}

	u.totalDonatedCents += amountCents
	u.touch()
	return nil
}

// HasActiveRank reports whether the user currently holds an unexpired rank,
// regardless of the pause flag.
func (u *User) HasActiveRank() bool {
	return u.donationRankID != nil &&
		u.rankExpiresAt != nil &&
		u.rankExpiresAt.After(biztime.NowUTC())
}

// EffectiveRankID returns the rank the user currently benefits from: nil
// when no rank is held, the rank has lapsed, or the rank is paused. Paused
// ranks keep their expiry tracking; only the effect is suppressed.
func (u *User) EffectiveRankID() *string {
	if u.rankPaused || !u.HasActiveRank() {
		return nil
	}
	return u.donationRankID
}

// IsRankExpired reports whether the rank fields reference a lapsed rank.
func (u *User) IsRankExpired() bool {
	return u.rankExpiresAt != nil && !u.rankExpiresAt.After(biztime.NowUTC())
}

// ClearExpiredRank removes a lapsed rank. Returns true when the user record
// changed. Calling it on a user without a lapsed rank is a no-op, which
// keeps the expiry sweep idempotent.
func (u *User) ClearExpiredRank() bool {
	if !u.IsRankExpired() {
		return false
	}
	u.donationRankID = nil
	u.rankExpiresAt = nil
	u.rankPaused = false
	u.touch()
	return true
}

func (u *User) touch() {
	u.updatedAt = biztime.NowUTC()
}

// ReconstructUser creates a User instance from persistence.
func ReconstructUser(
	id uint,
	username, email string,
	donationRankID *string,
	rankExpiresAt *time.Time,
	rankPaused bool,
	totalDonatedCents int64,
	subscriptionStatus *vo.SubscriptionStatus,
	stripeSubscriptionID, squareSubscriptionID, kofiSubscriptionID *string,
	version int,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:                   id,
		username:             username,
		email:                email,
		donationRankID:       donationRankID,
		rankExpiresAt:        rankExpiresAt,
		rankPaused:           rankPaused,
		totalDonatedCents:    totalDonatedCents,
		subscriptionStatus:   subscriptionStatus,
		stripeSubscriptionID: stripeSubscriptionID,
		squareSubscriptionID: squareSubscriptionID,
		kofiSubscriptionID:   kofiSubscriptionID,
		version:              version,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}
