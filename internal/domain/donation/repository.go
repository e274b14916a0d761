package donation

import (
	"context"
	"errors"

	vo "vonix/internal/domain/donation/valueobjects"
)

// ErrDuplicateDonation is returned by Create when a donation with the same
// provider-qualified payment ID already exists. Callers treat this as
// "already processed" rather than a failure.
var ErrDuplicateDonation = errors.New("donation already recorded for payment ID")

type DonationRepository interface {
	// Create inserts the donation. Returns ErrDuplicateDonation when the
	// unique (provider, payment_id) constraint rejects the insert.
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id uint) (*Donation, error)
	// GetByProviderPaymentID is the fast-path duplicate check before the
	// constraint-backed insert.
	GetByProviderPaymentID(ctx context.Context, provider vo.Provider, paymentID string) (*Donation, error)
	ListByUserID(ctx context.Context, userID uint, limit int) ([]*Donation, error)
	ListRecent(ctx context.Context, limit int) ([]*Donation, error)
}
