package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vonix/internal/domain/donation"
	vo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/infrastructure/persistence/mappers"
	"vonix/internal/infrastructure/persistence/models"
	"vonix/internal/shared/db"
	apperrors "vonix/internal/shared/errors"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Create inserts the donation. The unique (provider, payment_id) index
// turns a concurrent redelivery into ErrDuplicateDonation instead of a
// second ledger row.
func (r *DonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	model := mappers.DonationToModel(d)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return donation.ErrDuplicateDonation
		}
		return fmt.Errorf("failed to create donation: %w", err)
	}

	d.SetID(model.ID)

	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id uint) (*donation.Donation, error) {
	var model models.DonationModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("donation not found")
		}
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}

	return mappers.DonationToDomain(&model)
}

// GetByProviderPaymentID returns nil, nil when no donation exists for the
// payment ID. Callers use this as the fast-path duplicate check.
func (r *DonationRepository) GetByProviderPaymentID(ctx context.Context, provider vo.Provider, paymentID string) (*donation.Donation, error) {
	var model models.DonationModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND payment_id = ?", provider.String(), paymentID).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get donation by payment_id: %w", err)
	}

	return mappers.DonationToDomain(&model)
}

func (r *DonationRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]*donation.Donation, error) {
	var donationModels []models.DonationModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&donationModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list donations by user_id: %w", err)
	}

	return r.toDomainList(donationModels)
}

func (r *DonationRepository) ListRecent(ctx context.Context, limit int) ([]*donation.Donation, error) {
	var donationModels []models.DonationModel

	if err := db.GetTxFromContext(ctx, r.db).
		Order("created_at DESC").
		Limit(limit).
		Find(&donationModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent donations: %w", err)
	}

	return r.toDomainList(donationModels)
}

func (r *DonationRepository) toDomainList(donationModels []models.DonationModel) ([]*donation.Donation, error) {
	donations := make([]*donation.Donation, len(donationModels))
	for i, model := range donationModels {
		d, err := mappers.DonationToDomain(&model)
		if err != nil {
			return nil, err
		}
		donations[i] = d
	}
	return donations, nil
}
