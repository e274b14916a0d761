package mappers

import (
	"fmt"

	"vonix/internal/domain/donation"
	vo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/infrastructure/persistence/models"
)

func DonationToModel(d *donation.Donation) *models.DonationModel {
	return &models.DonationModel{
		ID:             d.ID(),
		SID:            d.SID(),
		UserID:         d.UserID(),
		AmountCents:    d.Amount().AmountInCents(),
		Currency:       d.Amount().Currency(),
		Provider:       d.Provider().String(),
		PaymentID:      d.PaymentID(),
		SubscriptionID: d.SubscriptionID(),
		RankID:         d.RankID(),
		Days:           d.Days(),
		PaymentType:    d.PaymentType().String(),
		Status:         d.Status().String(),
		DonorName:      d.DonorName(),
		Message:        d.Message(),
		CreatedAt:      d.CreatedAt(),
	}
}

func DonationToDomain(model *models.DonationModel) (*donation.Donation, error) {
	provider, err := vo.NewProvider(model.Provider)
	if err != nil {
		return nil, fmt.Errorf("invalid provider: %w", err)
	}

	paymentType, err := vo.NewPaymentType(model.PaymentType)
	if err != nil {
		return nil, fmt.Errorf("invalid payment type: %w", err)
	}

	status := vo.DonationStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid donation status: %s", model.Status)
	}

	amount := vo.NewMoney(model.AmountCents, model.Currency)

	return donation.ReconstructDonation(
		model.ID,
		model.SID,
		model.UserID,
		amount,
		provider,
		model.PaymentID,
		model.SubscriptionID,
		model.RankID,
		model.Days,
		paymentType,
		status,
		model.DonorName,
		model.Message,
		model.CreatedAt,
	), nil
}
