package mappers

import (
	"fmt"

	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/domain/user"
	vo "vonix/internal/domain/user/valueobjects"
	"vonix/internal/infrastructure/persistence/models"
)

func UserToModel(u *user.User) *models.UserModel {
	model := &models.UserModel{
		ID:                   u.ID(),
		Username:             u.Username(),
		Email:                u.Email(),
		DonationRankID:       u.DonationRankID(),
		RankExpiresAt:        u.RankExpiresAt(),
		RankPaused:           u.RankPaused(),
		TotalDonatedCents:    u.TotalDonatedCents(),
		StripeSubscriptionID: u.ProviderSubscriptionID(dvo.ProviderStripe),
		SquareSubscriptionID: u.ProviderSubscriptionID(dvo.ProviderSquare),
		KofiSubscriptionID:   u.ProviderSubscriptionID(dvo.ProviderKofi),
		Version:              u.Version(),
		CreatedAt:            u.CreatedAt(),
		UpdatedAt:            u.UpdatedAt(),
	}

	if status := u.SubscriptionStatus(); status != nil {
		s := status.String()
		model.SubscriptionStatus = &s
	}

	return model
}

func UserToDomain(model *models.UserModel) (*user.User, error) {
	var status *vo.SubscriptionStatus
	if model.SubscriptionStatus != nil && *model.SubscriptionStatus != "" {
		s, err := vo.NewSubscriptionStatus(*model.SubscriptionStatus)
		if err != nil {
			return nil, fmt.Errorf("invalid subscription status: %w", err)
		}
		status = &s
	}

	return user.ReconstructUser(
		model.ID,
		model.Username,
		model.Email,
		model.DonationRankID,
		model.RankExpiresAt,
		model.RankPaused,
		model.TotalDonatedCents,
		status,
		model.StripeSubscriptionID,
		model.SquareSubscriptionID,
		model.KofiSubscriptionID,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}
