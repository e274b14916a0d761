package usecases

import (
	"context"
	"fmt"

	"vonix/internal/application/donation/dto"
	"vonix/internal/domain/donation"
	"vonix/internal/shared/logger"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// ListRecentDonationsUseCase serves the public donation feed.
type ListRecentDonationsUseCase struct {
	donationRepo donation.DonationRepository
	logger       logger.Interface
}

func NewListRecentDonationsUseCase(
	donationRepo donation.DonationRepository,
	logger logger.Interface,
) *ListRecentDonationsUseCase {
	return &ListRecentDonationsUseCase{
		donationRepo: donationRepo,
		logger:       logger,
	}
}

func (uc *ListRecentDonationsUseCase) Execute(ctx context.Context, limit int) ([]*dto.DonationDTO, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	donations, err := uc.donationRepo.ListRecent(ctx, limit)
	if err != nil {
		uc.logger.Errorw("failed to list recent donations", "error", err)
		return nil, fmt.Errorf("failed to list recent donations: %w", err)
	}

	donationDTOs := make([]*dto.DonationDTO, 0, len(donations))
	for _, d := range donations {
		donationDTOs = append(donationDTOs, dto.ToDonationDTO(d))
	}
	return donationDTOs, nil
}
