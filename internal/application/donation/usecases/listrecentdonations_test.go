package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vonix/internal/domain/donation"
	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/shared/logger"
)

func feedDonation(t *testing.T, paymentID, donorName string, amountCents int64) *donation.Donation {
	t.Helper()
	d, err := donation.NewDonation(nil, dvo.NewMoney(amountCents, "USD"), dvo.ProviderStripe, paymentID, dvo.PaymentTypeOneTime)
	require.NoError(t, err)
	d.SetDonorInfo(donorName, "")
	return d
}

func TestListRecentDonations_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("maps ledger entries to the public feed", func(t *testing.T) {
		repo := new(MockDonationRepository)
		uc := NewListRecentDonationsUseCase(repo, logger.NewLogger())

		entries := []*donation.Donation{
			feedDonation(t, "pi_1", "Alex", 1000),
			feedDonation(t, "pi_2", "", 500),
		}
		repo.On("ListRecent", mock.Anything, defaultRecentLimit).Return(entries, nil)

		dtos, err := uc.Execute(ctx, 0)
		require.NoError(t, err)
		require.Len(t, dtos, 2)

		assert.Equal(t, "Alex", dtos[0].DonorName)
		assert.Equal(t, 10.0, dtos[0].Amount)
		// Anonymous fallback for entries without attribution.
		assert.Equal(t, "Anonymous", dtos[1].DonorName)
	})

	t.Run("limit is clamped to the maximum", func(t *testing.T) {
		repo := new(MockDonationRepository)
		uc := NewListRecentDonationsUseCase(repo, logger.NewLogger())

		repo.On("ListRecent", mock.Anything, maxRecentLimit).Return([]*donation.Donation{}, nil)

		_, err := uc.Execute(ctx, 5000)
		require.NoError(t, err)
		repo.AssertCalled(t, "ListRecent", mock.Anything, maxRecentLimit)
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		repo := new(MockDonationRepository)
		uc := NewListRecentDonationsUseCase(repo, logger.NewLogger())

		repo.On("ListRecent", mock.Anything, 10).Return(nil, errors.New("connection lost"))

		_, err := uc.Execute(ctx, 10)
		assert.Error(t, err)
	})
}
