package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vonix/internal/domain/donation"
	dvo "vonix/internal/domain/donation/valueobjects"
)

// MockDonationRepository is a mock implementation of donation.DonationRepository
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, d *donation.Donation) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id uint) (*donation.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) GetByProviderPaymentID(ctx context.Context, provider dvo.Provider, paymentID string) (*donation.Donation, error) {
	args := m.Called(ctx, provider, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]*donation.Donation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*donation.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListRecent(ctx context.Context, limit int) ([]*donation.Donation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*donation.Donation), args.Error(1)
}
