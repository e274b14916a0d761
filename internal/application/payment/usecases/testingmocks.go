package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vonix/internal/application/payment/gateway"
	"vonix/internal/domain/donation"
	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/domain/rank"
	"vonix/internal/domain/user"
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

// MockUserRepository is a mock implementation of user.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindUsersWithExpiredRanks(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

// MockRankRepository is a mock implementation of rank.RankRepository
type MockRankRepository struct {
	mock.Mock
}

func (m *MockRankRepository) ListAll(ctx context.Context) ([]*rank.Rank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rank.Rank), args.Error(1)
}

func (m *MockRankRepository) GetBySlug(ctx context.Context, slug string) (*rank.Rank, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rank.Rank), args.Error(1)
}

func (m *MockRankRepository) Update(ctx context.Context, r *rank.Rank) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockAdapter is a mock implementation of gateway.Adapter
type MockAdapter struct {
	mock.Mock
	provider dvo.Provider
}

func NewMockAdapter(provider dvo.Provider) *MockAdapter {
	return &MockAdapter{provider: provider}
}

func (m *MockAdapter) Provider() dvo.Provider {
	return m.provider
}

func (m *MockAdapter) SignatureHeader() string {
	return "X-Test-Signature"
}

func (m *MockAdapter) VerifySignature(rawBody []byte, signatureHeader, requestURL string) bool {
	args := m.Called(rawBody, signatureHeader, requestURL)
	return args.Bool(0)
}

func (m *MockAdapter) ParseEvent(rawBody []byte) (*gateway.ProviderEvent, error) {
	args := m.Called(rawBody)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ProviderEvent), args.Error(1)
}

// MockActiveProviderChecker is a mock implementation of ActiveProviderChecker
type MockActiveProviderChecker struct {
	mock.Mock
}

func (m *MockActiveProviderChecker) IsProviderActive(ctx context.Context, provider dvo.Provider) bool {
	args := m.Called(ctx, provider)
	return args.Bool(0)
}

// MockDonationNotifier is a mock implementation of DonationNotifier
type MockDonationNotifier struct {
	mock.Mock
}

func (m *MockDonationNotifier) NotifyDonation(ctx context.Context, cmd DonationNotification) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
