package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vonix/internal/domain/rank"
	"vonix/internal/domain/user"
)

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
