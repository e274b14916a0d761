package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vonix/internal/domain/setting"
)

// MockSettingRepository is a mock implementation of setting.Repository
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) GetByKey(ctx context.Context, category, key string) (*setting.SystemSetting, error) {
	args := m.Called(ctx, category, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*setting.SystemSetting), args.Error(1)
}

func (m *MockSettingRepository) GetByCategory(ctx context.Context, category string) ([]*setting.SystemSetting, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*setting.SystemSetting), args.Error(1)
}

func (m *MockSettingRepository) Upsert(ctx context.Context, s *setting.SystemSetting) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
