package setting

import "context"

type Repository interface {
	GetByKey(ctx context.Context, category, key string) (*SystemSetting, error)
	GetByCategory(ctx context.Context, category string) ([]*SystemSetting, error)
	Upsert(ctx context.Context, s *SystemSetting) error
}
