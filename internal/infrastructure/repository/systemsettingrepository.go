package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vonix/internal/domain/setting"
	"vonix/internal/infrastructure/persistence/mappers"
	"vonix/internal/infrastructure/persistence/models"
	"vonix/internal/shared/db"
)

type SystemSettingRepository struct {
	db *gorm.DB
}

func NewSystemSettingRepository(db *gorm.DB) *SystemSettingRepository {
	return &SystemSettingRepository{db: db}
}

func (r *SystemSettingRepository) GetByKey(ctx context.Context, category, key string) (*setting.SystemSetting, error) {
	var model models.SystemSettingModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("category = ? AND setting_key = ?", category, key).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, setting.ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return mappers.SystemSettingToDomain(&model)
}

func (r *SystemSettingRepository) GetByCategory(ctx context.Context, category string) ([]*setting.SystemSetting, error) {
	var settingModels []models.SystemSettingModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("category = ?", category).
		Order("setting_key ASC").
		Find(&settingModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings by category: %w", err)
	}

	settings := make([]*setting.SystemSetting, len(settingModels))
	for i, model := range settingModels {
		s, err := mappers.SystemSettingToDomain(&model)
		if err != nil {
			return nil, err
		}
		settings[i] = s
	}

	return settings, nil
}

func (r *SystemSettingRepository) Upsert(ctx context.Context, s *setting.SystemSetting) error {
	model := mappers.SystemSettingToModel(s)

	tx := db.GetTxFromContext(ctx, r.db)

	if model.ID == 0 {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create setting: %w", err)
		}
		s.SetID(model.ID)
		return nil
	}

	result := tx.
		Model(&models.SystemSettingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"value":      model.Value,
			"updated_by": model.UpdatedBy,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update setting: %w", result.Error)
	}

	return nil
}
