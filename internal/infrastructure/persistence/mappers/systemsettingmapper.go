package mappers

import (
	"fmt"

	"vonix/internal/domain/setting"
	"vonix/internal/infrastructure/persistence/models"
)

func SystemSettingToModel(s *setting.SystemSetting) *models.SystemSettingModel {
	return &models.SystemSettingModel{
		ID:          s.ID(),
		SID:         s.SID(),
		Category:    s.Category(),
		SettingKey:  s.Key(),
		Value:       s.Value(),
		ValueType:   string(s.ValueType()),
		Description: s.Description(),
		UpdatedBy:   s.UpdatedBy(),
		Version:     s.Version(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func SystemSettingToDomain(model *models.SystemSettingModel) (*setting.SystemSetting, error) {
	valueType := setting.ValueType(model.ValueType)
	switch valueType {
	case setting.ValueTypeString, setting.ValueTypeInt, setting.ValueTypeBool:
	default:
		return nil, fmt.Errorf("invalid value type: %s", model.ValueType)
	}

	return setting.ReconstructSystemSetting(
		model.ID,
		model.SID,
		model.Category,
		model.SettingKey,
		model.Value,
		valueType,
		model.Description,
		model.UpdatedBy,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}
