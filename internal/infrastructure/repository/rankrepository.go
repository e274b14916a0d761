package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"vonix/internal/domain/rank"
	"vonix/internal/infrastructure/persistence/mappers"
	"vonix/internal/infrastructure/persistence/models"
	"vonix/internal/shared/db"
)

type RankRepository struct {
	db *gorm.DB
}

func NewRankRepository(db *gorm.DB) *RankRepository {
	return &RankRepository{db: db}
}

func (r *RankRepository) ListAll(ctx context.Context) ([]*rank.Rank, error) {
	var rankModels []models.RankModel

	if err := db.GetTxFromContext(ctx, r.db).
		Order("min_amount_cents ASC").
		Find(&rankModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list ranks: %w", err)
	}

	ranks := make([]*rank.Rank, len(rankModels))
	for i, model := range rankModels {
		ranks[i] = mappers.RankToDomain(&model)
	}

	return ranks, nil
}

func (r *RankRepository) GetBySlug(ctx context.Context, slug string) (*rank.Rank, error) {
	var model models.RankModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("slug = ?", slug).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("rank not found: %s", slug)
		}
		return nil, fmt.Errorf("failed to get rank by slug: %w", err)
	}

	return mappers.RankToDomain(&model), nil
}

func (r *RankRepository) Update(ctx context.Context, rk *rank.Rank) error {
	model := mappers.RankToModel(rk)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.RankModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":               model.Name,
			"min_amount_cents":   model.MinAmountCents,
			"base_duration_days": model.BaseDurationDays,
			"color":              model.Color,
			"icon":               model.Icon,
			"perks":              model.Perks,
			"description":        model.Description,
			"stripe_price_id":    model.StripePriceID,
			"square_plan_id":     model.SquarePlanID,
			"sort_order":         model.SortOrder,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update rank: %w", result.Error)
	}

	return nil
}
