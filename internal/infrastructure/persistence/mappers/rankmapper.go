package mappers

import (
	"vonix/internal/domain/rank"
	"vonix/internal/infrastructure/persistence/models"
)

func RankToModel(r *rank.Rank) *models.RankModel {
	return &models.RankModel{
		ID:               r.ID(),
		Slug:             r.Slug(),
		Name:             r.Name(),
		MinAmountCents:   r.MinAmountCents(),
		BaseDurationDays: r.BaseDurationDays(),
		Color:            r.Color(),
		Icon:             r.Icon(),
		Perks:            models.StringArray(r.Perks()),
		Description:      r.Description(),
		StripePriceID:    r.StripePriceID(),
		SquarePlanID:     r.SquarePlanID(),
		SortOrder:        r.SortOrder(),
		Version:          r.Version(),
		CreatedAt:        r.CreatedAt(),
		UpdatedAt:        r.UpdatedAt(),
	}
}

func RankToDomain(model *models.RankModel) *rank.Rank {
	return rank.ReconstructRank(
		model.ID,
		model.Slug,
		model.Name,
		model.MinAmountCents,
		model.BaseDurationDays,
		model.Color,
		model.Icon,
		[]string(model.Perks),
		model.Description,
		model.StripePriceID,
		model.SquarePlanID,
		model.SortOrder,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
