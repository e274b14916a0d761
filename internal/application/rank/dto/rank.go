package dto

import (
	"vonix/internal/domain/rank"
)

// RankDTO is the public catalog representation of a rank.
type RankDTO struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name"`
	MinAmountCents   int64    `json:"min_amount_cents"`
	BaseDurationDays int      `json:"base_duration_days"`
	Color            string   `json:"color,omitempty"`
	Icon             string   `json:"icon,omitempty"`
	Perks            []string `json:"perks,omitempty"`
	Description      string   `json:"description,omitempty"`
	DescriptionHTML  string   `json:"description_html,omitempty"`
	SortOrder        int      `json:"sort_order"`
}

// ToRankDTO converts a rank entity to its DTO form. descriptionHTML is the
// pre-rendered, sanitized markdown description.
func ToRankDTO(r *rank.Rank, descriptionHTML string) *RankDTO {
	return &RankDTO{
		Slug:             r.Slug(),
		Name:             r.Name(),
		MinAmountCents:   r.MinAmountCents(),
		BaseDurationDays: r.BaseDurationDays(),
		Color:            r.Color(),
		Icon:             r.Icon(),
		Perks:            r.Perks(),
		Description:      r.Description(),
		DescriptionHTML:  descriptionHTML,
		SortOrder:        r.SortOrder(),
	}
}
