package rank

import (
	"fmt"
	"time"

	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/shared/biztime"
)

// Rank is a purchasable donation tier. Ranks are created and edited by
// administrators; this engine only reads them, except for the lazy
// provider-plan-ID backfill performed the first time a subscription for a
// rank shows up from a provider.
type Rank struct {
	id               uint
	slug             string
	name             string
	minAmountCents   int64
	baseDurationDays int
	color            string
	icon             string
	perks            []string
	description      string
	stripePriceID    *string
	squarePlanID     *string
	sortOrder        int
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewRank(slug, name string, minAmountCents int64, baseDurationDays int) (*Rank, error) {
	if slug == "" {
		return nil, fmt.Errorf("rank slug is required")
	}
	if name == "" {
		return nil, fmt.Errorf("rank name is required")
	}
	if len(slug) > 50 {
		return nil, fmt.Errorf("rank slug too long (max 50 characters)")
	}
	if minAmountCents <= 0 {
		return nil, fmt.Errorf("minimum amount must be positive")
	}
	if baseDurationDays <= 0 {
		return nil, fmt.Errorf("base duration must be positive")
	}

	now := biztime.NowUTC()
	return &Rank{
		slug:             slug,
		name:             name,
		minAmountCents:   minAmountCents,
		baseDurationDays: baseDurationDays,
		perks:            []string{},
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func (r *Rank) ID() uint               { return r.id }
func (r *Rank) Slug() string           { return r.slug }
func (r *Rank) Name() string           { return r.name }
func (r *Rank) MinAmountCents() int64  { return r.minAmountCents }
func (r *Rank) BaseDurationDays() int  { return r.baseDurationDays }
func (r *Rank) Color() string          { return r.color }
func (r *Rank) Icon() string           { return r.icon }
func (r *Rank) Perks() []string        { return r.perks }
func (r *Rank) Description() string    { return r.description }
func (r *Rank) StripePriceID() *string { return r.stripePriceID }
func (r *Rank) SquarePlanID() *string  { return r.squarePlanID }
func (r *Rank) SortOrder() int         { return r.sortOrder }
func (r *Rank) Version() int           { return r.version }
func (r *Rank) CreatedAt() time.Time   { return r.createdAt }
func (r *Rank) UpdatedAt() time.Time   { return r.updatedAt }

// SetID sets the rank ID (only for persistence layer use)
func (r *Rank) SetID(id uint) {
	r.id = id
}

// SetDisplay sets the visual metadata shown on the site.
func (r *Rank) SetDisplay(color, icon string, perks []string, description string) {
	r.color = color
	r.icon = icon
	r.perks = perks
	r.description = description
	r.updatedAt = biztime.NowUTC()
}

// ProviderPlanID returns the stored plan/price ID for the given provider,
// or nil when none has been backfilled yet.
func (r *Rank) ProviderPlanID(provider dvo.Provider) *string {
	switch provider {
	case dvo.ProviderStripe:
		return r.stripePriceID
	case dvo.ProviderSquare:
		return r.squarePlanID
	default:
		return nil
	}
}

// SetProviderPlanID backfills the provider plan/price ID the first time a
// subscription for this rank is observed. Ko-fi has no plan objects.
func (r *Rank) SetProviderPlanID(provider dvo.Provider, planID string) error {
	if planID == "" {
		return fmt.Errorf("plan ID is required")
	}
	switch provider {
	case dvo.ProviderStripe:
		r.stripePriceID = &planID
	case dvo.ProviderSquare:
		r.squarePlanID = &planID
	default:
		return fmt.Errorf("provider %s does not use plan IDs", provider)
	}
	r.version++
	r.updatedAt = biztime.NowUTC()
	return nil
}

// ReconstructRank creates a Rank instance from persistence.
func ReconstructRank(
	id uint,
	slug, name string,
	minAmountCents int64,
	baseDurationDays int,
	color, icon string,
	perks []string,
	description string,
	stripePriceID, squarePlanID *string,
	sortOrder int,
	version int,
	createdAt, updatedAt time.Time,
) *Rank {
	if perks == nil {
		perks = []string{}
	}
	return &Rank{
		id:               id,
		slug:             slug,
		name:             name,
		minAmountCents:   minAmountCents,
		baseDurationDays: baseDurationDays,
		color:            color,
		icon:             icon,
		perks:            perks,
		description:      description,
		stripePriceID:    stripePriceID,
		squarePlanID:     squarePlanID,
		sortOrder:        sortOrder,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}
