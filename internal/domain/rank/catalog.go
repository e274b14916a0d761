package rank

import "sort"

const (
	// MinGrantDays floors the proportional duration so micro-payments
	// cannot buy degenerate one-day ranks.
	MinGrantDays = 7
	// MaxGrantDays caps the proportional duration so a single large
	// payment cannot buy years of rank time.
	MaxGrantDays = 365
)

// Catalog answers amount-to-rank resolution questions over a loaded set of
// ranks. It has no side effects; callers load the rank list per request or
// through the cached settings provider.
type Catalog struct {
	ranks []*Rank
}

// NewCatalog builds a catalog from the given ranks, ordered by ascending
// minimum amount. The input slice is not retained.
func NewCatalog(ranks []*Rank) *Catalog {
	sorted := make([]*Rank, len(ranks))
	copy(sorted, ranks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinAmountCents() < sorted[j].MinAmountCents()
	})
	return &Catalog{ranks: sorted}
}

// Ranks returns the catalog entries ordered by ascending minimum amount.
func (c *Catalog) Ranks() []*Rank {
	return c.ranks
}

// FindBySlug returns the rank with the given slug, or nil.
func (c *Catalog) FindBySlug(slug string) *Rank {
	for _, r := range c.ranks {
		if r.Slug() == slug {
			return r
		}
	}
	return nil
}

// FindRankForAmount returns the rank with the highest minimum amount that
// is less than or equal to amountCents, or nil when the amount qualifies
// for no rank (a tip).
func (c *Catalog) FindRankForAmount(amountCents int64) *Rank {
	var best *Rank
	for _, r := range c.ranks {
		if r.MinAmountCents() <= amountCents {
			best = r
		}
	}
	return best
}

// ComputeDays returns the number of rank days amountCents buys against the
// rank's base price, proportionally, clamped to [MinGrantDays, MaxGrantDays].
func (c *Catalog) ComputeDays(amountCents int64, r *Rank) int {
	if r == nil || r.MinAmountCents() <= 0 {
		return 0
	}
	days := int(amountCents * int64(r.BaseDurationDays()) / r.MinAmountCents())
	if days < MinGrantDays {
		return MinGrantDays
	}
	if days > MaxGrantDays {
		return MaxGrantDays
	}
	return days
}
