package rank

import "context"

type RankRepository interface {
	// ListAll returns all ranks ordered by ascending minimum amount.
	ListAll(ctx context.Context) ([]*Rank, error)
	GetBySlug(ctx context.Context, slug string) (*Rank, error)
	// Update persists provider-plan-ID backfill; all other rank writes
	// belong to admin tooling outside this engine.
	Update(ctx context.Context, r *Rank) error
}
