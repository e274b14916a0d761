package user

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by Update when the row changed since the
// aggregate was loaded. Callers reload and retry.
var ErrVersionConflict = errors.New("user was modified concurrently")

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Update persists the rank and subscription fields, guarded by the
	// version the aggregate was loaded with so a grant and the sweep
	// cannot lose updates against each other. Returns ErrVersionConflict
	// when the guard misses.
	Update(ctx context.Context, u *User) error
	// FindUsersWithExpiredRanks returns users whose rank_expires_at is in
	// the past, for the expiry sweep.
	FindUsersWithExpiredRanks(ctx context.Context) ([]*User, error)
}
