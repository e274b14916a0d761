package usecases

import (
	"context"
	"fmt"

	"vonix/internal/domain/user"
	"vonix/internal/shared/logger"
)

// ExpireRanksUseCase removes lapsed donation ranks. It backs the cron
// sweep endpoint and the optional in-process scheduler; both may fire for
// the same users, so the sweep is idempotent and relies on the database
// query to re-select only users still carrying an expired rank.
type ExpireRanksUseCase struct {
	userRepo user.UserRepository
	logger   logger.Interface
}

// SweepResult reports what one sweep run removed.
type SweepResult struct {
	Removed   int
	Usernames []string
}

func NewExpireRanksUseCase(
	userRepo user.UserRepository,
	logger logger.Interface,
) *ExpireRanksUseCase {
	return &ExpireRanksUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Execute clears the rank of every user whose expiry has passed. A failure
// on one user never blocks the rest of the sweep.
func (uc *ExpireRanksUseCase) Execute(ctx context.Context) (*SweepResult, error) {
	expired, err := uc.userRepo.FindUsersWithExpiredRanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find users with expired ranks: %w", err)
	}

	result := &SweepResult{Usernames: []string{}}
	if len(expired) == 0 {
		return result, nil
	}

	uc.logger.Infow("found expired ranks to process", "count", len(expired))

	for _, u := range expired {
		if !u.ClearExpiredRank() {
			// Already cleared by a concurrent sweep or a fresh grant
			// moved the expiry forward since the query ran.
			continue
		}

		if err := uc.userRepo.Update(ctx, u); err != nil {
			uc.logger.Errorw("failed to clear expired rank",
				"user_id", u.ID(),
				"username", u.Username(),
				"error", err,
			)
			continue
		}

		result.Removed++
		result.Usernames = append(result.Usernames, u.Username())
		uc.logger.Debugw("expired rank cleared",
			"user_id", u.ID(),
			"username", u.Username(),
		)
	}

	return result, nil
}
