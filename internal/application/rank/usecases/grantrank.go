package usecases

import (
	"context"
	"errors"
	"fmt"

	"vonix/internal/domain/rank"
	"vonix/internal/domain/user"
	"vonix/internal/shared/db"
	apperrors "vonix/internal/shared/errors"
	"vonix/internal/shared/logger"
)

// maxUpdateAttempts bounds retries when the user row changes between the
// in-transaction read and the version-guarded write.
const maxUpdateAttempts = 3

// GrantRankCommand grants or extends a rank outside the payment flow
// (admin comps, giveaways). AmountCents may be zero; it still accrues to
// the user's donation total when set.
type GrantRankCommand struct {
	UserID      uint
	RankSlug    string
	Days        int
	AmountCents int64
}

type GrantRankUseCase struct {
	userRepo  user.UserRepository
	rankRepo  rank.RankRepository
	txManager *db.TransactionManager
	logger    logger.Interface
}

func NewGrantRankUseCase(
	userRepo user.UserRepository,
	rankRepo rank.RankRepository,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *GrantRankUseCase {
	return &GrantRankUseCase{
		userRepo:  userRepo,
		rankRepo:  rankRepo,
		txManager: txManager,
		logger:    logger,
	}
}

func (uc *GrantRankUseCase) Execute(ctx context.Context, cmd GrantRankCommand) error {
	if cmd.Days <= 0 {
		return apperrors.NewValidationError("grant days must be positive")
	}

	granted, err := uc.rankRepo.GetBySlug(ctx, cmd.RankSlug)
	if err != nil {
		return apperrors.NewNotFoundError("rank not found", cmd.RankSlug)
	}

	days := cmd.Days
	if days < rank.MinGrantDays {
		days = rank.MinGrantDays
	}
	if days > rank.MaxGrantDays {
		days = rank.MaxGrantDays
	}

	// The extension base is read inside the transaction; the version
	// guard on Update catches a concurrent grant or sweep, in which case
	// the whole read-extend-write runs again on the fresh row.
	for attempt := 1; ; attempt++ {
		err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			u, err := uc.userRepo.GetByID(txCtx, cmd.UserID)
			if err != nil {
				return apperrors.NewNotFoundError("user not found")
			}

			slug := granted.Slug()
			if err := u.GrantRank(&slug, days, cmd.AmountCents); err != nil {
				return fmt.Errorf("failed to grant rank: %w", err)
			}

			return uc.userRepo.Update(txCtx, u)
		})
		if errors.Is(err, user.ErrVersionConflict) && attempt < maxUpdateAttempts {
			uc.logger.Warnw("user changed while granting, retrying",
				"user_id", cmd.UserID,
				"attempt", attempt,
			)
			continue
		}
		break
	}
	if err != nil {
		return err
	}

	uc.logger.Infow("rank granted",
		"user_id", cmd.UserID,
		"rank", granted.Slug(),
		"days", days,
	)
	return nil
}
