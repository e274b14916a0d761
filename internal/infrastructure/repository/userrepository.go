package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"vonix/internal/domain/user"
	"vonix/internal/infrastructure/persistence/mappers"
	"vonix/internal/infrastructure/persistence/models"
	"vonix/internal/shared/biztime"
	"vonix/internal/shared/db"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return mappers.UserToDomain(&model)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mappers.UserToDomain(&model)
}

// Update writes back the rank and subscription columns this engine owns.
// The version predicate makes the write conditional on the row being
// unchanged since the load; the version bump guarantees RowsAffected is
// non-zero whenever the predicate matched.
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := mappers.UserToModel(u)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"donation_rank_id":       model.DonationRankID,
			"rank_expires_at":        model.RankExpiresAt,
			"rank_paused":            model.RankPaused,
			"total_donated_cents":    model.TotalDonatedCents,
			"subscription_status":    model.SubscriptionStatus,
			"stripe_subscription_id": model.StripeSubscriptionID,
			"square_subscription_id": model.SquareSubscriptionID,
			"kofi_subscription_id":   model.KofiSubscriptionID,
			"version":                model.Version + 1,
			"updated_at":             model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrVersionConflict
	}

	return nil
}

// FindUsersWithExpiredRanks selects users still carrying a rank whose
// expiry has passed. The sweep re-runs this query, so users cleared by a
// concurrent run simply stop matching.
func (r *UserRepository) FindUsersWithExpiredRanks(ctx context.Context) ([]*user.User, error) {
	var userModels []models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("donation_rank_id IS NOT NULL AND rank_expires_at < ?", biztime.NowUTC()).
		Find(&userModels).Error; err != nil {
		return nil, fmt.Errorf("failed to find users with expired ranks: %w", err)
	}

	users := make([]*user.User, len(userModels))
	for i, model := range userModels {
		u, err := mappers.UserToDomain(&model)
		if err != nil {
			return nil, err
		}
		users[i] = u
	}

	return users, nil
}
