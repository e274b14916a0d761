package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/domain/user"
	"vonix/internal/infrastructure/persistence/models"
	"vonix/internal/shared/biztime"
)

func seedUser(t *testing.T, database *gorm.DB, username, email string) uint {
	t.Helper()
	model := models.UserModel{Username: username, Email: email, Version: 1}
	require.NoError(t, database.Create(&model).Error)
	return model.ID
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := NewUserRepository(database)

	id := seedUser(t, database, "alex", "alex@example.com")

	t.Run("by ID", func(t *testing.T) {
		u, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alex", u.Username())
		assert.Equal(t, "alex@example.com", u.Email())
	})

	t.Run("by email is case insensitive on input", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "ALEX@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID())
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.Error(t, err)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.Error(t, err)
	})
}

func TestUserRepository_Update(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := NewUserRepository(database)

	id := seedUser(t, database, "sam", "sam@example.com")

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	slug := "patron"
	require.NoError(t, u.GrantRank(&slug, 30, 1000))
	require.NoError(t, u.SetProviderSubscriptionID(dvo.ProviderStripe, "sub_1"))
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	require.NotNil(t, got.DonationRankID())
	assert.Equal(t, "patron", *got.DonationRankID())
	require.NotNil(t, got.RankExpiresAt())
	assert.Equal(t, int64(1000), got.TotalDonatedCents())
	require.NotNil(t, got.ProviderSubscriptionID(dvo.ProviderStripe))
	assert.Equal(t, "sub_1", *got.ProviderSubscriptionID(dvo.ProviderStripe))
}

func TestUserRepository_Update_ConcurrentGrantsStack(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := NewUserRepository(database)

	id := seedUser(t, database, "alex", "alex@example.com")
	slug := "patron"

	// Two deliveries of different payments for the same user race: both
	// aggregates load the same row and extend from the same expiry.
	first, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, id)
	require.NoError(t, err)

	require.NoError(t, first.GrantRank(&slug, 30, 1000))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.GrantRank(&slug, 30, 1000))
	err = repo.Update(ctx, second)
	require.ErrorIs(t, err, user.ErrVersionConflict)

	// The stale write was rejected, so the first grant survives intact.
	reloaded, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, reloaded.RankExpiresAt())
	assert.WithinDuration(t, biztime.NowUTC().Add(30*24*time.Hour), *reloaded.RankExpiresAt(), 2*time.Second)
	assert.Equal(t, int64(1000), reloaded.TotalDonatedCents())

	// Redoing the rejected grant on a fresh read stacks instead of
	// overwriting: 60 paid days and both amounts.
	require.NoError(t, reloaded.GrantRank(&slug, 30, 1000))
	require.NoError(t, repo.Update(ctx, reloaded))

	final, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, final.RankExpiresAt())
	assert.WithinDuration(t, biztime.NowUTC().Add(60*24*time.Hour), *final.RankExpiresAt(), 2*time.Second)
	assert.Equal(t, int64(2000), final.TotalDonatedCents())
}

func TestUserRepository_FindUsersWithExpiredRanks(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := NewUserRepository(database)

	slug := "patron"
	past := biztime.NowUTC().Add(-time.Hour)
	future := biztime.NowUTC().Add(time.Hour)

	require.NoError(t, database.Create(&models.UserModel{
		Username: "expired", Email: "expired@example.com",
		DonationRankID: &slug, RankExpiresAt: &past, Version: 1,
	}).Error)
	require.NoError(t, database.Create(&models.UserModel{
		Username: "active", Email: "active@example.com",
		DonationRankID: &slug, RankExpiresAt: &future, Version: 1,
	}).Error)
	require.NoError(t, database.Create(&models.UserModel{
		Username: "norank", Email: "norank@example.com", Version: 1,
	}).Error)

	expired, err := repo.FindUsersWithExpiredRanks(ctx)
	require.NoError(t, err)

	require.Len(t, expired, 1)
	assert.Equal(t, "expired", expired[0].Username())

	// After the sweep clears the rank, the query no longer matches.
	require.True(t, expired[0].ClearExpiredRank())
	require.NoError(t, repo.Update(ctx, expired[0]))

	expired, err = repo.FindUsersWithExpiredRanks(ctx)
	require.NoError(t, err)
	assert.Empty(t, expired)
}
