package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dvo "vonix/internal/domain/donation/valueobjects"
	vo "vonix/internal/domain/user/valueobjects"
	"vonix/internal/shared/biztime"
)

func strPtr(s string) *string { return &s }

func TestUser_GrantRank(t *testing.T) {
	t.Run("first grant starts from now", func(t *testing.T) {
		u, err := NewUser("steve", "steve@example.com")
		require.NoError(t, err)

		before := biztime.NowUTC()
		require.NoError(t, u.GrantRank(strPtr("supporter"), 30, 500))

		require.NotNil(t, u.DonationRankID())
		assert.Equal(t, "supporter", *u.DonationRankID())
		require.NotNil(t, u.RankExpiresAt())
		expiry := *u.RankExpiresAt()
		assert.WithinDuration(t, before.Add(30*24*time.Hour), expiry, 2*time.Second)
		assert.Equal(t, int64(500), u.TotalDonatedCents())
		assert.True(t, u.HasActiveRank())
	})

	t.Run("active rank extends from current expiry", func(t *testing.T) {
		current := biztime.NowUTC().Add(10 * 24 * time.Hour)
		u := ReconstructUser(1, "alex", "alex@example.com",
			strPtr("supporter"), &current, false, 500,
			nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC())

		require.NoError(t, u.GrantRank(strPtr("supporter"), 30, 500))

		require.NotNil(t, u.RankExpiresAt())
		assert.WithinDuration(t, current.Add(30*24*time.Hour), *u.RankExpiresAt(), time.Second)
		assert.Equal(t, int64(1000), u.TotalDonatedCents())
	})

	t.Run("lapsed rank restarts from now", func(t *testing.T) {
		lapsed := biztime.NowUTC().Add(-5 * 24 * time.Hour)
		u := ReconstructUser(1, "alex", "alex@example.com",
			strPtr("supporter"), &lapsed, false, 500,
			nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC())

		before := biztime.NowUTC()
		require.NoError(t, u.GrantRank(strPtr("patron"), 30, 1000))

		require.NotNil(t, u.RankExpiresAt())
		assert.WithinDuration(t, before.Add(30*24*time.Hour), *u.RankExpiresAt(), 2*time.Second)
		assert.Equal(t, "patron", *u.DonationRankID())
	})

	t.Run("upgrade replaces rank but keeps stacked expiry", func(t *testing.T) {
		current := biztime.NowUTC().Add(20 * 24 * time.Hour)
		u := ReconstructUser(1, "alex", "alex@example.com",
			strPtr("supporter"), &current, false, 500,
			nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC())

		require.NoError(t, u.GrantRank(strPtr("elite"), 30, 2500))

		assert.Equal(t, "elite", *u.DonationRankID())
		assert.WithinDuration(t, current.Add(30*24*time.Hour), *u.RankExpiresAt(), time.Second)
	})

	t.Run("tip with nil rank and zero days only adds to total", func(t *testing.T) {
		u, err := NewUser("steve", "steve@example.com")
		require.NoError(t, err)

		require.NoError(t, u.GrantRank(nil, 0, 300))

		assert.Nil(t, u.DonationRankID())
		assert.Nil(t, u.RankExpiresAt())
		assert.Equal(t, int64(300), u.TotalDonatedCents())
	})

	t.Run("nil rank with days still extends existing rank", func(t *testing.T) {
		current := biztime.NowUTC().Add(10 * 24 * time.Hour)
		u := ReconstructUser(1, "alex", "alex@example.com",
			strPtr("supporter"), &current, false, 500,
			nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC())

		require.NoError(t, u.GrantRank(nil, 7, 100))

		assert.Equal(t, "supporter", *u.DonationRankID())
		assert.WithinDuration(t, current.Add(7*24*time.Hour), *u.RankExpiresAt(), time.Second)
	})

	t.Run("negative inputs rejected", func(t *testing.T) {
		u, err := NewUser("steve", "steve@example.com")
		require.NoError(t, err)

		assert.Error(t, u.GrantRank(nil, -1, 0))
		assert.Error(t, u.GrantRank(nil, 0, -100))
	})
}

func TestUser_EffectiveRankID(t *testing.T) {
	future := biztime.NowUTC().Add(24 * time.Hour)
	past := biztime.NowUTC().Add(-24 * time.Hour)

	tests := []struct {
		name    string
		user    *User
		want    *string
		wantNil bool
	}{
		{
			name: "active rank",
			user: ReconstructUser(1, "a", "a@x.com", strPtr("patron"), &future, false, 0,
				nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC()),
			want: strPtr("patron"),
		},
		{
			name: "paused rank is suppressed",
			user: ReconstructUser(1, "a", "a@x.com", strPtr("patron"), &future, true, 0,
				nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC()),
			wantNil: true,
		},
		{
			name: "lapsed rank",
			user: ReconstructUser(1, "a", "a@x.com", strPtr("patron"), &past, false, 0,
				nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC()),
			wantNil: true,
		},
		{
			name: "no rank",
			user: ReconstructUser(1, "a", "a@x.com", nil, nil, false, 0,
				nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC()),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.user.EffectiveRankID()
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestUser_ClearExpiredRank(t *testing.T) {
	t.Run("clears a lapsed rank once", func(t *testing.T) {
		past := biztime.NowUTC().Add(-time.Hour)
		u := ReconstructUser(1, "a", "a@x.com", strPtr("patron"), &past, true, 1000,
			nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC())

		assert.True(t, u.ClearExpiredRank())
		assert.Nil(t, u.DonationRankID())
		assert.Nil(t, u.RankExpiresAt())
		assert.False(t, u.RankPaused())
		assert.Equal(t, int64(1000), u.TotalDonatedCents())

		// Second call is a no-op.
		assert.False(t, u.ClearExpiredRank())
	})

	t.Run("active rank untouched", func(t *testing.T) {
		future := biztime.NowUTC().Add(time.Hour)
		u := ReconstructUser(1, "a", "a@x.com", strPtr("patron"), &future, false, 0,
			nil, nil, nil, nil, 1, biztime.NowUTC(), biztime.NowUTC())

		assert.False(t, u.ClearExpiredRank())
		assert.NotNil(t, u.DonationRankID())
	})
}

func TestUser_ProviderSubscriptionID(t *testing.T) {
	u, err := NewUser("steve", "steve@example.com")
	require.NoError(t, err)

	require.NoError(t, u.SetProviderSubscriptionID(dvo.ProviderStripe, "sub_123"))
	require.NoError(t, u.SetProviderSubscriptionID(dvo.ProviderSquare, "sq_456"))

	require.NotNil(t, u.ProviderSubscriptionID(dvo.ProviderStripe))
	assert.Equal(t, "sub_123", *u.ProviderSubscriptionID(dvo.ProviderStripe))
	assert.Equal(t, "sq_456", *u.ProviderSubscriptionID(dvo.ProviderSquare))
	assert.Nil(t, u.ProviderSubscriptionID(dvo.ProviderKofi))

	assert.Error(t, u.SetProviderSubscriptionID(dvo.ProviderStripe, ""))
}

func TestUser_SetSubscriptionStatus(t *testing.T) {
	u, err := NewUser("steve", "steve@example.com")
	require.NoError(t, err)

	require.NoError(t, u.SetSubscriptionStatus(vo.SubscriptionStatusActive))
	require.NotNil(t, u.SubscriptionStatus())
	assert.Equal(t, vo.SubscriptionStatusActive, *u.SubscriptionStatus())

	// Status changes never move the expiry.
	assert.Nil(t, u.RankExpiresAt())

	assert.Error(t, u.SetSubscriptionStatus(vo.SubscriptionStatus("bogus")))
}
