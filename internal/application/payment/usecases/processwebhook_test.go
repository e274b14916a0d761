package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"vonix/internal/application/payment/gateway"
	"vonix/internal/domain/donation"
	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/domain/rank"
	"vonix/internal/domain/user"
	"vonix/internal/shared/biztime"
	"vonix/internal/shared/db"
	apperrors "vonix/internal/shared/errors"
	"vonix/internal/shared/logger"
)

func newTestTxManager(t *testing.T) *db.TransactionManager {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db.NewTransactionManager(database)
}

func testRanks(t *testing.T) []*rank.Rank {
	t.Helper()
	supporter, err := rank.NewRank("supporter", "Supporter", 500, 30)
	require.NoError(t, err)
	patron, err := rank.NewRank("patron", "Patron", 1000, 30)
	require.NoError(t, err)
	elite, err := rank.NewRank("elite", "Elite", 2500, 30)
	require.NoError(t, err)
	return []*rank.Rank{supporter, patron, elite}
}

func testUser(id uint) *user.User {
	now := biztime.NowUTC()
	u := user.ReconstructUser(id, fmt.Sprintf("player%d", id), fmt.Sprintf("player%d@example.com", id),
		nil, nil, false, 0, nil, nil, nil, nil, 1, now, now)
	return u
}

type webhookFixture struct {
	uc             *ProcessWebhookUseCase
	adapter        *MockAdapter
	donationRepo   *MockDonationRepository
	userRepo       *MockUserRepository
	rankRepo       *MockRankRepository
	activeProvider *MockActiveProviderChecker
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		adapter:        NewMockAdapter(dvo.ProviderStripe),
		donationRepo:   new(MockDonationRepository),
		userRepo:       new(MockUserRepository),
		rankRepo:       new(MockRankRepository),
		activeProvider: new(MockActiveProviderChecker),
	}
	f.uc = NewProcessWebhookUseCase(
		[]gateway.Adapter{f.adapter},
		f.donationRepo,
		f.userRepo,
		f.rankRepo,
		f.activeProvider,
		newTestTxManager(t),
		logger.NewLogger(),
	)
	return f
}

func (f *webhookFixture) expectVerified(event *gateway.ProviderEvent) {
	f.activeProvider.On("IsProviderActive", mock.Anything, dvo.ProviderStripe).Return(true)
	f.adapter.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.adapter.On("ParseEvent", mock.Anything).Return(event, nil)
}

func stripeCommand() WebhookCommand {
	return WebhookCommand{
		Provider:        "stripe",
		RawBody:         []byte(`{}`),
		SignatureHeader: "t=1,v1=abc",
		RequestURL:      "https://vonix.example.com/api/v1/webhooks/stripe",
	}
}

func TestProcessWebhook_GateChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown provider", func(t *testing.T) {
		f := newWebhookFixture(t)
		err := f.uc.Execute(ctx, WebhookCommand{Provider: "paypal"})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("inactive provider", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.activeProvider.On("IsProviderActive", mock.Anything, dvo.ProviderStripe).Return(false)

		err := f.uc.Execute(ctx, stripeCommand())
		require.Error(t, err)
		assert.True(t, apperrors.IsUnavailableError(err))
	})

	t.Run("provider without adapter", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.activeProvider.On("IsProviderActive", mock.Anything, dvo.ProviderKofi).Return(true)

		cmd := stripeCommand()
		cmd.Provider = "kofi"
		err := f.uc.Execute(ctx, cmd)
		require.Error(t, err)
		assert.True(t, apperrors.IsUnavailableError(err))
	})

	t.Run("invalid signature", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.activeProvider.On("IsProviderActive", mock.Anything, dvo.ProviderStripe).Return(true)
		f.adapter.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(false)

		err := f.uc.Execute(ctx, stripeCommand())
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)

		f.adapter.AssertNotCalled(t, "ParseEvent", mock.Anything)
	})

	t.Run("malformed payload", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.activeProvider.On("IsProviderActive", mock.Anything, dvo.ProviderStripe).Return(true)
		f.adapter.On("VerifySignature", mock.Anything, mock.Anything, mock.Anything).Return(true)
		f.adapter.On("ParseEvent", mock.Anything).Return(nil, errors.New("bad json"))

		err := f.uc.Execute(ctx, stripeCommand())
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("ignored event acknowledged without side effects", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.expectVerified(&gateway.ProviderEvent{Kind: gateway.EventIgnored})

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))
		f.donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProcessWebhook_PaymentCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("grants rank to metadata-resolved user", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_123",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
			DonorName:      "Alex",
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_123").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)

		var created *donation.Donation
		f.donationRepo.On("Create", mock.Anything, mock.AnythingOfType("*donation.Donation")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*donation.Donation)
			}).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		require.NotNil(t, created)
		assert.Equal(t, "pi_123", created.PaymentID())
		assert.Equal(t, dvo.PaymentTypeOneTime, created.PaymentType())
		require.NotNil(t, created.RankID())
		assert.Equal(t, "patron", *created.RankID())
		assert.Equal(t, 30, created.Days())
		require.NotNil(t, created.UserID())
		assert.Equal(t, userID, *created.UserID())

		require.NotNil(t, payer.DonationRankID())
		assert.Equal(t, "patron", *payer.DonationRankID())
		assert.True(t, payer.HasActiveRank())
		assert.Equal(t, int64(1000), payer.TotalDonatedCents())
	})

	t.Run("falls back to payer email", func(t *testing.T) {
		f := newWebhookFixture(t)
		payer := testUser(7)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:          gateway.EventPaymentCompleted,
			PaymentID:     "pi_200",
			AmountInCents: 500,
			Currency:      "USD",
			PayerEmail:    "player7@example.com",
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_200").Return(nil, nil)
		f.userRepo.On("GetByEmail", mock.Anything, "player7@example.com").Return(payer, nil)
		f.userRepo.On("GetByID", mock.Anything, uint(7)).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)
		f.donationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))
		require.NotNil(t, payer.DonationRankID())
		assert.Equal(t, "supporter", *payer.DonationRankID())
	})

	t.Run("unmatched payer still recorded", func(t *testing.T) {
		f := newWebhookFixture(t)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:          gateway.EventPaymentCompleted,
			PaymentID:     "pi_300",
			AmountInCents: 2500,
			Currency:      "USD",
			PayerEmail:    "stranger@example.com",
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_300").Return(nil, nil)
		f.userRepo.On("GetByEmail", mock.Anything, "stranger@example.com").Return(nil, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)

		var created *donation.Donation
		f.donationRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*donation.Donation)
			}).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		require.NotNil(t, created)
		assert.Nil(t, created.UserID())
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("tip below lowest threshold grants nothing", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_400",
			AmountInCents:  300,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_400").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)

		var created *donation.Donation
		f.donationRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*donation.Donation)
			}).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		require.NotNil(t, created)
		assert.False(t, created.HasRankGrant())
		assert.Nil(t, payer.DonationRankID())
		assert.Equal(t, int64(300), payer.TotalDonatedCents())
	})

	t.Run("metadata rank and days win over amount", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_500",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
			MetadataRankID: "elite",
			MetadataDays:   1000,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_500").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)

		var created *donation.Donation
		f.donationRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*donation.Donation)
			}).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		require.NotNil(t, created.RankID())
		assert.Equal(t, "elite", *created.RankID())
		// Metadata day counts are clamped to the allowed ceiling.
		assert.Equal(t, rank.MaxGrantDays, created.Days())
	})

	t.Run("missing payment ID rejected", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.expectVerified(&gateway.ProviderEvent{
			Kind:          gateway.EventPaymentCompleted,
			AmountInCents: 1000,
		})

		err := f.uc.Execute(ctx, stripeCommand())
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("zero-amount invoice acknowledged, linkage kept", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		// Trial starts and 100%-off coupons arrive as paid invoices over
		// zero. They must not bounce back to the provider as errors.
		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventSubscriptionRenewed,
			PaymentID:      "in_trial",
			SubscriptionID: "sub_trial",
			AmountInCents:  0,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		f.donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		require.NotNil(t, payer.ProviderSubscriptionID(dvo.ProviderStripe))
		assert.Equal(t, "sub_trial", *payer.ProviderSubscriptionID(dvo.ProviderStripe))
		assert.Nil(t, payer.RankExpiresAt())
	})

	t.Run("zero-amount one-time event acknowledged without side effects", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.expectVerified(&gateway.ProviderEvent{
			Kind:          gateway.EventPaymentCompleted,
			PaymentID:     "pi_zero",
			AmountInCents: 0,
			Currency:      "USD",
		})

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))
		f.donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProcessWebhook_ConcurrentGrants(t *testing.T) {
	ctx := context.Background()

	t.Run("retries with a fresh read when the user row changed", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_600",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_600").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)
		f.donationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(user.ErrVersionConflict).Once()
		f.userRepo.On("Update", mock.Anything, payer).Return(nil).Once()

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		// The rolled-back attempt is redone from scratch: new ledger
		// insert, new user read, new guarded write.
		f.donationRepo.AssertNumberOfCalls(t, "Create", 2)
		f.userRepo.AssertNumberOfCalls(t, "Update", 2)
	})

	t.Run("surfaces the conflict after exhausting retries", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_601",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_601").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)
		f.donationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(user.ErrVersionConflict)

		err := f.uc.Execute(ctx, stripeCommand())
		require.Error(t, err)
		assert.ErrorIs(t, err, user.ErrVersionConflict)
		f.userRepo.AssertNumberOfCalls(t, "Update", 3)
	})
}

func TestProcessWebhook_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("redelivery acknowledged without a second grant", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		existing, err := donation.NewDonation(&userID, dvo.NewMoney(1000, "USD"), dvo.ProviderStripe, "pi_dup", dvo.PaymentTypeOneTime)
		require.NoError(t, err)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_dup",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_dup").Return(existing, nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		f.donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("lost insert race acknowledged without a grant", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventPaymentCompleted,
			PaymentID:      "pi_race",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "pi_race").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)
		f.donationRepo.On("Create", mock.Anything, mock.Anything).Return(donation.ErrDuplicateDonation)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProcessWebhook_Subscriptions(t *testing.T) {
	ctx := context.Background()

	t.Run("creation links subscription without granting", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:               gateway.EventSubscriptionCreated,
			SubscriptionID:     "sub_abc",
			MetadataUserID:     &userID,
			SubscriptionStatus: "active",
		})
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		require.NotNil(t, payer.ProviderSubscriptionID(dvo.ProviderStripe))
		assert.Equal(t, "sub_abc", *payer.ProviderSubscriptionID(dvo.ProviderStripe))
		assert.Nil(t, payer.DonationRankID())
		assert.Nil(t, payer.RankExpiresAt())
		f.donationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creation for unknown user acknowledged", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventSubscriptionCreated,
			SubscriptionID: "sub_xyz",
			PayerEmail:     "nobody@example.com",
		})
		f.userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("first invoice payment grants and is typed subscription", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:                     gateway.EventSubscriptionRenewed,
			PaymentID:                "in_1",
			SubscriptionID:           "sub_abc",
			AmountInCents:            1000,
			Currency:                 "USD",
			MetadataUserID:           &userID,
			FirstSubscriptionPayment: true,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "in_1").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)

		var created *donation.Donation
		f.donationRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*donation.Donation)
			}).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		assert.Equal(t, dvo.PaymentTypeSubscription, created.PaymentType())
		require.NotNil(t, created.SubscriptionID())
		assert.Equal(t, "sub_abc", *created.SubscriptionID())
		assert.True(t, payer.HasActiveRank())
	})

	t.Run("renewal stacks onto the current expiry", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		currentExpiry := biztime.NowUTC().Add(12 * 24 * time.Hour)
		slug := "patron"
		now := biztime.NowUTC()
		payer := user.ReconstructUser(userID, "player42", "player42@example.com",
			&slug, &currentExpiry, false, 1000, nil, nil, nil, nil, 1, now, now)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:           gateway.EventSubscriptionRenewed,
			PaymentID:      "in_2",
			SubscriptionID: "sub_abc",
			AmountInCents:  1000,
			Currency:       "USD",
			MetadataUserID: &userID,
		})
		f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "in_2").Return(nil, nil)
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)

		var created *donation.Donation
		f.donationRepo.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*donation.Donation)
			}).Return(nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(nil)

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

		assert.Equal(t, dvo.PaymentTypeSubscriptionRenewal, created.PaymentType())
		require.NotNil(t, payer.RankExpiresAt())
		assert.WithinDuration(t, currentExpiry.Add(30*24*time.Hour), *payer.RankExpiresAt(), time.Second)
	})

	t.Run("status update retried on a concurrent write", func(t *testing.T) {
		f := newWebhookFixture(t)
		userID := uint(42)
		payer := testUser(userID)

		f.expectVerified(&gateway.ProviderEvent{
			Kind:               gateway.EventSubscriptionUpdated,
			SubscriptionID:     "sub_abc",
			MetadataUserID:     &userID,
			SubscriptionStatus: "past_due",
		})
		f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
		f.userRepo.On("Update", mock.Anything, payer).Return(user.ErrVersionConflict).Once()
		f.userRepo.On("Update", mock.Anything, payer).Return(nil).Once()

		require.NoError(t, f.uc.Execute(ctx, stripeCommand()))
		f.userRepo.AssertNumberOfCalls(t, "Update", 2)
	})
}

func TestProcessWebhook_PlanBackfill(t *testing.T) {
	ctx := context.Background()

	f := newWebhookFixture(t)
	userID := uint(42)
	payer := testUser(userID)

	f.expectVerified(&gateway.ProviderEvent{
		Kind:                     gateway.EventSubscriptionRenewed,
		PaymentID:                "in_9",
		SubscriptionID:           "sub_9",
		AmountInCents:            1000,
		Currency:                 "USD",
		MetadataUserID:           &userID,
		FirstSubscriptionPayment: true,
		PlanID:                   "price_123",
	})
	f.donationRepo.On("GetByProviderPaymentID", mock.Anything, dvo.ProviderStripe, "in_9").Return(nil, nil)
	f.userRepo.On("GetByID", mock.Anything, userID).Return(payer, nil)
	f.rankRepo.On("ListAll", mock.Anything).Return(testRanks(t), nil)
	f.donationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.userRepo.On("Update", mock.Anything, payer).Return(nil)

	var backfilled *rank.Rank
	f.rankRepo.On("Update", mock.Anything, mock.AnythingOfType("*rank.Rank")).
		Run(func(args mock.Arguments) {
			backfilled = args.Get(1).(*rank.Rank)
		}).Return(nil)

	require.NoError(t, f.uc.Execute(ctx, stripeCommand()))

	require.NotNil(t, backfilled)
	assert.Equal(t, "patron", backfilled.Slug())
	require.NotNil(t, backfilled.StripePriceID())
	assert.Equal(t, "price_123", *backfilled.StripePriceID())
}
