package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vonix/internal/application/payment/gateway"
	"vonix/internal/domain/donation"
	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/domain/rank"
	"vonix/internal/domain/user"
	"vonix/internal/shared/db"
	apperrors "vonix/internal/shared/errors"
	"vonix/internal/shared/goroutine"
	"vonix/internal/shared/logger"
)

// maxUpdateAttempts bounds retries when a user row changes between the
// optimistic read and the version-guarded write.
const maxUpdateAttempts = 3

// ActiveProviderChecker reports whether a provider is currently accepting
// payments. Satisfied by the setting provider.
type ActiveProviderChecker interface {
	IsProviderActive(ctx context.Context, provider dvo.Provider) bool
}

// DonationNotifier is the interface for notifying admins about a recorded
// donation. Optional; notification failures never affect webhook handling.
type DonationNotifier interface {
	NotifyDonation(ctx context.Context, cmd DonationNotification) error
}

// DonationNotification contains data for the admin donation notification.
type DonationNotification struct {
	DonationSID string
	Provider    string
	PaymentID   string
	Amount      float64
	Currency    string
	DonorName   string
	Username    string
	RankName    string
	Days        int
	ReceivedAt  time.Time
}

// WebhookCommand carries one raw webhook delivery.
type WebhookCommand struct {
	Provider        string
	RawBody         []byte
	SignatureHeader string
	RequestURL      string
}

// ProcessWebhookUseCase verifies, normalizes and reconciles payment
// provider webhooks: it appends to the donation ledger and grants or
// extends the payer's rank in one transaction.
type ProcessWebhookUseCase struct {
	adapters       map[dvo.Provider]gateway.Adapter
	donationRepo   donation.DonationRepository
	userRepo       user.UserRepository
	rankRepo       rank.RankRepository
	activeProvider ActiveProviderChecker
	txManager      *db.TransactionManager
	notifier       DonationNotifier // Optional
	logger         logger.Interface
}

func NewProcessWebhookUseCase(
	adapters []gateway.Adapter,
	donationRepo donation.DonationRepository,
	userRepo user.UserRepository,
	rankRepo rank.RankRepository,
	activeProvider ActiveProviderChecker,
	txManager *db.TransactionManager,
	logger logger.Interface,
) *ProcessWebhookUseCase {
	byProvider := make(map[dvo.Provider]gateway.Adapter, len(adapters))
	for _, a := range adapters {
		byProvider[a.Provider()] = a
	}
	return &ProcessWebhookUseCase{
		adapters:       byProvider,
		donationRepo:   donationRepo,
		userRepo:       userRepo,
		rankRepo:       rankRepo,
		activeProvider: activeProvider,
		txManager:      txManager,
		logger:         logger,
	}
}

// SetNotifier sets the admin notifier (optional dependency injection)
func (uc *ProcessWebhookUseCase) SetNotifier(notifier DonationNotifier) {
	uc.notifier = notifier
}

func (uc *ProcessWebhookUseCase) Execute(ctx context.Context, cmd WebhookCommand) error {
	provider, err := dvo.NewProvider(cmd.Provider)
	if err != nil {
		return apperrors.NewNotFoundError("unknown payment provider", cmd.Provider)
	}

	if !uc.activeProvider.IsProviderActive(ctx, provider) {
		return apperrors.NewUnavailableError("payment provider is not accepting payments", cmd.Provider)
	}

	adapter, ok := uc.adapters[provider]
	if !ok {
		return apperrors.NewUnavailableError("payment provider is not configured", cmd.Provider)
	}

	if !adapter.VerifySignature(cmd.RawBody, cmd.SignatureHeader, cmd.RequestURL) {
		uc.logger.Warnw("rejected webhook with invalid signature", "provider", provider.String())
		return apperrors.NewUnauthorizedError("invalid webhook signature")
	}

	event, err := adapter.ParseEvent(cmd.RawBody)
	if err != nil {
		uc.logger.Warnw("failed to parse webhook payload", "provider", provider.String(), "error", err)
		return apperrors.NewValidationError("malformed webhook payload", err.Error())
	}

	switch event.Kind {
	case gateway.EventIgnored:
		return nil
	case gateway.EventPaymentCompleted:
		return uc.recordDonation(ctx, provider, event, dvo.PaymentTypeOneTime)
	case gateway.EventSubscriptionRenewed:
		paymentType := dvo.PaymentTypeSubscriptionRenewal
		if event.FirstSubscriptionPayment {
			paymentType = dvo.PaymentTypeSubscription
		}
		return uc.recordDonation(ctx, provider, event, paymentType)
	case gateway.EventSubscriptionCreated, gateway.EventSubscriptionUpdated:
		return uc.applySubscriptionUpdate(ctx, provider, event)
	default:
		uc.logger.Warnw("unhandled event kind", "provider", provider.String(), "kind", event.Kind)
		return nil
	}
}

// recordDonation appends the ledger entry and applies the rank grant. The
// unique (provider, payment_id) constraint is the authoritative idempotency
// gate; the lookup beforehand only short-circuits obvious redeliveries.
func (uc *ProcessWebhookUseCase) recordDonation(
	ctx context.Context,
	provider dvo.Provider,
	event *gateway.ProviderEvent,
	paymentType dvo.PaymentType,
) error {
	if event.AmountInCents <= 0 {
		// Trials and full-discount coupons produce legitimate zero-amount
		// invoices. An error here would make the provider retry for days,
		// so acknowledge and keep only the subscription linkage.
		uc.logger.Infow("zero-amount payment event, acknowledging",
			"provider", provider.String(),
			"payment_id", event.PaymentID,
		)
		if event.SubscriptionID != "" {
			return uc.applySubscriptionUpdate(ctx, provider, event)
		}
		return nil
	}
	if event.PaymentID == "" {
		return apperrors.NewValidationError("payment event missing payment ID")
	}

	existing, err := uc.donationRepo.GetByProviderPaymentID(ctx, provider, event.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to check for existing donation: %w", err)
	}
	if existing != nil {
		uc.logger.Infow("payment already recorded, acknowledging redelivery",
			"provider", provider.String(),
			"payment_id", event.PaymentID,
		)
		return nil
	}

	payer := uc.resolveUser(ctx, event)

	grantedRank, days, err := uc.resolveGrant(ctx, event)
	if err != nil {
		return err
	}

	var payerID *uint
	if payer != nil {
		id := payer.ID()
		payerID = &id
	}

	// The payer resolved above only decides attribution. The extension
	// base must come from a read of the row inside the same transaction
	// as the write, otherwise two concurrent grants for one user would
	// both extend from the same stale expiry and the later commit would
	// swallow the earlier one. The version guard on Update catches any
	// write that still slips between the in-transaction read and commit.
	var d *donation.Donation
	for attempt := 1; ; attempt++ {
		d, err = uc.buildDonation(provider, event, paymentType, payerID, grantedRank, days)
		if err != nil {
			return err
		}

		err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := uc.donationRepo.Create(txCtx, d); err != nil {
				return err
			}

			if payerID == nil {
				return nil
			}

			payer, err = uc.userRepo.GetByID(txCtx, *payerID)
			if err != nil {
				return fmt.Errorf("failed to reload user for grant: %w", err)
			}

			var rankSlug *string
			if grantedRank != nil {
				slug := grantedRank.Slug()
				rankSlug = &slug
			}
			if err := payer.GrantRank(rankSlug, days, event.AmountInCents); err != nil {
				return fmt.Errorf("failed to grant rank: %w", err)
			}
			if event.SubscriptionID != "" {
				if err := payer.SetProviderSubscriptionID(provider, event.SubscriptionID); err != nil {
					return fmt.Errorf("failed to link subscription: %w", err)
				}
			}
			return uc.userRepo.Update(txCtx, payer)
		})
		if errors.Is(err, user.ErrVersionConflict) && attempt < maxUpdateAttempts {
			uc.logger.Warnw("user changed while granting, retrying",
				"provider", provider.String(),
				"payment_id", event.PaymentID,
				"attempt", attempt,
			)
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, donation.ErrDuplicateDonation) {
			// Lost the race against a concurrent delivery of the same
			// payment. The other delivery owns the grant.
			uc.logger.Infow("duplicate payment insert, acknowledging",
				"provider", provider.String(),
				"payment_id", event.PaymentID,
			)
			return nil
		}
		return err
	}

	uc.logger.Infow("donation recorded",
		"donation_sid", d.SID(),
		"provider", provider.String(),
		"payment_id", event.PaymentID,
		"amount_cents", event.AmountInCents,
		"rank", rankSlugForLog(grantedRank),
		"days", days,
		"user_resolved", payer != nil,
	)

	uc.backfillPlanID(ctx, provider, grantedRank, event.PlanID)
	uc.notifyAsync(provider, event, d, payer, grantedRank, days)

	return nil
}

// buildDonation assembles the ledger entry. Built fresh per transaction
// attempt so a rolled-back insert never leaks identifiers into the retry.
func (uc *ProcessWebhookUseCase) buildDonation(
	provider dvo.Provider,
	event *gateway.ProviderEvent,
	paymentType dvo.PaymentType,
	payerID *uint,
	grantedRank *rank.Rank,
	days int,
) (*donation.Donation, error) {
	amount := dvo.NewMoney(event.AmountInCents, event.Currency)
	d, err := donation.NewDonation(payerID, amount, provider, event.PaymentID, paymentType)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid donation", err.Error())
	}
	if grantedRank != nil {
		slug := grantedRank.Slug()
		if err := d.AttachRankGrant(&slug, days); err != nil {
			return nil, fmt.Errorf("failed to attach rank grant: %w", err)
		}
	}
	if event.SubscriptionID != "" {
		d.SetSubscriptionID(event.SubscriptionID)
	}
	d.SetDonorInfo(event.DonorName, event.Message)
	return d, nil
}

// applySubscriptionUpdate records subscription linkage and status changes.
// Creation events never grant a rank; the grant happens when the first
// invoice payment arrives, so the amount is counted exactly once.
func (uc *ProcessWebhookUseCase) applySubscriptionUpdate(
	ctx context.Context,
	provider dvo.Provider,
	event *gateway.ProviderEvent,
) error {
	var payer *user.User
	for attempt := 1; ; attempt++ {
		payer = uc.resolveUser(ctx, event)
		if payer == nil {
			uc.logger.Warnw("subscription event for unknown user, acknowledging",
				"provider", provider.String(),
				"subscription_id", event.SubscriptionID,
			)
			return nil
		}

		if event.SubscriptionID != "" {
			if err := payer.SetProviderSubscriptionID(provider, event.SubscriptionID); err != nil {
				return fmt.Errorf("failed to link subscription: %w", err)
			}
		}
		if event.SubscriptionStatus != "" {
			if err := payer.SetSubscriptionStatus(event.SubscriptionStatus); err != nil {
				return fmt.Errorf("failed to set subscription status: %w", err)
			}
		}

		err := uc.userRepo.Update(ctx, payer)
		if errors.Is(err, user.ErrVersionConflict) && attempt < maxUpdateAttempts {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update user subscription state: %w", err)
		}
		break
	}

	uc.logger.Infow("subscription state updated",
		"provider", provider.String(),
		"user_id", payer.ID(),
		"subscription_id", event.SubscriptionID,
		"status", string(event.SubscriptionStatus),
	)
	return nil
}

// resolveUser matches the event to a site user: checkout metadata first,
// then payer email. nil means the donation is recorded unattributed.
func (uc *ProcessWebhookUseCase) resolveUser(ctx context.Context, event *gateway.ProviderEvent) *user.User {
	if event.MetadataUserID != nil {
		u, err := uc.userRepo.GetByID(ctx, *event.MetadataUserID)
		if err == nil && u != nil {
			return u
		}
		uc.logger.Warnw("metadata user ID did not resolve",
			"user_id", *event.MetadataUserID,
			"error", err,
		)
	}

	if event.PayerEmail != "" {
		u, err := uc.userRepo.GetByEmail(ctx, event.PayerEmail)
		if err == nil && u != nil {
			return u
		}
	}

	return nil
}

// resolveGrant determines which rank (if any) the payment purchases and
// for how many days. Metadata wins over amount-based resolution; day
// counts are always clamped to the allowed range.
func (uc *ProcessWebhookUseCase) resolveGrant(
	ctx context.Context,
	event *gateway.ProviderEvent,
) (*rank.Rank, int, error) {
	ranks, err := uc.rankRepo.ListAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load rank catalog: %w", err)
	}
	catalog := rank.NewCatalog(ranks)

	var granted *rank.Rank
	if event.MetadataRankID != "" {
		granted = catalog.FindBySlug(event.MetadataRankID)
		if granted == nil {
			uc.logger.Warnw("metadata rank did not resolve, falling back to amount",
				"rank", event.MetadataRankID,
			)
		}
	}
	if granted == nil {
		granted = catalog.FindRankForAmount(event.AmountInCents)
	}
	if granted == nil {
		// Below the lowest threshold: a plain tip.
		return nil, 0, nil
	}

	days := event.MetadataDays
	if days <= 0 {
		days = catalog.ComputeDays(event.AmountInCents, granted)
	} else {
		if days < rank.MinGrantDays {
			days = rank.MinGrantDays
		}
		if days > rank.MaxGrantDays {
			days = rank.MaxGrantDays
		}
	}

	return granted, days, nil
}

// backfillPlanID lazily records the provider's plan/price ID on the rank
// the first time it is observed. Best effort.
func (uc *ProcessWebhookUseCase) backfillPlanID(ctx context.Context, provider dvo.Provider, r *rank.Rank, planID string) {
	if r == nil || planID == "" {
		return
	}
	if existing := r.ProviderPlanID(provider); existing != nil && *existing != "" {
		return
	}
	if err := r.SetProviderPlanID(provider, planID); err != nil {
		return
	}
	if err := uc.rankRepo.Update(ctx, r); err != nil {
		uc.logger.Warnw("failed to backfill provider plan ID",
			"rank", r.Slug(),
			"provider", provider.String(),
			"error", err,
		)
	}
}

func (uc *ProcessWebhookUseCase) notifyAsync(
	provider dvo.Provider,
	event *gateway.ProviderEvent,
	d *donation.Donation,
	payer *user.User,
	grantedRank *rank.Rank,
	days int,
) {
	if uc.notifier == nil {
		return
	}

	goroutine.SafeGo(uc.logger, "webhook-notify-donation", func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cmd := DonationNotification{
			DonationSID: d.SID(),
			Provider:    provider.String(),
			PaymentID:   event.PaymentID,
			Amount:      d.Amount().AmountInMajorUnits(),
			Currency:    d.Amount().Currency(),
			DonorName:   event.DonorName,
			Days:        days,
			ReceivedAt:  d.CreatedAt(),
		}
		if payer != nil {
			cmd.Username = payer.Username()
		}
		if grantedRank != nil {
			cmd.RankName = grantedRank.Name()
		}

		if err := uc.notifier.NotifyDonation(notifyCtx, cmd); err != nil {
			uc.logger.Warnw("failed to send donation notification",
				"donation_sid", d.SID(),
				"error", err,
			)
		}
	})
}

func rankSlugForLog(r *rank.Rank) string {
	if r == nil {
		return ""
	}
	return r.Slug()
}
