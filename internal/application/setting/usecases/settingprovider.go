package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	dvo "vonix/internal/domain/donation/valueobjects"
	"vonix/internal/domain/setting"
	"vonix/internal/shared/logger"
)

// activeProviderTTL bounds how stale the cached active-provider value may
// get before the database is consulted again.
const activeProviderTTL = 30 * time.Second

// SettingProvider serves hot-reloadable payment settings with
// database-first, env-fallback resolution. The active provider is cached
// for a short TTL so webhook bursts do not hammer the settings table.
type SettingProvider struct {
	settingRepo     setting.Repository
	defaultProvider string
	logger          logger.Interface

	mu              sync.RWMutex
	cachedProvider  string
	cacheExpiresAt  time.Time
}

// NewSettingProvider creates a new SettingProvider. defaultProvider is the
// env-configured fallback used when no database row exists; empty means no
// provider is active until an operator sets one.
func NewSettingProvider(
	settingRepo setting.Repository,
	defaultProvider string,
	logger logger.Interface,
) *SettingProvider {
	return &SettingProvider{
		settingRepo:     settingRepo,
		defaultProvider: defaultProvider,
		logger:          logger,
	}
}

// ActiveProvider returns the currently active payment provider, or ok=false
// when none is configured. Database values take precedence over the
// env fallback.
func (p *SettingProvider) ActiveProvider(ctx context.Context) (dvo.Provider, bool) {
	p.mu.RLock()
	if p.cachedProvider != "" && time.Now().Before(p.cacheExpiresAt) {
		cached := p.cachedProvider
		p.mu.RUnlock()
		return dvo.Provider(cached), true
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if p.cachedProvider != "" && time.Now().Before(p.cacheExpiresAt) {
		return dvo.Provider(p.cachedProvider), true
	}

	value := p.defaultProvider
	s, err := p.settingRepo.GetByKey(ctx, setting.CategoryPayment, setting.KeyActiveProvider)
	switch {
	case errors.Is(err, setting.ErrSettingNotFound):
		// Fall through to the env default.
	case err != nil:
		p.logger.Warnw("failed to load active provider setting, using fallback",
			"fallback", value,
			"error", err,
		)
	case s.HasValue():
		value = s.GetStringValue()
	}

	provider, err := dvo.NewProvider(value)
	if err != nil {
		if value != "" {
			p.logger.Warnw("active provider setting holds unknown provider", "value", value)
		}
		return "", false
	}

	p.cachedProvider = provider.String()
	p.cacheExpiresAt = time.Now().Add(activeProviderTTL)
	return provider, true
}

// IsProviderActive reports whether the given provider is the active one.
func (p *SettingProvider) IsProviderActive(ctx context.Context, provider dvo.Provider) bool {
	active, ok := p.ActiveProvider(ctx)
	return ok && active == provider
}

// SetActiveProvider persists a new active provider and invalidates the
// cache so the change takes effect immediately.
func (p *SettingProvider) SetActiveProvider(ctx context.Context, provider dvo.Provider, updatedBy uint) error {
	s, err := p.settingRepo.GetByKey(ctx, setting.CategoryPayment, setting.KeyActiveProvider)
	if errors.Is(err, setting.ErrSettingNotFound) {
		s, err = setting.NewSystemSetting(
			setting.CategoryPayment,
			setting.KeyActiveProvider,
			setting.ValueTypeString,
			"payment provider accepting new donations",
		)
	}
	if err != nil {
		return err
	}

	if err := s.SetStringValue(provider.String(), updatedBy); err != nil {
		return err
	}
	if err := p.settingRepo.Upsert(ctx, s); err != nil {
		return err
	}

	p.Invalidate()
	return nil
}

// Invalidate drops the cached provider so the next read hits the database.
func (p *SettingProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cachedProvider = ""
	p.cacheExpiresAt = time.Time{}
}
