package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	donationUsecases "vonix/internal/application/donation/usecases"
	"vonix/internal/application/payment/gateway"
	paymentUsecases "vonix/internal/application/payment/usecases"
	rankUsecases "vonix/internal/application/rank/usecases"
	settingUsecases "vonix/internal/application/setting/usecases"
	"vonix/internal/infrastructure/config"
	"vonix/internal/infrastructure/email"
	"vonix/internal/infrastructure/payment"
	"vonix/internal/infrastructure/repository"
	"vonix/internal/interfaces/http/handlers"
	"vonix/internal/interfaces/http/middleware"
	"vonix/internal/interfaces/http/routes"
	"vonix/internal/shared/db"
	"vonix/internal/shared/logger"
	"vonix/internal/shared/services/markdown"
)

// Router wires the HTTP surface: webhook ingestion, the cron sweep, and
// the public catalog and feed reads.
type Router struct {
	engine        *gin.Engine
	expireRanksUC *rankUsecases.ExpireRanksUseCase
}

// NewRouter creates the router with all dependencies constructed from the
// database handle and configuration.
func NewRouter(database *gorm.DB, cfg *config.Config, log logger.Interface) *Router {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	userRepo := repository.NewUserRepository(database)
	rankRepo := repository.NewRankRepository(database)
	donationRepo := repository.NewDonationRepository(database)
	settingRepo := repository.NewSystemSettingRepository(database)

	txManager := db.NewTransactionManager(database)

	settingProvider := settingUsecases.NewSettingProvider(
		settingRepo,
		cfg.Payment.DefaultProvider,
		log.Named("settings"),
	)

	adapters := []gateway.Adapter{
		payment.NewStripeAdapter(cfg.Payment.Stripe.WebhookSecret, log.Named("stripe")),
		payment.NewSquareAdapter(cfg.Payment.Square.SignatureKey, cfg.Payment.Square.NotificationURL, log.Named("square")),
		payment.NewKofiAdapter(cfg.Payment.Kofi.VerificationToken, log.Named("kofi")),
	}

	processWebhookUC := paymentUsecases.NewProcessWebhookUseCase(
		adapters,
		donationRepo,
		userRepo,
		rankRepo,
		settingProvider,
		txManager,
		log.Named("webhook"),
	)

	if cfg.Email.Enabled {
		notifier := email.NewSMTPEmailService(email.SMTPConfig{
			Host:         cfg.Email.SMTPHost,
			Port:         cfg.Email.SMTPPort,
			Username:     cfg.Email.SMTPUser,
			Password:     cfg.Email.SMTPPassword,
			FromAddress:  cfg.Email.FromAddress,
			FromName:     cfg.Email.FromName,
			AdminAddress: cfg.Email.AdminAddress,
		})
		processWebhookUC.SetNotifier(notifier)
	}

	expireRanksUC := rankUsecases.NewExpireRanksUseCase(userRepo, log.Named("expiry"))
	listRanksUC := rankUsecases.NewListRanksUseCase(rankRepo, markdown.NewMarkdownService(), log.Named("ranks"))
	listRecentUC := donationUsecases.NewListRecentDonationsUseCase(donationRepo, log.Named("donations"))

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rateLimiter = middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.Window)*time.Second,
		)
	}

	routes.SetupWebhookRoutes(engine, &routes.WebhookRouteConfig{
		WebhookHandler: handlers.NewWebhookHandler(processWebhookUC, adapters, log.Named("webhook")),
		RateLimiter:    rateLimiter,
	})
	routes.SetupCronRoutes(engine, &routes.CronRouteConfig{
		CronHandler: handlers.NewCronHandler(expireRanksUC, log.Named("cron")),
		CronSecret:  cfg.Payment.CronSecret,
	})
	routes.SetupPublicRoutes(engine, &routes.PublicRouteConfig{
		RankHandler:     handlers.NewRankHandler(listRanksUC, log.Named("ranks")),
		DonationHandler: handlers.NewDonationHandler(listRecentUC, log.Named("donations")),
		HealthHandler:   handlers.NewHealthHandler(database),
	})

	return &Router{
		engine:        engine,
		expireRanksUC: expireRanksUC,
	}
}

// Engine exposes the underlying gin engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// ExpireRanksUseCase exposes the sweep usecase so the server command can
// register it with the in-process scheduler.
func (r *Router) ExpireRanksUseCase() *rankUsecases.ExpireRanksUseCase {
	return r.expireRanksUC
}

// Run starts the HTTP server on the configured address.
func (r *Router) Run(addr string) error {
	if err := r.engine.Run(addr); err != nil {
		return fmt.Errorf("failed to run http server: %w", err)
	}
	return nil
}
