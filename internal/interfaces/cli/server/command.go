package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"vonix/internal/infrastructure/config"
	"vonix/internal/infrastructure/database"
	"vonix/internal/infrastructure/persistence/migrations"
	"vonix/internal/infrastructure/persistence/seeds"
	"vonix/internal/infrastructure/scheduler"
	httpRouter "vonix/internal/interfaces/http"
	"vonix/internal/shared/biztime"
	"vonix/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Vonix payment engine HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	biztime.MustInit(biztime.DefaultTimezone)

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		if err := migrations.MigratePaymentTables(database.Get()); err != nil {
			logger.Fatal("auto-migration failed", "error", err)
		}
		if err := seeds.SeedRanks(database.Get()); err != nil {
			logger.Fatal("rank seeding failed", "error", err)
		}
		logger.Info("auto-migration completed")
	}

	log := logger.NewLogger()
	router := httpRouter.NewRouter(database.Get(), cfg, log)

	var schedulerManager *scheduler.SchedulerManager
	if cfg.Scheduler.Enabled {
		schedulerManager, err = scheduler.NewSchedulerManager(log.Named("scheduler"))
		if err != nil {
			logger.Fatal("failed to create scheduler", "error", err)
		}

		interval := time.Duration(cfg.Scheduler.SweepIntervalMinute) * time.Minute
		if interval <= 0 {
			interval = time.Hour
		}
		sweepJob := scheduler.NewRankSweepJob(router.ExpireRanksUseCase())
		if err := schedulerManager.RegisterRankJobs(sweepJob, interval); err != nil {
			logger.Fatal("failed to register rank jobs", "error", err)
		}
		schedulerManager.Start()
		defer schedulerManager.Stop()
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.Engine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
