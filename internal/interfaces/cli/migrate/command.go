package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"vonix/internal/infrastructure/config"
	"vonix/internal/infrastructure/database"
	"vonix/internal/infrastructure/persistence/migrations"
	"vonix/internal/infrastructure/persistence/seeds"
	"vonix/internal/shared/logger"
)

var (
	env           string
	migrationsDir string
	name          string
	steps         int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply, rollback, inspect status, and create new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&migrationsDir, "dir", "d", "./migrations", "Directory containing migration files")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
		newSyncCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration file",
		RunE:  runCreate,
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Migration name (required)")
	return cmd
}

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync schema from models and seed defaults (development only)",
		Long:  `Run GORM auto-migration against the current models and seed the default rank catalog. Intended for development; use versioned migrations in production.`,
		RunE:  runSync,
	}
}

func setup() error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	return goose.SetDialect("mysql")
}

func runUp(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer database.Close()

	dir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("invalid migrations directory: %w", err)
	}

	sqlDB, err := database.Get().DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer database.Close()

	dir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("invalid migrations directory: %w", err)
	}

	sqlDB, err := database.Get().DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, dir); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	}

	logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer database.Close()

	dir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("invalid migrations directory: %w", err)
	}

	sqlDB, err := database.Get().DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return goose.Status(sqlDB, dir)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if name == "" {
		return fmt.Errorf("migration name is required (--name)")
	}

	dir, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("invalid migrations directory: %w", err)
	}

	return goose.Create(nil, dir, name, "sql")
}

func runSync(cmd *cobra.Command, args []string) error {
	if err := setup(); err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.MigratePaymentTables(database.Get()); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	if err := seeds.SeedRanks(database.Get()); err != nil {
		return fmt.Errorf("rank seeding failed: %w", err)
	}

	logger.Info("schema synced and ranks seeded")
	return nil
}
