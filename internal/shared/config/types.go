package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	Mode           string   `mapstructure:"mode" validate:"required,oneof=debug release test"`
	BaseURL        string   `mapstructure:"base_url" validate:"omitempty,url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Username        string `mapstructure:"username" validate:"required"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"min=0"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"min=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"min=0"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"required,oneof=json text console"`
	OutputPath string `mapstructure:"output_path" validate:"required"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host" validate:"required_if=Enabled true"`
	SMTPPort     int    `mapstructure:"smtp_port" validate:"required_if=Enabled true"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName     string `mapstructure:"from_name"`
	AdminAddress string `mapstructure:"admin_address" validate:"omitempty,email"`
}

// StripeConfig holds Stripe webhook credentials.
type StripeConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// SquareConfig holds Square webhook credentials.
type SquareConfig struct {
	SignatureKey    string `mapstructure:"signature_key"`
	NotificationURL string `mapstructure:"notification_url" validate:"omitempty,url"`
}

// KofiConfig holds the Ko-fi verification token.
type KofiConfig struct {
	VerificationToken string `mapstructure:"verification_token"`
}

// PaymentConfig holds provider credentials and webhook processing settings.
// DefaultProvider is the fallback when no active-provider setting exists in
// the database.
type PaymentConfig struct {
	DefaultProvider string       `mapstructure:"default_provider" validate:"omitempty,oneof=stripe square kofi"`
	CronSecret      string       `mapstructure:"cron_secret"`
	Stripe          StripeConfig `mapstructure:"stripe"`
	Square          SquareConfig `mapstructure:"square"`
	Kofi            KofiConfig   `mapstructure:"kofi"`
}

// SchedulerConfig controls the optional in-process expiry scheduler.
// When disabled, rank expiry is driven by the external cron endpoint only.
type SchedulerConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	SweepIntervalMinute int  `mapstructure:"sweep_interval_minutes" validate:"min=0"`
}

// RateLimitConfig controls webhook endpoint rate limiting.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Limit   int  `mapstructure:"limit" validate:"min=0"`
	Window  int  `mapstructure:"window_seconds" validate:"min=0"`
}
