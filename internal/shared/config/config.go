package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

type DatabaseOptions struct {
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name       string `env:"DB_NAME" envDefault:"go_leave"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxRetries int    `env:"DB_MAX_RETRIES" envDefault:"5"`
}

func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type JWTOptions struct {
	Secret          string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
}

type ApprovalOptions struct {
	TokenTTL      time.Duration `env:"APPROVAL_TOKEN_TTL" envDefault:"24h"`
	BaseURL       string        `env:"APPROVAL_BASE_URL" envDefault:"http://localhost:5173/email-actions"`
	SweepInterval time.Duration `env:"TOKEN_SWEEP_INTERVAL" envDefault:"1h"`
}

type KafkaOptions struct {
	Broker             string        `env:"KAFKA_BROKER"`
	GroupID            string        `env:"KAFKA_GROUP_ID" envDefault:"go-leave-notifications"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"3s"`
}

type SMTPOptions struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
}

// Enabled reports whether enough settings are present to talk to an SMTP relay.
func (s SMTPOptions) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

func (s SMTPOptions) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.User
}

type Config struct {
	AppEnv    string `env:"APP_ENV" envDefault:"development"`
	Port      string `env:"PORT" envDefault:"3000"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	Database DatabaseOptions
	JWT      JWTOptions
	Approval ApprovalOptions
	Kafka    KafkaOptions
	SMTP     SMTPOptions
}

func (c Config) IsProduction() bool {
	return c.AppEnv == Production
}

// Load reads .env when present and parses the environment into Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.Approval.TokenTTL <= 0 {
		return fmt.Errorf("APPROVAL_TOKEN_TTL must be positive, got %s", c.Approval.TokenTTL)
	}
	if c.Approval.SweepInterval <= 0 {
		return fmt.Errorf("TOKEN_SWEEP_INTERVAL must be positive, got %s", c.Approval.SweepInterval)
	}
	return nil
}
