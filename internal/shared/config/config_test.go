package config_test

import (
	"testing"
	"time"

	"go-leave/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 24*time.Hour, cfg.Approval.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Approval.SweepInterval)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", config.Production)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveTokenTTL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APPROVAL_TOKEN_TTL", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestSMTPOptions_Sender(t *testing.T) {
	opts := config.SMTPOptions{Host: "smtp.example.com", User: "bot@example.com", Password: "x"}
	assert.True(t, opts.Enabled())
	assert.Equal(t, "bot@example.com", opts.Sender())

	opts.From = "Leave Desk <leave@example.com>"
	assert.Equal(t, "Leave Desk <leave@example.com>", opts.Sender())
}
