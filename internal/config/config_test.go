package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_EXPIRE", "")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshExpiry)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 2*time.Hour, cfg.Auth.LockTime)
	assert.Equal(t, 10*time.Minute, cfg.Auth.ResetTokenExpiry)
	assert.Equal(t, "refreshToken", cfg.Auth.RefreshCookieName)
	assert.Equal(t, 10, cfg.RateLimit.ChatMax)
	assert.Equal(t, time.Minute, cfg.RateLimit.ChatWindow)
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "go duration", value: "90s", want: 90 * time.Second},
		{name: "bare seconds", value: "120", want: 2 * time.Minute},
		{name: "garbage falls back", value: "soon", want: time.Hour},
		{name: "empty falls back", value: "", want: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("TEST_DURATION", time.Hour))
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_FLAG", "true")
	assert.True(t, getEnvAsBool("TEST_FLAG", false))

	t.Setenv("TEST_FLAG", "nope")
	assert.False(t, getEnvAsBool("TEST_FLAG", false))
}

func TestStorageEnabled(t *testing.T) {
	assert.False(t, StorageConfig{Bucket: "b"}.Enabled())
	assert.True(t, StorageConfig{Bucket: "b", AccessKey: "a", SecretKey: "s"}.Enabled())
}

func TestSMTPFrom(t *testing.T) {
	assert.Equal(t, "noreply@example.com", SMTPConfig{Email: "noreply@example.com"}.From())
	assert.Equal(t, "Interview Lab <noreply@example.com>", SMTPConfig{Email: "noreply@example.com", SenderName: "Interview Lab"}.From())
}
