package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DAILY_AMOUNT", "")
	t.Setenv("STORAGE_TIMEOUT", "")
	t.Setenv("LOCK_BACKEND", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "coins", cfg.CurrencyName)
	assert.Equal(t, int64(100), cfg.DailyAmount)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 60*time.Second, cfg.DuelExpiry)
	assert.Equal(t, "memory", cfg.LockBackend)
	assert.True(t, cfg.PassiveIncomeEnabled)
	assert.False(t, cfg.NATSEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DAILY_AMOUNT", "250")
	t.Setenv("STORAGE_TIMEOUT", "2")
	t.Setenv("DUEL_EXPIRY", "90s")
	t.Setenv("CURRENCY_NAME", "gems")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("PASSIVE_INCOME_ENABLED", "false")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(250), cfg.DailyAmount)
	assert.Equal(t, 2*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 90*time.Second, cfg.DuelExpiry)
	assert.Equal(t, "gems", cfg.CurrencyName)
	assert.Equal(t, "redis", cfg.LockBackend)
	assert.False(t, cfg.PassiveIncomeEnabled)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		errContains string
	}{
		{
			name:        "missing token outside test",
			env:         map[string]string{"ENVIRONMENT": "production", "DISCORD_TOKEN": "", "DATABASE_URL": "postgres://x"},
			errContains: "DISCORD_TOKEN is required",
		},
		{
			name:        "missing database url outside test",
			env:         map[string]string{"ENVIRONMENT": "production", "DISCORD_TOKEN": "t", "DATABASE_URL": ""},
			errContains: "DATABASE_URL is required",
		},
		{
			name:        "negative daily amount",
			env:         map[string]string{"ENVIRONMENT": "test", "DAILY_AMOUNT": "-5"},
			errContains: "DAILY_AMOUNT must be positive",
		},
		{
			name:        "unknown lock backend",
			env:         map[string]string{"ENVIRONMENT": "test", "LOCK_BACKEND": "etcd"},
			errContains: "unknown LOCK_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestSetTestConfig(t *testing.T) {
	defer ResetConfig()

	cfg := NewTestConfig()
	cfg.DailyAmount = 42
	SetTestConfig(cfg)

	assert.Same(t, cfg, Get())
	assert.Equal(t, int64(42), Get().DailyAmount)
}
