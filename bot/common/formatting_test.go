package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"economy/models"
	"economy/service"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balance  int64
		expected string
	}{
		{"zero", 0, "0"},
		{"under a thousand", 999, "999"},
		{"one thousand", 1000, "1,000"},
		{"millions", 1234567, "1,234,567"},
		{"negative debt", -1500, "-1,500"},
		{"small negative", -42, "-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatBalance(tt.balance))
		})
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "+1,500", FormatDelta(1500))
	assert.Equal(t, "-40", FormatDelta(-40))
	assert.Equal(t, "0", FormatDelta(0))
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "🍒🍒…", Truncate("🍒🍒🍒🍒", 3))
}

func TestFromLedgerError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		contains  string
		userError bool
	}{
		{
			name:      "cooldown shows remaining time",
			err:       &service.CooldownError{Action: models.CooldownDaily, Remaining: 23*time.Hour + 59*time.Minute},
			contains:  "23h 59m",
			userError: true,
		},
		{
			name:      "insufficient funds shows both amounts",
			err:       fmt.Errorf("wager: %w", &service.InsufficientFundsError{Balance: 100, Needed: 150}),
			contains:  "**150 coins** but only have **100**",
			userError: true,
		},
		{
			name:      "self transfer",
			err:       service.ErrSelfTransfer,
			contains:  "pay yourself",
			userError: true,
		},
		{
			name:     "storage failure promises no change",
			err:      fmt.Errorf("pay: %w: %w", service.ErrStorageFailure, errors.New("conn reset")),
			contains: "Nothing was changed",
		},
		{
			name:     "unknown error is generic",
			err:      errors.New("boom"),
			contains: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			botErr := FromLedgerError(tt.err, "coins")

			assert.Contains(t, botErr.UserMessage, tt.contains)
			assert.True(t, botErr.Ephemeral)
			assert.ErrorIs(t, botErr, tt.err)
			assert.Equal(t, tt.userError, service.IsUserError(botErr.Err))
		})
	}
}

func TestFromLedgerError_KeepsBotError(t *testing.T) {
	t.Parallel()
	original := NewUserError("custom", "log")
	assert.Same(t, original, FromLedgerError(original, "coins"))
}
