package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatBalance formats an amount with thousand separators, keeping the sign
func FormatBalance(balance int64) string {
	sign := ""
	if balance < 0 {
		sign = "-"
		balance = -balance
	}
	str := fmt.Sprintf("%d", balance)

	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatAmount renders an amount with the guild currency name
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("**%s %s**", FormatBalance(amount), currency)
}

// FormatDelta renders a signed change, e.g. "+150" or "-40"
func FormatDelta(delta int64) string {
	if delta > 0 {
		return "+" + FormatBalance(delta)
	}
	return FormatBalance(delta)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone.
// Format types: "t" short time, "f" short date/time, "R" relative time.
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}
