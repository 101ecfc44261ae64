package service

import (
	"fmt"
	"time"
)

// Clock abstracts the wall clock so cooldown windows can be tested
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FormatRemaining renders a wait as whole hours and whole remaining minutes, e.g. "23h 59m".
// Waits under a minute render as "less than a minute".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}
	hours := int64(d / time.Hour)
	minutes := int64((d % time.Hour) / time.Minute)
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	default:
		return "less than a minute"
	}
}
