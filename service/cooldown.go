package service

import (
	"time"

	"economy/models"
)

// Cooldown windows per timed action
const (
	DailyCooldown = 24 * time.Hour
	WorkCooldown  = 2 * time.Hour
	CrimeCooldown = 4 * time.Hour
	RobCooldown   = 6 * time.Hour
)

// CooldownStatus is the result of a cooldown check
type CooldownStatus struct {
	Allowed   bool
	Remaining time.Duration
}

// CooldownWindow returns the fixed window of a timed action
func CooldownWindow(action models.CooldownAction) time.Duration {
	switch action {
	case models.CooldownDaily:
		return DailyCooldown
	case models.CooldownWork:
		return WorkCooldown
	case models.CooldownCrime:
		return CrimeCooldown
	case models.CooldownRob:
		return RobCooldown
	default:
		return 0
	}
}

// CheckCooldown reports whether an action last used at lastUsed may run again at now.
// A nil lastUsed means never used. Remaining is floored at zero.
func CheckCooldown(lastUsed *time.Time, window time.Duration, now time.Time) CooldownStatus {
	if lastUsed == nil {
		return CooldownStatus{Allowed: true}
	}
	elapsed := now.Sub(*lastUsed)
	if elapsed >= window {
		return CooldownStatus{Allowed: true}
	}
	return CooldownStatus{Allowed: false, Remaining: window - elapsed}
}

// checkAccountCooldown returns a *CooldownError when the account cannot use action yet
func checkAccountCooldown(account *models.Account, action models.CooldownAction, now time.Time) error {
	status := CheckCooldown(account.LastUsed(action), CooldownWindow(action), now)
	if !status.Allowed {
		return &CooldownError{Action: action, Remaining: status.Remaining}
	}
	return nil
}
