package models

import (
	"time"
)

// CooldownAction identifies one of the time-gated economy actions
type CooldownAction string

const (
	CooldownDaily CooldownAction = "daily"
	CooldownWork  CooldownAction = "work"
	CooldownCrime CooldownAction = "crime"
	CooldownRob   CooldownAction = "rob"
)

// AllCooldownActions lists every cooldown class in display order
var AllCooldownActions = []CooldownAction{CooldownDaily, CooldownWork, CooldownCrime, CooldownRob}

// Account is a user's ledger entry within one guild
type Account struct {
	UserID    int64      `db:"user_id"`
	GuildID   int64      `db:"guild_id"`
	Balance   int64      `db:"balance"` // May be negative after a first-ever failed crime
	LastDaily *time.Time `db:"last_daily"`
	LastWork  *time.Time `db:"last_work"`
	LastCrime *time.Time `db:"last_crime"`
	LastRob   *time.Time `db:"last_rob"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// NewAccount returns the zero-balance, never-used state of an account that has not been stored yet
func NewAccount(guildID, userID int64) *Account {
	return &Account{
		UserID:  userID,
		GuildID: guildID,
	}
}

// LastUsed returns when the given action was last used, nil if never
func (a *Account) LastUsed(action CooldownAction) *time.Time {
	switch action {
	case CooldownDaily:
		return a.LastDaily
	case CooldownWork:
		return a.LastWork
	case CooldownCrime:
		return a.LastCrime
	case CooldownRob:
		return a.LastRob
	default:
		return nil
	}
}

// SetLastUsed records the instant an action was used
func (a *Account) SetLastUsed(action CooldownAction, at time.Time) {
	switch action {
	case CooldownDaily:
		a.LastDaily = &at
	case CooldownWork:
		a.LastWork = &at
	case CooldownCrime:
		a.LastCrime = &at
	case CooldownRob:
		a.LastRob = &at
	}
}

// CanAfford checks if the account holds at least amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// LeaderboardEntry is one row of a guild's richest accounts
type LeaderboardEntry struct {
	Rank    int   `json:"rank"`
	UserID  int64 `json:"user_id,string"`
	Balance int64 `json:"balance"`
}
