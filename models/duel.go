package models

import (
	"time"
)

// DuelState represents the lifecycle of a duel challenge
type DuelState string

const (
	DuelStatePending  DuelState = "pending"
	DuelStateResolved DuelState = "resolved"
	DuelStateDeclined DuelState = "declined"
	DuelStateExpired  DuelState = "expired"
	// DuelStateVoided marks a duel accepted after one side could no longer cover the stake
	DuelStateVoided DuelState = "voided"
)

// Duel is a challenge between two users for a stake each
type Duel struct {
	ID           int64      `db:"id"`
	GuildID      int64      `db:"guild_id"`
	ChallengerID int64      `db:"challenger_id"`
	OpponentID   int64      `db:"opponent_id"`
	Amount       int64      `db:"amount"`
	State        DuelState  `db:"state"`
	WinnerID     *int64     `db:"winner_id"`
	MessageID    *int64     `db:"message_id"`
	ChannelID    *int64     `db:"channel_id"`
	CreatedAt    time.Time  `db:"created_at"`
	ExpiresAt    time.Time  `db:"expires_at"`
	ResolvedAt   *time.Time `db:"resolved_at"`
}

// IsPending reports whether the duel still awaits an answer
func (d *Duel) IsPending() bool {
	return d.State == DuelStatePending
}

// IsExpired reports whether the challenge window has closed at now
func (d *Duel) IsExpired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// Pot is the total at stake across both participants
func (d *Duel) Pot() int64 {
	return d.Amount * 2
}
