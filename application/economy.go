package application

import (
	"context"

	"economy/models"
	"economy/service"
)

// GetAccount returns the balance and cooldowns of a user; unseen users read as a zero account
func (l *Ledger) GetAccount(ctx context.Context, guildID, userID int64) (*models.Account, error) {
	op := operation{name: "balance", guildID: guildID, userID: userID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.Account, error) {
		return l.economy(uow).GetAccount(ctx, userID)
	})
}

func (l *Ledger) ClaimDaily(ctx context.Context, guildID, userID int64) (*models.ActionResult, error) {
	op := operation{name: "daily", guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.ActionResult, error) {
		return l.economy(uow).ClaimDaily(ctx, userID)
	})
}

func (l *Ledger) Work(ctx context.Context, guildID, userID int64) (*models.ActionResult, error) {
	op := operation{name: "work", guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.ActionResult, error) {
		return l.economy(uow).Work(ctx, userID)
	})
}

func (l *Ledger) Crime(ctx context.Context, guildID, userID int64) (*models.ActionResult, error) {
	op := operation{name: "crime", guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.ActionResult, error) {
		return l.economy(uow).Crime(ctx, userID)
	})
}

func (l *Ledger) Rob(ctx context.Context, guildID, robberID, targetID int64) (*models.ActionResult, error) {
	op := operation{name: "rob", guildID: guildID, userID: robberID, lockIDs: []int64{robberID, targetID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.ActionResult, error) {
		return l.economy(uow).Rob(ctx, robberID, targetID)
	})
}

func (l *Ledger) Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error) {
	op := operation{name: "leaderboard", guildID: guildID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) ([]*models.LeaderboardEntry, error) {
		return l.economy(uow).Leaderboard(ctx, limit)
	})
}

func (l *Ledger) History(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error) {
	op := operation{name: "history", guildID: guildID, userID: userID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) ([]*models.BalanceHistory, error) {
		return l.economy(uow).History(ctx, userID, limit)
	})
}

// AdminCredit applies a signed administrative adjustment
func (l *Ledger) AdminCredit(ctx context.Context, guildID, userID, amount int64, reason string) (*models.Account, error) {
	op := operation{name: "admin_credit", guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.Account, error) {
		return l.economy(uow).AdminCredit(ctx, userID, amount, reason)
	})
}

// AwardActivity pays passive income for chat or voice activity
func (l *Ledger) AwardActivity(ctx context.Context, guildID, userID, amount int64, source string) (*models.Account, error) {
	op := operation{name: "activity", guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.Account, error) {
		return l.economy(uow).AwardActivity(ctx, userID, amount, source)
	})
}
