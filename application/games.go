package application

import (
	"context"

	"economy/models"
	"economy/service"

	log "github.com/sirupsen/logrus"
)

// Wager plays one single-player game
func (l *Ledger) Wager(ctx context.Context, guildID, userID, bet int64, game models.GameKind, params models.WagerParams) (*models.WagerResult, error) {
	op := operation{name: string(game), guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.WagerResult, error) {
		return l.wagers(uow).Wager(ctx, userID, bet, game, params)
	})
}

// Transfer moves currency between two users of the same guild
func (l *Ledger) Transfer(ctx context.Context, guildID, fromUserID, toUserID, amount int64) (*models.TransferResult, error) {
	op := operation{name: "pay", guildID: guildID, userID: fromUserID, lockIDs: []int64{fromUserID, toUserID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.TransferResult, error) {
		return l.transfers(uow).Transfer(ctx, fromUserID, toUserID, amount)
	})
}

// ChallengeDuel opens a duel; no balance changes until it is accepted
func (l *Ledger) ChallengeDuel(ctx context.Context, guildID, challengerID, opponentID, amount int64) (*models.Duel, error) {
	op := operation{name: "duel_challenge", guildID: guildID, userID: challengerID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.Duel, error) {
		return l.transfers(uow).ChallengeDuel(ctx, challengerID, opponentID, amount)
	})
}

// AcceptDuel settles a pending duel. The participants are looked up first so both
// accounts can be locked before the duel row is.
func (l *Ledger) AcceptDuel(ctx context.Context, guildID, duelID, responderID int64) (*models.DuelResult, error) {
	participants, err := peek(ctx, l, guildID, func(ctx context.Context, uow service.UnitOfWork) ([]int64, error) {
		duel, err := uow.DuelRepository().GetForUpdate(ctx, duelID)
		if err != nil || duel == nil {
			return nil, err
		}
		return []int64{duel.ChallengerID, duel.OpponentID}, nil
	})
	if err != nil {
		return nil, l.storageError("duel_accept", guildID, err)
	}

	// An unknown duel still goes through the service so it reports ErrNotFound
	op := operation{name: "duel_accept", guildID: guildID, userID: responderID, lockIDs: append(participants, responderID)}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.DuelResult, error) {
		return l.transfers(uow).AcceptDuel(ctx, duelID, responderID)
	})
}

func (l *Ledger) DeclineDuel(ctx context.Context, guildID, duelID, responderID int64) (*models.Duel, error) {
	op := operation{name: "duel_decline", guildID: guildID, userID: responderID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.Duel, error) {
		return l.transfers(uow).DeclineDuel(ctx, duelID, responderID)
	})
}

// SetDuelMessage remembers the chat message showing a challenge
func (l *Ledger) SetDuelMessage(ctx context.Context, guildID, duelID, messageID, channelID int64) error {
	op := operation{name: "duel_message", guildID: guildID}
	_, err := execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (struct{}, error) {
		return struct{}{}, l.transfers(uow).SetDuelMessage(ctx, duelID, messageID, channelID)
	})
	return err
}

// ExpireDuels closes every pending duel past its window, guild by guild. A failing
// guild is logged and skipped so one bad guild cannot stall the others.
func (l *Ledger) ExpireDuels(ctx context.Context) ([]*models.Duel, error) {
	guildIDs, err := peek(ctx, l, 0, func(ctx context.Context, uow service.UnitOfWork) ([]int64, error) {
		return uow.DuelRepository().GetGuildsWithPendingDuels(ctx)
	})
	if err != nil {
		return nil, l.storageError("duel_expire", 0, err)
	}

	var expired []*models.Duel
	for _, guildID := range guildIDs {
		op := operation{name: "duel_expire", guildID: guildID}
		duels, err := execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) ([]*models.Duel, error) {
			return l.transfers(uow).ExpireDuels(ctx)
		})
		if err != nil {
			log.WithError(err).WithField("guildID", guildID).Warn("Skipping guild during duel expiry")
			continue
		}
		expired = append(expired, duels...)
	}
	return expired, nil
}
