package cmd

import (
	"context"
	"fmt"

	"economy/config"

	log "github.com/sirupsen/logrus"
)

// Credit applies an administrative balance adjustment from the command line.
// It goes through the same ledger as the bot, so locks, history and events apply.
func Credit(ctx context.Context, guildID, userID, amount int64, reason string) error {
	cfg := config.Get()
	SetupLogging(cfg.LogLevel, cfg.LogFormat)

	c, err := newCore(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.close(context.Background())

	account, err := c.ledger.AdminCredit(ctx, guildID, userID, amount, reason)
	if err != nil {
		return fmt.Errorf("credit failed: %w", err)
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"amount":   amount,
		"balance":  account.Balance,
	}).Info("Balance adjusted")
	return nil
}
