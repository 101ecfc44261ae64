package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const duelExpirationInterval = 15 * time.Second

// StartDuelExpirationWorker starts a background worker that closes duels nobody answered
// and edits their challenge messages. Returns a cleanup function to stop the worker.
func (b *Bot) StartDuelExpirationWorker(ctx context.Context) func() {
	ticker := time.NewTicker(duelExpirationInterval)
	stopChan := make(chan struct{})

	processExpiredDuels := func() {
		expired, err := b.ledger.ExpireDuels(ctx)
		if err != nil {
			log.WithError(err).Error("Error expiring duels")
		}

		for _, d := range expired {
			if err := b.duel.UpdateExpiredDuel(d); err != nil {
				log.WithFields(log.Fields{
					"guild_id": d.GuildID,
					"duel_id":  d.ID,
				}).WithError(err).Warn("Failed to update expired duel message")
			}
		}
		if len(expired) > 0 {
			log.WithField("count", len(expired)).Info("Expired pending duels")
		}
	}

	go func() {
		log.Info("Duel expiration worker started")

		// Run immediately on startup
		processExpiredDuels()

		for {
			select {
			case <-ctx.Done():
				log.Info("Duel expiration worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Duel expiration worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				processExpiredDuels()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
