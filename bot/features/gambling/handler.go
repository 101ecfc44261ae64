package gambling

import (
	"context"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleWager(s *discordgo.Session, i *discordgo.InteractionCreate, game models.GameKind) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	bet, _ := options.Int("amount")
	params, err := wagerParams(game, options)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := f.ledger.Wager(ctx, guildID, userID, bet, game, params)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"user_id":  userID,
		"game":     game,
		"bet":      bet,
		"won":      result.Won,
		"delta":    result.Delta,
	}).Debug("Wager settled")

	common.RespondWithEmbed(s, i, buildResultEmbed(result, f.currency), nil, false)
}

// wagerParams reads the per-game choice; the service validates the values
func wagerParams(game models.GameKind, options common.Options) (models.WagerParams, error) {
	var params models.WagerParams
	switch game {
	case models.GameCoinflip:
		side, ok := options.String("side")
		if !ok {
			return params, common.NewUserError("Pick heads or tails.", "Missing coinflip side")
		}
		params.Choice = models.CoinSide(side)
	case models.GameDice:
		guess, ok := options.Int("guess")
		if !ok {
			return params, common.NewUserError("Pick a number from 1 to 6.", "Missing dice guess")
		}
		params.Guess = int(guess)
	}
	return params, nil
}
