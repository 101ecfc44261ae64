package gambling

import (
	"context"

	"economy/models"

	"github.com/bwmarrin/discordgo"
)

type Ledger interface {
	Wager(ctx context.Context, guildID, userID, bet int64, game models.GameKind, params models.WagerParams) (*models.WagerResult, error)
}

// Feature handles /coinflip, /dice and /slots
type Feature struct {
	ledger   Ledger
	currency string
}

func New(ledger Ledger, currency string) *Feature {
	return &Feature{
		ledger:   ledger,
		currency: currency,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleWager(s, i, models.GameKind(i.ApplicationCommandData().Name))
}
