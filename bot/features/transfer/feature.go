package transfer

import (
	"context"

	"economy/models"

	"github.com/bwmarrin/discordgo"
)

type Ledger interface {
	Transfer(ctx context.Context, guildID, fromUserID, toUserID, amount int64) (*models.TransferResult, error)
}

// Feature handles /pay
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
	f.handlePay(s, i)
}
