package economy

import (
	"context"

	"economy/models"

	"github.com/bwmarrin/discordgo"
)

// Ledger is what the timed actions need from the application facade
type Ledger interface {
	GetAccount(ctx context.Context, guildID, userID int64) (*models.Account, error)
	ClaimDaily(ctx context.Context, guildID, userID int64) (*models.ActionResult, error)
	Work(ctx context.Context, guildID, userID int64) (*models.ActionResult, error)
	Crime(ctx context.Context, guildID, userID int64) (*models.ActionResult, error)
	Rob(ctx context.Context, guildID, robberID, targetID int64) (*models.ActionResult, error)
}

// Feature handles /balance, /daily, /work, /crime and /rob
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
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "daily":
		f.handleTimedAction(s, i, f.ledger.ClaimDaily)
	case "work":
		f.handleTimedAction(s, i, f.ledger.Work)
	case "crime":
		f.handleTimedAction(s, i, f.ledger.Crime)
	case "rob":
		f.handleRob(s, i)
	}
}
