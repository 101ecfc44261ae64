package market

import (
	"context"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

const browseLimit = 20

type Ledger interface {
	ListOnMarket(ctx context.Context, guildID, sellerID int64, itemName string, quantity, unitPrice int64) (*models.MarketplaceListing, error)
	BrowseMarket(ctx context.Context, guildID int64, limit int) ([]*models.MarketplaceListing, error)
	BuyListing(ctx context.Context, guildID, buyerID, listingID int64) (*models.MarketPurchaseResult, error)
	CancelListing(ctx context.Context, guildID, actorID, listingID int64, isAdmin bool) (*models.MarketplaceListing, error)
}

// Feature handles the /market subcommands
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
	sub, options := common.NewOptions(i.ApplicationCommandData().Options)
	switch sub {
	case "list":
		f.handleList(s, i, options)
	case "browse":
		f.handleBrowse(s, i)
	case "buy":
		f.handleBuy(s, i, options)
	case "cancel":
		f.handleCancel(s, i, options)
	}
}
