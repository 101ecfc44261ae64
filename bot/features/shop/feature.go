package shop

import (
	"context"

	"economy/models"

	"github.com/bwmarrin/discordgo"
)

type Ledger interface {
	AddShopItem(ctx context.Context, guildID int64, name string, price int64, description *string, roleID *int64) (*models.ShopItem, error)
	RemoveShopItem(ctx context.Context, guildID int64, name string) (*models.ShopItem, error)
	ListShopItems(ctx context.Context, guildID int64) ([]*models.ShopItem, error)
	BuyShopItem(ctx context.Context, guildID, userID int64, name string, quantity int64) (*models.PurchaseResult, error)
	Inventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryItem, error)
}

// Feature handles the guild shop: /shop, /buy, /inventory and the admin /additem and /removeitem
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
	case "shop":
		f.handleList(s, i)
	case "buy":
		f.handleBuy(s, i)
	case "inventory":
		f.handleInventory(s, i)
	case "additem":
		f.handleAdd(s, i)
	case "removeitem":
		f.handleRemove(s, i)
	}
}
