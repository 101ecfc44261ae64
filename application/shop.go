package application

import (
	"context"

	"economy/models"
	"economy/service"
)

func (l *Ledger) AddShopItem(ctx context.Context, guildID int64, name string, price int64, description *string, roleID *int64) (*models.ShopItem, error) {
	op := operation{name: "shop_add", guildID: guildID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.ShopItem, error) {
		return l.shop(uow).AddItem(ctx, name, price, description, roleID)
	})
}

func (l *Ledger) RemoveShopItem(ctx context.Context, guildID int64, name string) (*models.ShopItem, error) {
	op := operation{name: "shop_remove", guildID: guildID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.ShopItem, error) {
		return l.shop(uow).RemoveItem(ctx, name)
	})
}

func (l *Ledger) ListShopItems(ctx context.Context, guildID int64) ([]*models.ShopItem, error) {
	op := operation{name: "shop_list", guildID: guildID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) ([]*models.ShopItem, error) {
		return l.shop(uow).ListItems(ctx)
	})
}

func (l *Ledger) BuyShopItem(ctx context.Context, guildID, userID int64, name string, quantity int64) (*models.PurchaseResult, error) {
	op := operation{name: "shop_buy", guildID: guildID, userID: userID, lockIDs: []int64{userID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.PurchaseResult, error) {
		return l.shop(uow).BuyItem(ctx, userID, name, quantity)
	})
}

func (l *Ledger) Inventory(ctx context.Context, guildID, userID int64) ([]*models.InventoryItem, error) {
	op := operation{name: "inventory", guildID: guildID, userID: userID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) ([]*models.InventoryItem, error) {
		return l.shop(uow).Inventory(ctx, userID)
	})
}

// ListOnMarket moves goods from the seller's inventory into a listing
func (l *Ledger) ListOnMarket(ctx context.Context, guildID, sellerID int64, itemName string, quantity, unitPrice int64) (*models.MarketplaceListing, error) {
	op := operation{name: "market_list", guildID: guildID, userID: sellerID, lockIDs: []int64{sellerID}}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.MarketplaceListing, error) {
		return l.market(uow).ListItem(ctx, sellerID, itemName, quantity, unitPrice)
	})
}

func (l *Ledger) BrowseMarket(ctx context.Context, guildID int64, limit int) ([]*models.MarketplaceListing, error) {
	op := operation{name: "market_browse", guildID: guildID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) ([]*models.MarketplaceListing, error) {
		return l.market(uow).Browse(ctx, limit)
	})
}

// BuyListing locks the buyer and the seller; the seller is read from the listing first
func (l *Ledger) BuyListing(ctx context.Context, guildID, buyerID, listingID int64) (*models.MarketPurchaseResult, error) {
	lockIDs, err := peek(ctx, l, guildID, func(ctx context.Context, uow service.UnitOfWork) ([]int64, error) {
		listing, err := uow.MarketplaceListingRepository().GetForUpdate(ctx, listingID)
		if err != nil || listing == nil {
			return []int64{buyerID}, err
		}
		return []int64{buyerID, listing.SellerID}, nil
	})
	if err != nil {
		return nil, l.storageError("market_buy", guildID, err)
	}

	op := operation{name: "market_buy", guildID: guildID, userID: buyerID, lockIDs: lockIDs}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.MarketPurchaseResult, error) {
		return l.market(uow).BuyListing(ctx, buyerID, listingID)
	})
}

func (l *Ledger) CancelListing(ctx context.Context, guildID, actorID, listingID int64, isAdmin bool) (*models.MarketplaceListing, error) {
	op := operation{name: "market_cancel", guildID: guildID, userID: actorID}
	return execute(ctx, l, op, func(ctx context.Context, uow service.UnitOfWork) (*models.MarketplaceListing, error) {
		return l.market(uow).CancelListing(ctx, actorID, listingID, isAdmin)
	})
}
