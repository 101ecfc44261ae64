package service

import (
	"context"
	"fmt"
	"strings"

	"economy/events"
	"economy/models"
)

const DefaultBrowseLimit = 20

type marketplaceService struct {
	ledgerWriter
	guildID       int64
	inventoryRepo InventoryRepository
	listingRepo   MarketplaceListingRepository
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(guildID int64, accountRepo AccountRepository, balanceHistoryRepo BalanceHistoryRepository, inventoryRepo InventoryRepository, listingRepo MarketplaceListingRepository, eventPublisher EventPublisher) MarketplaceService {
	return &marketplaceService{
		ledgerWriter: ledgerWriter{
			accountRepo:        accountRepo,
			balanceHistoryRepo: balanceHistoryRepo,
			eventPublisher:     eventPublisher,
		},
		guildID:       guildID,
		inventoryRepo: inventoryRepo,
		listingRepo:   listingRepo,
	}
}

// ListItem moves goods from the seller's inventory into a listing.
// Items taken off the shop can still be listed while the seller owns them.
func (s *marketplaceService) ListItem(ctx context.Context, sellerID int64, itemName string, quantity, unitPrice int64) (*models.MarketplaceListing, error) {
	if _, err := totalPrice(unitPrice, quantity); err != nil {
		return nil, err
	}

	owned, err := s.inventoryRepo.ListByUser(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	var item *models.InventoryItem
	for _, entry := range owned {
		if strings.EqualFold(entry.Name, strings.TrimSpace(itemName)) {
			item = entry
			break
		}
	}
	if item == nil {
		return nil, notFound("item in inventory", itemName)
	}

	if _, err := s.inventoryRepo.Remove(ctx, sellerID, item.ItemID, quantity); err != nil {
		return nil, err
	}

	listing := &models.MarketplaceListing{
		GuildID:   s.guildID,
		SellerID:  sellerID,
		ItemID:    item.ItemID,
		ItemName:  item.Name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ListingCreatedEvent{
		ListingID: listing.ID,
		GuildID:   s.guildID,
		SellerID:  sellerID,
		ItemID:    item.ItemID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish listing created event: %w", err)
	}
	return listing, nil
}

func (s *marketplaceService) Browse(ctx context.Context, limit int) ([]*models.MarketplaceListing, error) {
	if limit <= 0 {
		limit = DefaultBrowseLimit
	}
	listings, err := s.listingRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list marketplace: %w", err)
	}
	return listings, nil
}

// BuyListing debits the buyer, credits the seller, hands over the goods and
// deletes the listing. All four steps share the caller's transaction.
func (s *marketplaceService) BuyListing(ctx context.Context, buyerID, listingID int64) (*models.MarketPurchaseResult, error) {
	listing, err := s.listingRepo.GetForUpdate(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, notFound("listing", listingID)
	}
	if listing.SellerID == buyerID {
		return nil, ErrOwnListing
	}
	total, err := totalPrice(listing.UnitPrice, listing.Quantity)
	if err != nil {
		return nil, err
	}

	var buyer, seller *models.Account
	err = lockInOrder([]int64{buyerID, listing.SellerID}, func(id int64) error {
		var err error
		if id == buyerID {
			buyer, err = s.accountRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get buyer account: %w", err)
			}
			return nil
		}
		seller, _, err = s.getOrCreate(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if buyer == nil || buyer.Balance < total {
		return nil, insufficientFunds(buyer, buyerID, total)
	}

	if err := s.applyDelta(ctx, buyer, buyer.Balance-total, models.TransactionTypeMarketPurchase, map[string]any{
		"listing_id": listing.ID,
		"seller_id":  listing.SellerID,
		"item_id":    listing.ItemID,
		"quantity":   listing.Quantity,
	}); err != nil {
		return nil, fmt.Errorf("failed to debit buyer: %w", err)
	}
	if err := s.applyDelta(ctx, seller, seller.Balance+total, models.TransactionTypeMarketSale, map[string]any{
		"listing_id": listing.ID,
		"buyer_id":   buyerID,
		"item_id":    listing.ItemID,
		"quantity":   listing.Quantity,
	}); err != nil {
		return nil, fmt.Errorf("failed to credit seller: %w", err)
	}
	newQuantity, err := s.inventoryRepo.Add(ctx, buyerID, listing.ItemID, listing.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver goods: %w", err)
	}
	if err := s.listingRepo.Delete(ctx, listing.ID); err != nil {
		return nil, fmt.Errorf("failed to delete listing: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ListingSoldEvent{
		ListingID:  listing.ID,
		GuildID:    s.guildID,
		SellerID:   listing.SellerID,
		BuyerID:    buyerID,
		ItemID:     listing.ItemID,
		Quantity:   listing.Quantity,
		TotalPrice: total,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish listing sold event: %w", err)
	}

	return &models.MarketPurchaseResult{
		Listing:          listing,
		TotalPrice:       total,
		NewBuyerBalance:  buyer.Balance,
		NewSellerBalance: seller.Balance,
		NewBuyerQuantity: newQuantity,
	}, nil
}

// CancelListing returns escrowed goods to the seller. Only the seller or an admin may cancel.
func (s *marketplaceService) CancelListing(ctx context.Context, actorID, listingID int64, isAdmin bool) (*models.MarketplaceListing, error) {
	listing, err := s.listingRepo.GetForUpdate(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, notFound("listing", listingID)
	}
	if listing.SellerID != actorID && !isAdmin {
		return nil, ErrNotListingOwner
	}

	if _, err := s.inventoryRepo.Add(ctx, listing.SellerID, listing.ItemID, listing.Quantity); err != nil {
		return nil, fmt.Errorf("failed to return goods: %w", err)
	}
	if err := s.listingRepo.Delete(ctx, listing.ID); err != nil {
		return nil, fmt.Errorf("failed to delete listing: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ListingCancelledEvent{
		ListingID:   listing.ID,
		GuildID:     s.guildID,
		SellerID:    listing.SellerID,
		CancelledBy: actorID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish listing cancelled event: %w", err)
	}
	return listing, nil
}
