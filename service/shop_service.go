package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"economy/events"
	"economy/models"
)

const MaxItemNameLength = 64

type shopService struct {
	ledgerWriter
	guildID       int64
	shopItemRepo  ShopItemRepository
	inventoryRepo InventoryRepository
	clock         Clock
}

// NewShopService creates a new shop service
func NewShopService(guildID int64, accountRepo AccountRepository, balanceHistoryRepo BalanceHistoryRepository, shopItemRepo ShopItemRepository, inventoryRepo InventoryRepository, eventPublisher EventPublisher, clock Clock) ShopService {
	return &shopService{
		ledgerWriter: ledgerWriter{
			accountRepo:        accountRepo,
			balanceHistoryRepo: balanceHistoryRepo,
			eventPublisher:     eventPublisher,
		},
		guildID:       guildID,
		shopItemRepo:  shopItemRepo,
		inventoryRepo: inventoryRepo,
		clock:         clock,
	}
}

func normalizeItemName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	if len(name) > MaxItemNameLength {
		return "", fmt.Errorf("item name longer than %d characters: %w", MaxItemNameLength, ErrInvalidName)
	}
	return name, nil
}

// totalPrice multiplies with an overflow guard
func totalPrice(unitPrice, quantity int64) (int64, error) {
	if quantity <= 0 || unitPrice <= 0 {
		return 0, ErrInvalidAmount
	}
	if quantity > math.MaxInt64/unitPrice {
		return 0, fmt.Errorf("total price overflows: %w", ErrInvalidAmount)
	}
	return unitPrice * quantity, nil
}

func (s *shopService) AddItem(ctx context.Context, name string, price int64, description *string, roleID *int64) (*models.ShopItem, error) {
	name, err := normalizeItemName(name)
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, ErrInvalidAmount
	}

	existing, err := s.shopItemRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if existing != nil {
		return nil, ErrItemExists
	}

	item := &models.ShopItem{
		GuildID:     s.guildID,
		Name:        name,
		Price:       price,
		Description: description,
		RoleID:      roleID,
	}
	if err := s.shopItemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, ErrItemExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// RemoveItem takes an item off sale. Owned copies and open listings stay valid.
func (s *shopService) RemoveItem(ctx context.Context, name string) (*models.ShopItem, error) {
	item, err := s.shopItemRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return nil, notFound("item", name)
	}

	now := s.clock.Now()
	if err := s.shopItemRepo.MarkRemoved(ctx, item.ID, now); err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	item.RemovedAt = &now
	return item, nil
}

func (s *shopService) ListItems(ctx context.Context) ([]*models.ShopItem, error) {
	items, err := s.shopItemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (s *shopService) BuyItem(ctx context.Context, userID int64, name string, quantity int64) (*models.PurchaseResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidAmount
	}

	item, err := s.shopItemRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if item == nil {
		return nil, notFound("item", name)
	}
	total, err := totalPrice(item.Price, quantity)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil || account.Balance < total {
		return nil, insufficientFunds(account, userID, total)
	}

	if err := s.applyDelta(ctx, account, account.Balance-total, models.TransactionTypeShopPurchase, map[string]any{
		"item_id":  item.ID,
		"item":     item.Name,
		"quantity": quantity,
	}); err != nil {
		return nil, err
	}
	newQuantity, err := s.inventoryRepo.Add(ctx, userID, item.ID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add to inventory: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ItemPurchasedEvent{
		UserID:     userID,
		GuildID:    s.guildID,
		ItemID:     item.ID,
		ItemName:   item.Name,
		Quantity:   quantity,
		TotalPrice: total,
		RoleID:     item.RoleID,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish item purchased event: %w", err)
	}

	return &models.PurchaseResult{
		Item:        item,
		Quantity:    quantity,
		TotalPrice:  total,
		NewBalance:  account.Balance,
		NewQuantity: newQuantity,
	}, nil
}

func (s *shopService) Inventory(ctx context.Context, userID int64) ([]*models.InventoryItem, error) {
	items, err := s.inventoryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}
