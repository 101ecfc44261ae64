package service

import (
	"context"
	"time"

	"economy/events"
	"economy/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Get(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreateForUpdate(ctx context.Context, userID int64) (*models.Account, bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, userID int64, newBalance int64) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) SetCooldown(ctx context.Context, userID int64, action models.CooldownAction, at time.Time) error {
	args := m.Called(ctx, userID, action, at)
	return args.Error(0)
}

func (m *MockAccountRepository) TopBalances(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockAccountRepository) SumBalances(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockShopItemRepository is a mock implementation of ShopItemRepository
type MockShopItemRepository struct {
	mock.Mock
}

func (m *MockShopItemRepository) Create(ctx context.Context, item *models.ShopItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockShopItemRepository) GetByName(ctx context.Context, name string) (*models.ShopItem, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) GetByID(ctx context.Context, id int64) (*models.ShopItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) List(ctx context.Context) ([]*models.ShopItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ShopItem), args.Error(1)
}

func (m *MockShopItemRepository) MarkRemoved(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetForUpdate(ctx context.Context, userID, itemID int64) (*models.InventoryEntry, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryEntry), args.Error(1)
}

func (m *MockInventoryRepository) Add(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) Remove(ctx context.Context, userID, itemID, quantity int64) (int64, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) ListByUser(ctx context.Context, userID int64) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

// MockMarketplaceListingRepository is a mock implementation of MarketplaceListingRepository
type MockMarketplaceListingRepository struct {
	mock.Mock
}

func (m *MockMarketplaceListingRepository) Create(ctx context.Context, listing *models.MarketplaceListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockMarketplaceListingRepository) GetForUpdate(ctx context.Context, id int64) (*models.MarketplaceListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketplaceListing), args.Error(1)
}

func (m *MockMarketplaceListingRepository) List(ctx context.Context, limit int) ([]*models.MarketplaceListing, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MarketplaceListing), args.Error(1)
}

func (m *MockMarketplaceListingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDuelRepository is a mock implementation of DuelRepository
type MockDuelRepository struct {
	mock.Mock
}

func (m *MockDuelRepository) Create(ctx context.Context, duel *models.Duel) error {
	args := m.Called(ctx, duel)
	return args.Error(0)
}

func (m *MockDuelRepository) GetForUpdate(ctx context.Context, id int64) (*models.Duel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Duel), args.Error(1)
}

func (m *MockDuelRepository) Update(ctx context.Context, duel *models.Duel) error {
	args := m.Called(ctx, duel)
	return args.Error(0)
}

func (m *MockDuelRepository) GetExpiredPending(ctx context.Context, now time.Time) ([]*models.Duel, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Duel), args.Error(1)
}

func (m *MockDuelRepository) GetGuildsWithPendingDuels(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are plain
// fields so tests only set expectations on the ones they exercise.
type MockUnitOfWork struct {
	mock.Mock
	Guild          int64
	Accounts       *MockAccountRepository
	History        *MockBalanceHistoryRepository
	ShopItems      *MockShopItemRepository
	Inventory      *MockInventoryRepository
	Listings       *MockMarketplaceListingRepository
	Duels          *MockDuelRepository
	EventPublisher *MockEventPublisher
}

// NewMockUnitOfWork creates a unit of work with fresh repository mocks
func NewMockUnitOfWork(guildID int64) *MockUnitOfWork {
	return &MockUnitOfWork{
		Guild:          guildID,
		Accounts:       new(MockAccountRepository),
		History:        new(MockBalanceHistoryRepository),
		ShopItems:      new(MockShopItemRepository),
		Inventory:      new(MockInventoryRepository),
		Listings:       new(MockMarketplaceListingRepository),
		Duels:          new(MockDuelRepository),
		EventPublisher: new(MockEventPublisher),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildID() int64 { return m.Guild }

func (m *MockUnitOfWork) AccountRepository() AccountRepository { return m.Accounts }

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository { return m.History }

func (m *MockUnitOfWork) ShopItemRepository() ShopItemRepository { return m.ShopItems }

func (m *MockUnitOfWork) InventoryRepository() InventoryRepository { return m.Inventory }

func (m *MockUnitOfWork) MarketplaceListingRepository() MarketplaceListingRepository {
	return m.Listings
}

func (m *MockUnitOfWork) DuelRepository() DuelRepository { return m.Duels }

func (m *MockUnitOfWork) EventBus() EventPublisher { return m.EventPublisher }

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) CreateForGuild(guildID int64) UnitOfWork {
	args := m.Called(guildID)
	return args.Get(0).(UnitOfWork)
}
