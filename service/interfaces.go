package service

import (
	"context"
	"time"

	"economy/events"
	"economy/models"
)

// All repositories below are scoped to a single guild by the unit of work that created them.

// AccountRepository defines the interface for account ledger access
type AccountRepository interface {
	// Get returns the stored account or nil when the user has never been seen
	Get(ctx context.Context, userID int64) (*models.Account, error)

	// GetForUpdate returns the stored account locked for the rest of the transaction, nil when absent
	GetForUpdate(ctx context.Context, userID int64) (*models.Account, error)

	// GetOrCreateForUpdate returns the locked account, creating a zero-balance one if needed.
	// created is true only for the call that inserted the row.
	GetOrCreateForUpdate(ctx context.Context, userID int64) (account *models.Account, created bool, err error)

	// SetBalance overwrites the balance of an account
	SetBalance(ctx context.Context, userID int64, newBalance int64) error

	// SetCooldown records the last use of a timed action
	SetCooldown(ctx context.Context, userID int64, action models.CooldownAction, at time.Time) error

	// TopBalances returns the richest accounts, highest first
	TopBalances(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// SumBalances returns the total currency held in the guild
	SumBalances(ctx context.Context) (int64, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the latest balance history entries for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// ShopItemRepository defines the interface for the guild catalog
type ShopItemRepository interface {
	Create(ctx context.Context, item *models.ShopItem) error

	// GetByName finds an available item by case-insensitive name
	GetByName(ctx context.Context, name string) (*models.ShopItem, error)

	// GetByID finds an item including removed ones
	GetByID(ctx context.Context, id int64) (*models.ShopItem, error)

	// List returns available items ordered by price
	List(ctx context.Context) ([]*models.ShopItem, error)

	// MarkRemoved takes an item off sale without touching owned copies
	MarkRemoved(ctx context.Context, id int64, at time.Time) error
}

// InventoryRepository defines the interface for owned item quantities
type InventoryRepository interface {
	// GetForUpdate returns the locked entry or nil when the user owns none
	GetForUpdate(ctx context.Context, userID, itemID int64) (*models.InventoryEntry, error)

	// Add increments a quantity and returns the new total
	Add(ctx context.Context, userID, itemID, quantity int64) (int64, error)

	// Remove decrements a quantity, deleting the entry at zero.
	// Returns ErrInsufficientItems when the user owns fewer than quantity.
	Remove(ctx context.Context, userID, itemID, quantity int64) (int64, error)

	// ListByUser returns a user's items joined with their catalog names
	ListByUser(ctx context.Context, userID int64) ([]*models.InventoryItem, error)
}

// MarketplaceListingRepository defines the interface for escrowed listings
type MarketplaceListingRepository interface {
	Create(ctx context.Context, listing *models.MarketplaceListing) error

	// GetForUpdate returns the locked listing with its item name, nil when absent
	GetForUpdate(ctx context.Context, id int64) (*models.MarketplaceListing, error)

	// List returns the oldest listings first
	List(ctx context.Context, limit int) ([]*models.MarketplaceListing, error)

	Delete(ctx context.Context, id int64) error
}

// DuelRepository defines the interface for duel challenges
type DuelRepository interface {
	Create(ctx context.Context, duel *models.Duel) error

	// GetForUpdate returns the locked duel, nil when absent
	GetForUpdate(ctx context.Context, id int64) (*models.Duel, error)

	Update(ctx context.Context, duel *models.Duel) error

	// GetExpiredPending returns pending duels whose window closed before now
	GetExpiredPending(ctx context.Context, now time.Time) ([]*models.Duel, error)

	// GetGuildsWithPendingDuels returns every guild that has a pending duel (not guild scoped)
	GetGuildsWithPendingDuels(ctx context.Context) ([]int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and then delivers the buffered events
	Commit() error

	// Rollback rolls back the transaction, a no-op after Commit
	Rollback() error

	// GuildID is the guild every repository of this unit is scoped to
	GuildID() int64

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	ShopItemRepository() ShopItemRepository
	InventoryRepository() InventoryRepository
	MarketplaceListingRepository() MarketplaceListingRepository
	DuelRepository() DuelRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild
	CreateForGuild(guildID int64) UnitOfWork
}

// EconomyService covers balances and the timed actions
type EconomyService interface {
	// GetAccount returns the account, or a zero never-used one without persisting it
	GetAccount(ctx context.Context, userID int64) (*models.Account, error)
	ClaimDaily(ctx context.Context, userID int64) (*models.ActionResult, error)
	Work(ctx context.Context, userID int64) (*models.ActionResult, error)
	Crime(ctx context.Context, userID int64) (*models.ActionResult, error)
	Rob(ctx context.Context, robberID, targetID int64) (*models.ActionResult, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	History(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
	// AdminCredit applies a signed administrative adjustment; debits may not exceed the balance
	AdminCredit(ctx context.Context, userID int64, amount int64, reason string) (*models.Account, error)
	// AwardActivity pays passive income for chat or voice activity
	AwardActivity(ctx context.Context, userID int64, amount int64, source string) (*models.Account, error)
}

// WagerService runs the single-player games
type WagerService interface {
	Wager(ctx context.Context, userID int64, bet int64, game models.GameKind, params models.WagerParams) (*models.WagerResult, error)
}

// TransferService moves currency between two accounts
type TransferService interface {
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) (*models.TransferResult, error)
	ChallengeDuel(ctx context.Context, challengerID, opponentID int64, amount int64) (*models.Duel, error)
	AcceptDuel(ctx context.Context, duelID int64, responderID int64) (*models.DuelResult, error)
	DeclineDuel(ctx context.Context, duelID int64, responderID int64) (*models.Duel, error)
	// SetDuelMessage remembers where the challenge was posted so expiry can edit it
	SetDuelMessage(ctx context.Context, duelID int64, messageID, channelID int64) error
	ExpireDuels(ctx context.Context) ([]*models.Duel, error)
}

// ShopService manages the guild catalog and purchases from it
type ShopService interface {
	AddItem(ctx context.Context, name string, price int64, description *string, roleID *int64) (*models.ShopItem, error)
	RemoveItem(ctx context.Context, name string) (*models.ShopItem, error)
	ListItems(ctx context.Context) ([]*models.ShopItem, error)
	BuyItem(ctx context.Context, userID int64, name string, quantity int64) (*models.PurchaseResult, error)
	Inventory(ctx context.Context, userID int64) ([]*models.InventoryItem, error)
}

// MarketplaceService manages peer-to-peer listings
type MarketplaceService interface {
	ListItem(ctx context.Context, sellerID int64, itemName string, quantity, unitPrice int64) (*models.MarketplaceListing, error)
	Browse(ctx context.Context, limit int) ([]*models.MarketplaceListing, error)
	BuyListing(ctx context.Context, buyerID, listingID int64) (*models.MarketPurchaseResult, error)
	CancelListing(ctx context.Context, actorID, listingID int64, isAdmin bool) (*models.MarketplaceListing, error)
}
