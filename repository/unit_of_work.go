package repository

import (
	"context"
	"errors"
	"fmt"

	"economy/database"
	"economy/events"
	"economy/service"

	"github.com/jackc/pgx/v5"
)

const notStarted = "unit of work not started - call Begin() first"

// unitOfWork binds one transaction, one guild scope and one event buffer
type unitOfWork struct {
	db               *database.DB
	guildID          int64
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus

	accountRepo        *AccountRepository
	balanceHistoryRepo *BalanceHistoryRepository
	shopItemRepo       *ShopItemRepository
	inventoryRepo      *InventoryRepository
	listingRepo        *MarketplaceListingRepository
	duelRepo           *DuelRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) CreateForGuild(guildID int64) service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		guildID:          guildID,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepository(tx, u.guildID)
	u.balanceHistoryRepo = newBalanceHistoryRepository(tx, u.guildID)
	u.shopItemRepo = newShopItemRepository(tx, u.guildID)
	u.inventoryRepo = newInventoryRepository(tx, u.guildID)
	u.listingRepo = newMarketplaceListingRepository(tx, u.guildID)
	u.duelRepo = newDuelRepository(tx, u.guildID)

	return nil
}

// Commit commits the transaction, then hands the buffered events to subscribers
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		u.tx = nil
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	if err := u.transactionalBus.Flush(u.ctx); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction; safe to call after Commit
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) GuildID() int64 {
	return u.guildID
}

func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic(notStarted)
	}
	return u.accountRepo
}

func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic(notStarted)
	}
	return u.balanceHistoryRepo
}

func (u *unitOfWork) ShopItemRepository() service.ShopItemRepository {
	if u.shopItemRepo == nil {
		panic(notStarted)
	}
	return u.shopItemRepo
}

func (u *unitOfWork) InventoryRepository() service.InventoryRepository {
	if u.inventoryRepo == nil {
		panic(notStarted)
	}
	return u.inventoryRepo
}

func (u *unitOfWork) MarketplaceListingRepository() service.MarketplaceListingRepository {
	if u.listingRepo == nil {
		panic(notStarted)
	}
	return u.listingRepo
}

func (u *unitOfWork) DuelRepository() service.DuelRepository {
	if u.duelRepo == nil {
		panic(notStarted)
	}
	return u.duelRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.accountRepo == nil {
		panic(notStarted)
	}
	return u.transactionalBus
}
