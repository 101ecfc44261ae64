package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"economy/infrastructure/observability"
	"economy/service"

	log "github.com/sirupsen/logrus"
)

// AccountLocker serializes operations touching the same accounts of a guild
type AccountLocker interface {
	// Lock acquires the accounts in ascending user id order; unlock may be called more than once
	Lock(ctx context.Context, guildID int64, userIDs ...int64) (unlock func(), err error)
}

// LedgerConfig tunes the facade
type LedgerConfig struct {
	// StorageTimeout bounds one operation including lock waits
	StorageTimeout time.Duration
	DuelExpiry     time.Duration
}

// Ledger is the single entry point to the guild economy. Every method runs one
// operation inside one transaction, holding the account locks of every user
// whose balance it may change.
type Ledger struct {
	uowFactory service.UnitOfWorkFactory
	locker     AccountLocker
	rewards    *service.RewardEngine
	clock      service.Clock
	metrics    *observability.MetricsProvider
	cfg        LedgerConfig
}

// NewLedger wires the facade; metrics may be nil
func NewLedger(uowFactory service.UnitOfWorkFactory, locker AccountLocker, rewards *service.RewardEngine, clock service.Clock, metrics *observability.MetricsProvider, cfg LedgerConfig) *Ledger {
	if cfg.StorageTimeout <= 0 {
		cfg.StorageTimeout = 5 * time.Second
	}
	if cfg.DuelExpiry <= 0 {
		cfg.DuelExpiry = time.Minute
	}
	return &Ledger{
		uowFactory: uowFactory,
		locker:     locker,
		rewards:    rewards,
		clock:      clock,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// operation describes one facade call for locking, logging and metrics
type operation struct {
	name    string
	guildID int64
	userID  int64
	lockIDs []int64
}

// execute runs fn inside a unit of work. Domain errors pass through unchanged;
// anything else is logged once here and wrapped in service.ErrStorageFailure.
func execute[T any](ctx context.Context, l *Ledger, op operation, fn func(ctx context.Context, uow service.UnitOfWork) (T, error)) (T, error) {
	start := time.Now()
	result, err := runInTransaction(ctx, l, op, fn)

	outcome := observability.OutcomeSuccess
	switch {
	case err == nil:
	case service.IsUserError(err):
		outcome = observability.OutcomeRejected
	default:
		outcome = observability.OutcomeError
		log.WithFields(log.Fields{
			"operation": op.name,
			"guildID":   op.guildID,
			"userID":    op.userID,
			"duration":  time.Since(start),
		}).WithError(err).Error("Ledger operation failed")
		err = fmt.Errorf("%s: %w: %w", op.name, service.ErrStorageFailure, err)
	}
	l.metrics.RecordOperation(op.name, outcome, time.Since(start))

	return result, err
}

func runInTransaction[T any](ctx context.Context, l *Ledger, op operation, fn func(ctx context.Context, uow service.UnitOfWork) (T, error)) (result T, err error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.StorageTimeout)
	defer cancel()

	if len(op.lockIDs) > 0 {
		unlock, err := l.locker.Lock(ctx, op.guildID, op.lockIDs...)
		if err != nil {
			return result, fmt.Errorf("failed to lock accounts: %w", err)
		}
		defer unlock()
	}

	uow := l.uowFactory.CreateForGuild(op.guildID)
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}
	defer func() {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).WithField("operation", op.name).Warn("Rollback failed")
		}
	}()

	result, err = fn(ctx, uow)
	if err != nil {
		return result, err
	}
	if err := uow.Commit(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// peek runs fn in a transaction that is always rolled back. It finds which
// accounts an operation will touch before the locks for them are taken.
func peek[T any](ctx context.Context, l *Ledger, guildID int64, fn func(ctx context.Context, uow service.UnitOfWork) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.StorageTimeout)
	defer cancel()

	var zero T
	uow := l.uowFactory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}
	defer uow.Rollback()

	return fn(ctx, uow)
}

// storageError wraps peek failures the same way execute does
func (l *Ledger) storageError(op string, guildID int64, err error) error {
	if err == nil || service.IsUserError(err) || errors.Is(err, service.ErrStorageFailure) {
		return err
	}
	log.WithFields(log.Fields{
		"operation": op,
		"guildID":   guildID,
	}).WithError(err).Error("Ledger lookup failed")
	return fmt.Errorf("%s: %w: %w", op, service.ErrStorageFailure, err)
}

func (l *Ledger) economy(uow service.UnitOfWork) service.EconomyService {
	return service.NewEconomyService(uow.GuildID(), uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), l.rewards, l.clock)
}

func (l *Ledger) wagers(uow service.UnitOfWork) service.WagerService {
	return service.NewWagerService(uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.EventBus(), l.rewards)
}

func (l *Ledger) transfers(uow service.UnitOfWork) service.TransferService {
	return service.NewTransferService(uow.GuildID(), uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.DuelRepository(), uow.EventBus(), l.rewards, l.clock, l.cfg.DuelExpiry)
}

func (l *Ledger) shop(uow service.UnitOfWork) service.ShopService {
	return service.NewShopService(uow.GuildID(), uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.ShopItemRepository(), uow.InventoryRepository(), uow.EventBus(), l.clock)
}

func (l *Ledger) market(uow service.UnitOfWork) service.MarketplaceService {
	return service.NewMarketplaceService(uow.GuildID(), uow.AccountRepository(), uow.BalanceHistoryRepository(), uow.InventoryRepository(), uow.MarketplaceListingRepository(), uow.EventBus())
}
