package service

import (
	"context"
	"fmt"
	"slices"

	"economy/events"
	"economy/models"
)

// RecordBalanceChange records a balance history entry and emits appropriate events.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, balanceHistoryRepo BalanceHistoryRepository, eventPublisher EventPublisher, history *models.BalanceHistory) error {
	if err := balanceHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Buffered by the unit of work and delivered only after commit
	event := events.BalanceChangeEvent{
		UserID:          history.UserID,
		GuildID:         history.GuildID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	}
	if err := eventPublisher.Publish(event); err != nil {
		return fmt.Errorf("failed to publish balance change event: %w", err)
	}

	return nil
}

// ledgerWriter bundles what every balance mutation needs
type ledgerWriter struct {
	accountRepo        AccountRepository
	balanceHistoryRepo BalanceHistoryRepository
	eventPublisher     EventPublisher
}

// applyDelta sets the new balance of a locked account and records the change.
// account.Balance is updated in place.
func (w ledgerWriter) applyDelta(ctx context.Context, account *models.Account, newBalance int64, txType models.TransactionType, metadata map[string]any) error {
	if err := w.accountRepo.SetBalance(ctx, account.UserID, newBalance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:              account.UserID,
		GuildID:             account.GuildID,
		BalanceBefore:       account.Balance,
		BalanceAfter:        newBalance,
		ChangeAmount:        newBalance - account.Balance,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	}
	if err := RecordBalanceChange(ctx, w.balanceHistoryRepo, w.eventPublisher, history); err != nil {
		return err
	}

	account.Balance = newBalance
	return nil
}

// getOrCreate locks an account, creating it on first use and announcing the creation
func (w ledgerWriter) getOrCreate(ctx context.Context, userID int64) (*models.Account, bool, error) {
	account, created, err := w.accountRepo.GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account: %w", err)
	}
	if created {
		if err := w.eventPublisher.Publish(events.AccountCreatedEvent{UserID: userID, GuildID: account.GuildID}); err != nil {
			return nil, false, fmt.Errorf("failed to publish account created event: %w", err)
		}
	}
	return account, created, nil
}

// lockInOrder calls lock once per distinct user id in ascending order, so that
// row locks across accounts are always taken in the same global order.
func lockInOrder(userIDs []int64, lock func(userID int64) error) error {
	ordered := slices.Clone(userIDs)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)
	for _, id := range ordered {
		if err := lock(id); err != nil {
			return err
		}
	}
	return nil
}
