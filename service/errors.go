package service

import (
	"errors"
	"fmt"
	"time"

	"economy/models"
)

// Errors returned by the economy services. Callers match them with errors.Is.
var (
	ErrOnCooldown        = errors.New("action is on cooldown")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrInvalidName       = errors.New("name must not be empty")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrSelfTarget        = errors.New("cannot target yourself")
	ErrTargetTooPoor     = errors.New("target does not have enough to rob")
	ErrNotFound          = errors.New("not found")
	ErrItemExists        = errors.New("an item with that name already exists")
	ErrInsufficientItems = errors.New("not enough items in inventory")
	ErrOwnListing        = errors.New("cannot buy your own listing")
	ErrNotListingOwner   = errors.New("only the seller can cancel this listing")
	ErrDuelNotPending    = errors.New("duel is no longer pending")
	ErrNotDuelOpponent   = errors.New("only the challenged user can answer this duel")
	// ErrStorageFailure marks infrastructure errors; the operation left no partial state and may be retried
	ErrStorageFailure = errors.New("storage failure")
)

// CooldownError reports a timed action that is not available yet
type CooldownError struct {
	Action    models.CooldownAction
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown for another %s", e.Action, FormatRemaining(e.Remaining))
}

// Is lets errors.Is(err, ErrOnCooldown) match any CooldownError
func (e *CooldownError) Is(target error) bool {
	return target == ErrOnCooldown
}

// InsufficientFundsError reports who could not cover an amount
type InsufficientFundsError struct {
	UserID  int64
	Balance int64
	Needed  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Needed)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

func insufficientFunds(account *models.Account, userID, needed int64) error {
	var balance int64
	if account != nil {
		balance = account.Balance
	}
	return &InsufficientFundsError{UserID: userID, Balance: balance, Needed: needed}
}

// NotFoundError names the missing entity while still matching ErrNotFound
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: fmt.Sprint(key)}
}

// IsUserError reports whether err was caused by the caller rather than the infrastructure
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrOnCooldown, ErrInsufficientFunds, ErrInvalidAmount, ErrInvalidChoice, ErrInvalidName,
		ErrSelfTransfer, ErrSelfTarget, ErrTargetTooPoor, ErrNotFound, ErrItemExists,
		ErrInsufficientItems, ErrOwnListing, ErrNotListingOwner, ErrDuelNotPending,
		ErrNotDuelOpponent,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
