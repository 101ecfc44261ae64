package service

import (
	"context"
	"fmt"

	"economy/models"
)

type wagerService struct {
	ledgerWriter
	rewards *RewardEngine
}

// NewWagerService creates a new wager service
func NewWagerService(accountRepo AccountRepository, balanceHistoryRepo BalanceHistoryRepository, eventPublisher EventPublisher, rewards *RewardEngine) WagerService {
	return &wagerService{
		ledgerWriter: ledgerWriter{
			accountRepo:        accountRepo,
			balanceHistoryRepo: balanceHistoryRepo,
			eventPublisher:     eventPublisher,
		},
		rewards: rewards,
	}
}

// validateWager checks everything that does not need the account
func validateWager(bet int64, game models.GameKind, params models.WagerParams) error {
	if bet <= 0 {
		return ErrInvalidAmount
	}
	switch game {
	case models.GameCoinflip:
		if params.Choice != models.CoinHeads && params.Choice != models.CoinTails {
			return fmt.Errorf("coinflip choice must be heads or tails, got %q: %w", params.Choice, ErrInvalidChoice)
		}
	case models.GameDice:
		if params.Guess < 1 || params.Guess > 6 {
			return fmt.Errorf("dice guess must be between 1 and 6, got %d: %w", params.Guess, ErrInvalidChoice)
		}
	case models.GameSlots:
	default:
		return fmt.Errorf("unknown game %q: %w", game, ErrInvalidChoice)
	}
	return nil
}

func (s *wagerService) Wager(ctx context.Context, userID int64, bet int64, game models.GameKind, params models.WagerParams) (*models.WagerResult, error) {
	if err := validateWager(bet, game, params); err != nil {
		return nil, err
	}

	// A user without an account has nothing to bet, so none is created here
	account, err := s.accountRepo.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil || account.Balance < bet {
		return nil, insufficientFunds(account, userID, bet)
	}

	var outcome GameOutcome
	switch game {
	case models.GameCoinflip:
		outcome = s.rewards.CoinflipOutcome(params.Choice, bet)
	case models.GameDice:
		outcome = s.rewards.DiceOutcome(params.Guess, bet)
	case models.GameSlots:
		outcome = s.rewards.SlotsOutcome(bet)
	}

	txType := models.TransactionTypeWagerLoss
	if outcome.Won {
		txType = models.TransactionTypeWagerWin
	}
	if err := s.applyDelta(ctx, account, account.Balance+outcome.Delta, txType, map[string]any{
		"game":    string(game),
		"bet":     bet,
		"outcome": outcome.Outcome,
	}); err != nil {
		return nil, err
	}

	return &models.WagerResult{
		Game:       game,
		Bet:        bet,
		Won:        outcome.Won,
		Delta:      outcome.Delta,
		NewBalance: account.Balance,
		Outcome:    outcome.Outcome,
		Symbols:    outcome.Symbols,
	}, nil
}
