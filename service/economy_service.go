package service

import (
	"context"
	"fmt"

	"economy/models"
)

const (
	DefaultLeaderboardSize = 10
	DefaultHistoryLimit    = 10
	MaxHistoryLimit        = 50
)

type economyService struct {
	ledgerWriter
	guildID int64
	rewards *RewardEngine
	clock   Clock
}

// NewEconomyService creates the service for balances and timed actions of one guild
func NewEconomyService(guildID int64, accountRepo AccountRepository, balanceHistoryRepo BalanceHistoryRepository, eventPublisher EventPublisher, rewards *RewardEngine, clock Clock) EconomyService {
	return &economyService{
		ledgerWriter: ledgerWriter{
			accountRepo:        accountRepo,
			balanceHistoryRepo: balanceHistoryRepo,
			eventPublisher:     eventPublisher,
		},
		guildID: guildID,
		rewards: rewards,
		clock:   clock,
	}
}

func (s *economyService) GetAccount(ctx context.Context, userID int64) (*models.Account, error) {
	account, err := s.accountRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return models.NewAccount(s.guildID, userID), nil
	}
	return account, nil
}

func (s *economyService) ClaimDaily(ctx context.Context, userID int64) (*models.ActionResult, error) {
	return s.fixedReward(ctx, userID, models.CooldownDaily, models.TransactionTypeDaily, s.rewards.DailyReward)
}

func (s *economyService) Work(ctx context.Context, userID int64) (*models.ActionResult, error) {
	return s.fixedReward(ctx, userID, models.CooldownWork, models.TransactionTypeWork, s.rewards.WorkReward)
}

// fixedReward pays a currency-creating reward behind a cooldown
func (s *economyService) fixedReward(ctx context.Context, userID int64, action models.CooldownAction, txType models.TransactionType, reward func() int64) (*models.ActionResult, error) {
	account, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := checkAccountCooldown(account, action, now); err != nil {
		return nil, err
	}

	amount := reward()
	if err := s.applyDelta(ctx, account, account.Balance+amount, txType, map[string]any{
		"action": string(action),
	}); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SetCooldown(ctx, userID, action, now); err != nil {
		return nil, fmt.Errorf("failed to set %s cooldown: %w", action, err)
	}

	return &models.ActionResult{
		Action:        action,
		Success:       true,
		Delta:         amount,
		NewBalance:    account.Balance,
		NextAvailable: now.Add(CooldownWindow(action)),
	}, nil
}

func (s *economyService) Crime(ctx context.Context, userID int64) (*models.ActionResult, error) {
	account, created, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := checkAccountCooldown(account, models.CooldownCrime, now); err != nil {
		return nil, err
	}

	outcome := s.rewards.CrimeOutcome()
	before := account.Balance

	var newBalance int64
	var txType models.TransactionType
	if outcome.Success {
		newBalance = before + outcome.Amount
		txType = models.TransactionTypeCrimeWin
	} else {
		// An account created by this attempt keeps the full fine as debt
		newBalance = ApplyCrimeFine(before, outcome.Amount, created)
		txType = models.TransactionTypeCrimeFine
	}

	if newBalance != before {
		if err := s.applyDelta(ctx, account, newBalance, txType, map[string]any{
			"success":   outcome.Success,
			"amount":    outcome.Amount,
			"first_use": created,
		}); err != nil {
			return nil, err
		}
	}
	// Failed attempts still start the cooldown
	if err := s.accountRepo.SetCooldown(ctx, userID, models.CooldownCrime, now); err != nil {
		return nil, fmt.Errorf("failed to set crime cooldown: %w", err)
	}

	return &models.ActionResult{
		Action:        models.CooldownCrime,
		Success:       outcome.Success,
		Delta:         newBalance - before,
		NewBalance:    newBalance,
		NextAvailable: now.Add(CrimeCooldown),
	}, nil
}

func (s *economyService) Rob(ctx context.Context, robberID, targetID int64) (*models.ActionResult, error) {
	if robberID == targetID {
		return nil, ErrSelfTarget
	}

	var robber, target *models.Account
	err := lockInOrder([]int64{robberID, targetID}, func(id int64) error {
		var err error
		if id == robberID {
			robber, _, err = s.getOrCreate(ctx, id)
			return err
		}
		// Targets are never created by a robbery
		target, err = s.accountRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get target account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := checkAccountCooldown(robber, models.CooldownRob, now); err != nil {
		return nil, err
	}
	if target == nil || !CanBeRobbed(target.Balance) {
		return nil, ErrTargetTooPoor
	}

	outcome := s.rewards.RobOutcome(target.Balance, robber.Balance)
	robberBefore := robber.Balance

	if outcome.Success {
		if err := s.applyDelta(ctx, target, target.Balance-outcome.Stolen, models.TransactionTypeRobLoss, map[string]any{
			"robber_id": robberID,
			"amount":    outcome.Stolen,
		}); err != nil {
			return nil, err
		}
		if err := s.applyDelta(ctx, robber, robber.Balance+outcome.Stolen, models.TransactionTypeRobGain, map[string]any{
			"target_id": targetID,
			"amount":    outcome.Stolen,
		}); err != nil {
			return nil, err
		}
	} else if outcome.Penalty > 0 {
		// The penalty is burned, the target receives nothing
		if err := s.applyDelta(ctx, robber, robber.Balance-outcome.Penalty, models.TransactionTypeRobPenalty, map[string]any{
			"target_id": targetID,
			"amount":    outcome.Penalty,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.SetCooldown(ctx, robberID, models.CooldownRob, now); err != nil {
		return nil, fmt.Errorf("failed to set rob cooldown: %w", err)
	}

	return &models.ActionResult{
		Action:        models.CooldownRob,
		Success:       outcome.Success,
		Delta:         robber.Balance - robberBefore,
		NewBalance:    robber.Balance,
		TargetID:      targetID,
		TargetBalance: target.Balance,
		NextAvailable: now.Add(RobCooldown),
	}, nil
}

func (s *economyService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	entries, err := s.accountRepo.TopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

func (s *economyService) History(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	history, err := s.balanceHistoryRepo.GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}

func (s *economyService) AdminCredit(ctx context.Context, userID int64, amount int64, reason string) (*models.Account, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}

	account, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount < 0 && account.Balance < -amount {
		return nil, insufficientFunds(account, userID, -amount)
	}

	if err := s.applyDelta(ctx, account, account.Balance+amount, models.TransactionTypeAdminCredit, map[string]any{
		"reason": reason,
	}); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *economyService) AwardActivity(ctx context.Context, userID int64, amount int64, source string) (*models.Account, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	account, _, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.applyDelta(ctx, account, account.Balance+amount, models.TransactionTypeActivity, map[string]any{
		"source": source,
	}); err != nil {
		return nil, err
	}
	return account, nil
}
