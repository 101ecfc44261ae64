package service

import (
	"context"
	"fmt"
	"time"

	"economy/events"
	"economy/models"
)

type transferService struct {
	ledgerWriter
	guildID    int64
	duelRepo   DuelRepository
	rewards    *RewardEngine
	clock      Clock
	duelExpiry time.Duration
}

// NewTransferService creates a new transfer service handling payments and duels
func NewTransferService(guildID int64, accountRepo AccountRepository, balanceHistoryRepo BalanceHistoryRepository, duelRepo DuelRepository, eventPublisher EventPublisher, rewards *RewardEngine, clock Clock, duelExpiry time.Duration) TransferService {
	return &transferService{
		ledgerWriter: ledgerWriter{
			accountRepo:        accountRepo,
			balanceHistoryRepo: balanceHistoryRepo,
			eventPublisher:     eventPublisher,
		},
		guildID:    guildID,
		duelRepo:   duelRepo,
		rewards:    rewards,
		clock:      clock,
		duelExpiry: duelExpiry,
	}
}

func (s *transferService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) (*models.TransferResult, error) {
	// Validate inputs
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}

	var from, to *models.Account
	err := lockInOrder([]int64{fromUserID, toUserID}, func(id int64) error {
		var err error
		if id == fromUserID {
			from, err = s.accountRepo.GetForUpdate(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get sender account: %w", err)
			}
			return nil
		}
		to, _, err = s.getOrCreate(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Check if sender has sufficient balance
	if from == nil || from.Balance < amount {
		return nil, insufficientFunds(from, fromUserID, amount)
	}

	if err := s.applyDelta(ctx, from, from.Balance-amount, models.TransactionTypeTransferOut, map[string]any{
		"recipient_id":    toUserID,
		"transfer_amount": amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	if err := s.applyDelta(ctx, to, to.Balance+amount, models.TransactionTypeTransferIn, map[string]any{
		"sender_id":       fromUserID,
		"transfer_amount": amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	return &models.TransferResult{
		Amount:         amount,
		NewFromBalance: from.Balance,
		NewToBalance:   to.Balance,
	}, nil
}

func (s *transferService) ChallengeDuel(ctx context.Context, challengerID, opponentID int64, amount int64) (*models.Duel, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if challengerID == opponentID {
		return nil, ErrSelfTransfer
	}

	// Balances are only a pre-check here, they are validated again on acceptance
	for _, userID := range []int64{challengerID, opponentID} {
		account, err := s.accountRepo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil || account.Balance < amount {
			return nil, insufficientFunds(account, userID, amount)
		}
	}

	now := s.clock.Now()
	duel := &models.Duel{
		GuildID:      s.guildID,
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		Amount:       amount,
		State:        models.DuelStatePending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.duelExpiry),
	}
	if err := s.duelRepo.Create(ctx, duel); err != nil {
		return nil, fmt.Errorf("failed to create duel: %w", err)
	}
	return duel, nil
}

// getPendingDuel locks a duel and checks the responder may answer it
func (s *transferService) getPendingDuel(ctx context.Context, duelID, responderID int64) (*models.Duel, error) {
	duel, err := s.duelRepo.GetForUpdate(ctx, duelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get duel: %w", err)
	}
	if duel == nil {
		return nil, notFound("duel", duelID)
	}
	if duel.OpponentID != responderID {
		return nil, ErrNotDuelOpponent
	}
	if !duel.IsPending() {
		return nil, ErrDuelNotPending
	}
	return duel, nil
}

// closeDuel moves a pending duel to a terminal state
func (s *transferService) closeDuel(ctx context.Context, duel *models.Duel, state models.DuelState, winnerID *int64) error {
	now := s.clock.Now()
	duel.State = state
	duel.WinnerID = winnerID
	duel.ResolvedAt = &now
	if err := s.duelRepo.Update(ctx, duel); err != nil {
		return fmt.Errorf("failed to update duel: %w", err)
	}
	return nil
}

// AcceptDuel settles a duel. The returned Duel state tells whether it resolved,
// expired before acceptance or was voided because a side could no longer cover the stake.
func (s *transferService) AcceptDuel(ctx context.Context, duelID int64, responderID int64) (*models.DuelResult, error) {
	duel, err := s.getPendingDuel(ctx, duelID, responderID)
	if err != nil {
		return nil, err
	}

	if duel.IsExpired(s.clock.Now()) {
		if err := s.closeDuel(ctx, duel, models.DuelStateExpired, nil); err != nil {
			return nil, err
		}
		return &models.DuelResult{Duel: duel}, nil
	}

	accounts := make(map[int64]*models.Account, 2)
	err = lockInOrder([]int64{duel.ChallengerID, duel.OpponentID}, func(id int64) error {
		account, err := s.accountRepo.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get duelist account: %w", err)
		}
		accounts[id] = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Time has passed since the challenge, so both stakes are checked again
	for _, account := range accounts {
		if account == nil || account.Balance < duel.Amount {
			if err := s.closeDuel(ctx, duel, models.DuelStateVoided, nil); err != nil {
				return nil, err
			}
			return &models.DuelResult{Duel: duel}, nil
		}
	}

	winnerID, loserID := duel.OpponentID, duel.ChallengerID
	if s.rewards.DuelChallengerWins() {
		winnerID, loserID = duel.ChallengerID, duel.OpponentID
	}
	winner, loser := accounts[winnerID], accounts[loserID]

	// Each side staked the amount, so the winner nets the loser's stake
	if err := s.applyDelta(ctx, loser, loser.Balance-duel.Amount, models.TransactionTypeDuelLoss, map[string]any{
		"duel_id":   duel.ID,
		"winner_id": winnerID,
	}); err != nil {
		return nil, err
	}
	if err := s.applyDelta(ctx, winner, winner.Balance+duel.Amount, models.TransactionTypeDuelWin, map[string]any{
		"duel_id":  duel.ID,
		"loser_id": loserID,
	}); err != nil {
		return nil, err
	}

	if err := s.closeDuel(ctx, duel, models.DuelStateResolved, &winnerID); err != nil {
		return nil, err
	}
	if err := s.eventPublisher.Publish(events.DuelResolvedEvent{
		DuelID:   duel.ID,
		GuildID:  duel.GuildID,
		WinnerID: winnerID,
		LoserID:  loserID,
		Amount:   duel.Amount,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish duel resolved event: %w", err)
	}

	return &models.DuelResult{
		Duel:             duel,
		WinnerID:         winnerID,
		LoserID:          loserID,
		Pot:              duel.Pot(),
		NewWinnerBalance: winner.Balance,
		NewLoserBalance:  loser.Balance,
	}, nil
}

func (s *transferService) DeclineDuel(ctx context.Context, duelID int64, responderID int64) (*models.Duel, error) {
	duel, err := s.getPendingDuel(ctx, duelID, responderID)
	if err != nil {
		return nil, err
	}
	if err := s.closeDuel(ctx, duel, models.DuelStateDeclined, nil); err != nil {
		return nil, err
	}
	return duel, nil
}

func (s *transferService) SetDuelMessage(ctx context.Context, duelID int64, messageID, channelID int64) error {
	duel, err := s.duelRepo.GetForUpdate(ctx, duelID)
	if err != nil {
		return fmt.Errorf("failed to get duel: %w", err)
	}
	if duel == nil {
		return notFound("duel", duelID)
	}
	duel.MessageID = &messageID
	duel.ChannelID = &channelID
	if err := s.duelRepo.Update(ctx, duel); err != nil {
		return fmt.Errorf("failed to update duel: %w", err)
	}
	return nil
}

// ExpireDuels closes every pending duel of the guild whose window has passed
func (s *transferService) ExpireDuels(ctx context.Context) ([]*models.Duel, error) {
	expired, err := s.duelRepo.GetExpiredPending(ctx, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to get expired duels: %w", err)
	}
	for _, duel := range expired {
		if err := s.closeDuel(ctx, duel, models.DuelStateExpired, nil); err != nil {
			return nil, err
		}
	}
	return expired, nil
}
