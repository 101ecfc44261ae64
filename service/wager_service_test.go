package service

import (
	"context"
	"testing"

	"economy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWagerFixture(rng RandomSource) (WagerService, *economyFixture) {
	f := newEconomyFixture(rng)
	return NewWagerService(f.accounts, f.history, f.publisher, NewRewardEngine(rng, 100)), f
}

func TestWagerService_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bet     int64
		game    models.GameKind
		params  models.WagerParams
		wantErr error
	}{
		{name: "zero bet", bet: 0, game: models.GameCoinflip, params: models.WagerParams{Choice: models.CoinHeads}, wantErr: ErrInvalidAmount},
		{name: "negative bet", bet: -5, game: models.GameSlots, wantErr: ErrInvalidAmount},
		{name: "bad coin side", bet: 10, game: models.GameCoinflip, params: models.WagerParams{Choice: "edge"}, wantErr: ErrInvalidChoice},
		{name: "dice guess too low", bet: 10, game: models.GameDice, params: models.WagerParams{Guess: 0}, wantErr: ErrInvalidChoice},
		{name: "dice guess too high", bet: 10, game: models.GameDice, params: models.WagerParams{Guess: 7}, wantErr: ErrInvalidChoice},
		{name: "unknown game", bet: 10, game: "roulette", wantErr: ErrInvalidChoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, f := newWagerFixture(NewScriptedRandom())
			_, err := svc.Wager(context.Background(), TestUser1ID, tt.bet, tt.game, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			// Validation happens before the account is touched
			f.accounts.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestWagerService_BetExceedsBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f := newWagerFixture(NewScriptedRandom())

	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 100), nil)

	_, err := svc.Wager(ctx, TestUser1ID, 150, models.GameCoinflip, models.WagerParams{Choice: models.CoinHeads})
	require.ErrorIs(t, err, ErrInsufficientFunds)

	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, int64(100), fundsErr.Balance)
	assert.Equal(t, int64(150), fundsErr.Needed)
	f.accounts.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestWagerService_NoAccountIsNotCreated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f := newWagerFixture(NewScriptedRandom())

	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(nil, nil)

	_, err := svc.Wager(ctx, TestUser1ID, 1, models.GameSlots, models.WagerParams{})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	f.accounts.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestWagerService_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ints        []int
		game        models.GameKind
		params      models.WagerParams
		wantWon     bool
		wantBalance int64
		wantOutcome string
	}{
		{name: "coinflip win", ints: []int{1}, game: models.GameCoinflip, params: models.WagerParams{Choice: models.CoinTails}, wantWon: true, wantBalance: 150, wantOutcome: "tails"},
		{name: "coinflip loss", ints: []int{0}, game: models.GameCoinflip, params: models.WagerParams{Choice: models.CoinTails}, wantBalance: 50, wantOutcome: "heads"},
		{name: "dice hit", ints: []int{1}, game: models.GameDice, params: models.WagerParams{Guess: 2}, wantWon: true, wantBalance: 350, wantOutcome: "2"},
		{name: "dice miss", ints: []int{4}, game: models.GameDice, params: models.WagerParams{Guess: 2}, wantBalance: 50, wantOutcome: "5"},
		{name: "slots triple", ints: []int{4, 4, 4}, game: models.GameSlots, wantWon: true, wantBalance: 600, wantOutcome: "🔔🔔🔔"},
		{name: "slots pair", ints: []int{2, 2, 3}, game: models.GameSlots, wantWon: true, wantBalance: 200, wantOutcome: "🍊🍊🍇"},
		{name: "slots miss", ints: []int{0, 2, 4}, game: models.GameSlots, wantBalance: 50, wantOutcome: "🍒🍊🔔"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			svc, f := newWagerFixture(NewScriptedRandom().WithInts(tt.ints...))

			wantType := models.TransactionTypeWagerLoss
			if tt.wantWon {
				wantType = models.TransactionTypeWagerWin
			}
			f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 100), nil)
			f.expectChange(ctx, TestUser1ID, 100, tt.wantBalance, wantType)

			result, err := svc.Wager(ctx, TestUser1ID, 50, tt.game, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWon, result.Won)
			assert.Equal(t, tt.wantBalance, result.NewBalance)
			assert.Equal(t, tt.wantBalance-100, result.Delta)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			f.assertAll(t)
		})
	}
}

func TestWagerService_AllInBetAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, f := newWagerFixture(NewScriptedRandom().WithInts(0))

	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 100), nil)
	f.expectChange(ctx, TestUser1ID, 100, 0, models.TransactionTypeWagerLoss)

	result, err := svc.Wager(ctx, TestUser1ID, 100, models.GameCoinflip, models.WagerParams{Choice: models.CoinTails})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewBalance)
	f.assertAll(t)
}
