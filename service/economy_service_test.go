package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"economy/events"
	"economy/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type economyFixture struct {
	service   EconomyService
	accounts  *MockAccountRepository
	history   *MockBalanceHistoryRepository
	publisher *MockEventPublisher
	clock     *FixedClock
}

func newEconomyFixture(rng RandomSource) *economyFixture {
	f := &economyFixture{
		accounts:  new(MockAccountRepository),
		history:   new(MockBalanceHistoryRepository),
		publisher: new(MockEventPublisher),
		clock:     NewFixedClock(testNow),
	}
	f.service = NewEconomyService(TestGuildID, f.accounts, f.history, f.publisher, NewRewardEngine(rng, 100), f.clock)
	return f
}

func (f *economyFixture) assertAll(t *testing.T) {
	f.accounts.AssertExpectations(t)
	f.history.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

// expectChange sets up one successful balance mutation from before to after
func (f *economyFixture) expectChange(ctx context.Context, userID, before, after int64, txType models.TransactionType) {
	f.accounts.On("SetBalance", ctx, userID, after).Return(nil).Once()
	f.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.UserID == userID &&
			h.BalanceBefore == before &&
			h.BalanceAfter == after &&
			h.ChangeAmount == after-before &&
			h.TransactionType == txType
	})).Return(nil).Once()
	f.publisher.On("Publish", events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         TestGuildID,
		OldBalance:      before,
		NewBalance:      after,
		TransactionType: txType,
		ChangeAmount:    after - before,
	}).Return(nil).Once()
}

func testAccount(userID, balance int64) *models.Account {
	a := models.NewAccount(TestGuildID, userID)
	a.Balance = balance
	return a
}

func usedAt(a *models.Account, action models.CooldownAction, at time.Time) *models.Account {
	a.SetLastUsed(action, at)
	return a
}

func TestEconomyService_GetAccount_Unseen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	f.accounts.On("Get", ctx, int64(TestUser1ID)).Return(nil, nil)

	acc, err := f.service.GetAccount(ctx, TestUser1ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Balance)
	assert.Equal(t, int64(TestGuildID), acc.GuildID)
	for _, action := range models.AllCooldownActions {
		assert.Nil(t, acc.LastUsed(action))
	}
	f.accounts.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestEconomyService_ClaimDaily_FreshAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 0), true, nil)
	f.publisher.On("Publish", events.AccountCreatedEvent{UserID: TestUser1ID, GuildID: TestGuildID}).Return(nil)
	f.expectChange(ctx, TestUser1ID, 0, 100, models.TransactionTypeDaily)
	f.accounts.On("SetCooldown", ctx, int64(TestUser1ID), models.CooldownDaily, testNow).Return(nil)

	result, err := f.service.ClaimDaily(ctx, TestUser1ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(100), result.Delta)
	assert.Equal(t, int64(100), result.NewBalance)
	assert.Equal(t, testNow.Add(24*time.Hour), result.NextAvailable)
	f.assertAll(t)
}

func TestEconomyService_ClaimDaily_OnCooldown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	existing := usedAt(testAccount(TestUser1ID, 100), models.CooldownDaily, testNow.Add(-time.Hour))
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(existing, false, nil)

	_, err := f.service.ClaimDaily(ctx, TestUser1ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOnCooldown))

	var cdErr *CooldownError
	require.True(t, errors.As(err, &cdErr))
	assert.Equal(t, models.CooldownDaily, cdErr.Action)
	assert.Equal(t, 23*time.Hour, cdErr.Remaining)

	f.accounts.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	f.accounts.AssertNotCalled(t, "SetCooldown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestEconomyService_Work(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	// Intn(151) = 100 pays 150
	f := newEconomyFixture(NewScriptedRandom().WithInts(100))

	// Other cooldowns do not block work
	existing := usedAt(testAccount(TestUser1ID, 40), models.CooldownDaily, testNow)
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(existing, false, nil)
	f.expectChange(ctx, TestUser1ID, 40, 190, models.TransactionTypeWork)
	f.accounts.On("SetCooldown", ctx, int64(TestUser1ID), models.CooldownWork, testNow).Return(nil)

	result, err := f.service.Work(ctx, TestUser1ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), result.Delta)
	assert.Equal(t, int64(190), result.NewBalance)
	assert.Equal(t, testNow.Add(2*time.Hour), result.NextAvailable)
	f.assertAll(t)
}

func TestEconomyService_Crime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     int64
		created     bool
		roll        float64
		amountInt   int
		wantSuccess bool
		wantBalance int64
		wantType    models.TransactionType
	}{
		{name: "success", balance: 100, roll: 0.2, amountInt: 300, wantSuccess: true, wantBalance: 600, wantType: models.TransactionTypeCrimeWin},
		{name: "fine on existing account", balance: 300, roll: 0.7, amountInt: 50, wantBalance: 200, wantType: models.TransactionTypeCrimeFine},
		{name: "fine floors at zero", balance: 30, roll: 0.7, amountInt: 50, wantBalance: 0, wantType: models.TransactionTypeCrimeFine},
		{name: "first use keeps debt", balance: 0, created: true, roll: 0.7, amountInt: 50, wantBalance: -100, wantType: models.TransactionTypeCrimeFine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			f := newEconomyFixture(NewScriptedRandom().WithFloats(tt.roll).WithInts(tt.amountInt))

			f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, tt.balance), tt.created, nil)
			if tt.created {
				f.publisher.On("Publish", mock.AnythingOfType("events.AccountCreatedEvent")).Return(nil)
			}
			f.expectChange(ctx, TestUser1ID, tt.balance, tt.wantBalance, tt.wantType)
			f.accounts.On("SetCooldown", ctx, int64(TestUser1ID), models.CooldownCrime, testNow).Return(nil)

			result, err := f.service.Crime(ctx, TestUser1ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantBalance, result.NewBalance)
			assert.Equal(t, tt.wantBalance-tt.balance, result.Delta)
			f.assertAll(t)
		})
	}
}

func TestEconomyService_Crime_FailureAtZeroStillSetsCooldown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom().WithFloats(0.9).WithInts(10))

	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 0), false, nil)
	f.accounts.On("SetCooldown", ctx, int64(TestUser1ID), models.CooldownCrime, testNow).Return(nil)

	result, err := f.service.Crime(ctx, TestUser1ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int64(0), result.NewBalance)
	f.accounts.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestEconomyService_Rob_Validation(t *testing.T) {
	t.Parallel()

	t.Run("self target", func(t *testing.T) {
		t.Parallel()
		f := newEconomyFixture(NewScriptedRandom())
		_, err := f.service.Rob(context.Background(), TestUser1ID, TestUser1ID)
		assert.ErrorIs(t, err, ErrSelfTarget)
		f.assertAll(t)
	})

	t.Run("target too poor", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newEconomyFixture(NewScriptedRandom())
		f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 500), false, nil)
		f.accounts.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 99), nil)

		_, err := f.service.Rob(ctx, TestUser1ID, TestUser2ID)
		assert.ErrorIs(t, err, ErrTargetTooPoor)
		f.accounts.AssertNotCalled(t, "SetCooldown", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertAll(t)
	})

	t.Run("unknown target is not created", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newEconomyFixture(NewScriptedRandom())
		f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 500), false, nil)
		f.accounts.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(nil, nil)

		_, err := f.service.Rob(ctx, TestUser1ID, TestUser2ID)
		assert.ErrorIs(t, err, ErrTargetTooPoor)
		f.accounts.AssertNotCalled(t, "GetOrCreateForUpdate", ctx, int64(TestUser2ID))
		f.assertAll(t)
	})

	t.Run("robber on cooldown", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newEconomyFixture(NewScriptedRandom())
		robber := usedAt(testAccount(TestUser1ID, 500), models.CooldownRob, testNow.Add(-5*time.Hour))
		f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(robber, false, nil)
		f.accounts.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 5000), nil)

		_, err := f.service.Rob(ctx, TestUser1ID, TestUser2ID)
		var cdErr *CooldownError
		require.ErrorAs(t, err, &cdErr)
		assert.Equal(t, time.Hour, cdErr.Remaining)
		f.assertAll(t)
	})
}

func TestEconomyService_Rob_LocksInUserOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom().WithFloats(0.1))

	var order []int64
	// Robber has the higher id, so the target row is locked first
	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 2000), nil).
		Run(func(mock.Arguments) { order = append(order, TestUser1ID) })
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 10), false, nil).
		Run(func(mock.Arguments) { order = append(order, TestUser2ID) })
	f.expectChange(ctx, TestUser1ID, 2000, 1800, models.TransactionTypeRobLoss)
	f.expectChange(ctx, TestUser2ID, 10, 210, models.TransactionTypeRobGain)
	f.accounts.On("SetCooldown", ctx, int64(TestUser2ID), models.CooldownRob, testNow).Return(nil)

	result, err := f.service.Rob(ctx, TestUser2ID, TestUser1ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{TestUser1ID, TestUser2ID}, order)
	assert.True(t, result.Success)
	assert.Equal(t, int64(200), result.Delta)
	assert.Equal(t, int64(210), result.NewBalance)
	assert.Equal(t, int64(1800), result.TargetBalance)
	f.assertAll(t)
}

func TestEconomyService_Rob_FailureBurnsPenalty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom().WithFloats(0.8))

	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 1000), false, nil)
	f.accounts.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 500), nil)
	f.expectChange(ctx, TestUser1ID, 1000, 950, models.TransactionTypeRobPenalty)
	f.accounts.On("SetCooldown", ctx, int64(TestUser1ID), models.CooldownRob, testNow).Return(nil)

	result, err := f.service.Rob(ctx, TestUser1ID, TestUser2ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int64(-50), result.Delta)
	// Target is untouched
	assert.Equal(t, int64(500), result.TargetBalance)
	f.accounts.AssertNotCalled(t, "SetBalance", ctx, int64(TestUser2ID), mock.Anything)
	f.assertAll(t)
}

func TestEconomyService_Leaderboard_DefaultsToTen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	entries := []*models.LeaderboardEntry{{Rank: 1, UserID: TestUser1ID, Balance: 900}}
	f.accounts.On("TopBalances", ctx, 10).Return(entries, nil)

	got, err := f.service.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	f.assertAll(t)
}

func TestEconomyService_History_ClampsLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	f.history.On("GetByUser", ctx, int64(TestUser1ID), MaxHistoryLimit).Return([]*models.BalanceHistory{}, nil)

	_, err := f.service.History(ctx, TestUser1ID, 500)
	require.NoError(t, err)
	f.assertAll(t)
}

func TestEconomyService_AdminCredit(t *testing.T) {
	t.Parallel()

	t.Run("zero amount", func(t *testing.T) {
		t.Parallel()
		f := newEconomyFixture(NewScriptedRandom())
		_, err := f.service.AdminCredit(context.Background(), TestUser1ID, 0, "")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("debit beyond balance", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newEconomyFixture(NewScriptedRandom())
		f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 50), false, nil)

		_, err := f.service.AdminCredit(ctx, TestUser1ID, -80, "correction")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		f.assertAll(t)
	})

	t.Run("credit", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newEconomyFixture(NewScriptedRandom())
		f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 50), false, nil)
		f.expectChange(ctx, TestUser1ID, 50, 1050, models.TransactionTypeAdminCredit)

		acc, err := f.service.AdminCredit(ctx, TestUser1ID, 1000, "event prize")
		require.NoError(t, err)
		assert.Equal(t, int64(1050), acc.Balance)
		f.assertAll(t)
	})
}

func TestEconomyService_AwardActivity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 7), false, nil)
	f.expectChange(ctx, TestUser1ID, 7, 10, models.TransactionTypeActivity)

	acc, err := f.service.AwardActivity(ctx, TestUser1ID, 3, "message")
	require.NoError(t, err)
	assert.Equal(t, int64(10), acc.Balance)

	_, err = f.service.AwardActivity(ctx, TestUser1ID, 0, "voice")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	f.assertAll(t)
}

func TestEconomyService_StorageErrorPropagates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newEconomyFixture(NewScriptedRandom())

	dbErr := errors.New("connection reset")
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 0), false, nil)
	f.accounts.On("SetBalance", ctx, int64(TestUser1ID), int64(100)).Return(dbErr)

	_, err := f.service.ClaimDaily(ctx, TestUser1ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, IsUserError(err))
	f.assertAll(t)
}
