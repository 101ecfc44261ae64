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

type transferFixture struct {
	*economyFixture
	service TransferService
	duels   *MockDuelRepository
}

func newTransferFixture(rng RandomSource) *transferFixture {
	f := newEconomyFixture(rng)
	duels := new(MockDuelRepository)
	svc := NewTransferService(TestGuildID, f.accounts, f.history, duels, f.publisher, NewRewardEngine(rng, 100), f.clock, time.Minute)
	return &transferFixture{economyFixture: f, service: svc, duels: duels}
}

func (f *transferFixture) assertAll(t *testing.T) {
	f.economyFixture.assertAll(t)
	f.duels.AssertExpectations(t)
}

func pendingDuel(amount int64) *models.Duel {
	return &models.Duel{
		ID:           TestDuelID,
		GuildID:      TestGuildID,
		ChallengerID: TestUser1ID,
		OpponentID:   TestUser2ID,
		Amount:       amount,
		State:        models.DuelStatePending,
		CreatedAt:    testNow.Add(-10 * time.Second),
		ExpiresAt:    testNow.Add(50 * time.Second),
	}
}

func TestTransferService_Transfer_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    int64
		to      int64
		amount  int64
		wantErr error
	}{
		{name: "zero amount", from: TestUser1ID, to: TestUser2ID, amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative amount", from: TestUser1ID, to: TestUser2ID, amount: -10, wantErr: ErrInvalidAmount},
		{name: "self transfer", from: TestUser1ID, to: TestUser1ID, amount: 10, wantErr: ErrSelfTransfer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newTransferFixture(NewScriptedRandom())
			_, err := f.service.Transfer(context.Background(), tt.from, tt.to, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
			f.assertAll(t)
		})
	}
}

func TestTransferService_Transfer_FullBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 500), nil)
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 20), false, nil)
	f.expectChange(ctx, TestUser1ID, 500, 0, models.TransactionTypeTransferOut)
	f.expectChange(ctx, TestUser2ID, 20, 520, models.TransactionTypeTransferIn)

	result, err := f.service.Transfer(ctx, TestUser1ID, TestUser2ID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.NewFromBalance)
	assert.Equal(t, int64(520), result.NewToBalance)
	// Conservation
	assert.Equal(t, int64(520), result.NewFromBalance+result.NewToBalance)
	f.assertAll(t)
}

func TestTransferService_Transfer_CreatesRecipient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 50), nil)
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser3ID)).Return(testAccount(TestUser3ID, 0), true, nil)
	f.publisher.On("Publish", events.AccountCreatedEvent{UserID: TestUser3ID, GuildID: TestGuildID}).Return(nil)
	f.expectChange(ctx, TestUser1ID, 50, 40, models.TransactionTypeTransferOut)
	f.expectChange(ctx, TestUser3ID, 0, 10, models.TransactionTypeTransferIn)

	_, err := f.service.Transfer(ctx, TestUser1ID, TestUser3ID, 10)
	require.NoError(t, err)
	f.assertAll(t)
}

func TestTransferService_Transfer_InsufficientFunds(t *testing.T) {
	t.Parallel()

	for _, sender := range []*models.Account{nil, testAccount(TestUser1ID, 99)} {
		ctx := context.Background()
		f := newTransferFixture(NewScriptedRandom())
		f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(sender, nil)
		f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 0), false, nil)

		_, err := f.service.Transfer(ctx, TestUser1ID, TestUser2ID, 100)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		f.accounts.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
		f.assertAll(t)
	}
}

func TestTransferService_Transfer_LocksAscending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	var order []int64
	f.accounts.On("GetOrCreateForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 0), false, nil).
		Run(func(mock.Arguments) { order = append(order, TestUser1ID) })
	f.accounts.On("GetForUpdate", ctx, int64(TestUser3ID)).Return(testAccount(TestUser3ID, 30), nil).
		Run(func(mock.Arguments) { order = append(order, TestUser3ID) })
	f.expectChange(ctx, TestUser3ID, 30, 0, models.TransactionTypeTransferOut)
	f.expectChange(ctx, TestUser1ID, 0, 30, models.TransactionTypeTransferIn)

	_, err := f.service.Transfer(ctx, TestUser3ID, TestUser1ID, 30)
	require.NoError(t, err)
	assert.Equal(t, []int64{TestUser1ID, TestUser3ID}, order)
	f.assertAll(t)
}

func TestTransferService_ChallengeDuel(t *testing.T) {
	t.Parallel()

	t.Run("creates pending duel", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newTransferFixture(NewScriptedRandom())
		f.accounts.On("Get", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 100), nil)
		f.accounts.On("Get", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 100), nil)
		f.duels.On("Create", ctx, mock.MatchedBy(func(d *models.Duel) bool {
			return d.ChallengerID == TestUser1ID &&
				d.OpponentID == TestUser2ID &&
				d.Amount == 100 &&
				d.State == models.DuelStatePending &&
				d.ExpiresAt.Equal(testNow.Add(time.Minute))
		})).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Duel).ID = TestDuelID
		})

		duel, err := f.service.ChallengeDuel(ctx, TestUser1ID, TestUser2ID, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(TestDuelID), duel.ID)
		f.assertAll(t)
	})

	t.Run("opponent cannot cover", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newTransferFixture(NewScriptedRandom())
		f.accounts.On("Get", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 100), nil)
		f.accounts.On("Get", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 10), nil)

		_, err := f.service.ChallengeDuel(ctx, TestUser1ID, TestUser2ID, 100)
		var fundsErr *InsufficientFundsError
		require.ErrorAs(t, err, &fundsErr)
		assert.Equal(t, int64(TestUser2ID), fundsErr.UserID)
		f.duels.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.assertAll(t)
	})

	t.Run("self duel", func(t *testing.T) {
		t.Parallel()
		f := newTransferFixture(NewScriptedRandom())
		_, err := f.service.ChallengeDuel(context.Background(), TestUser1ID, TestUser1ID, 100)
		assert.ErrorIs(t, err, ErrSelfTransfer)
	})
}

func TestTransferService_AcceptDuel_Resolves(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		coin       int
		wantWinner int64
		wantLoser  int64
	}{
		{name: "challenger wins", coin: 0, wantWinner: TestUser1ID, wantLoser: TestUser2ID},
		{name: "opponent wins", coin: 1, wantWinner: TestUser2ID, wantLoser: TestUser1ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			f := newTransferFixture(NewScriptedRandom().WithInts(tt.coin))

			f.duels.On("GetForUpdate", ctx, int64(TestDuelID)).Return(pendingDuel(100), nil)
			f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 300), nil)
			f.accounts.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 300), nil)
			f.expectChange(ctx, tt.wantLoser, 300, 200, models.TransactionTypeDuelLoss)
			f.expectChange(ctx, tt.wantWinner, 300, 400, models.TransactionTypeDuelWin)
			f.duels.On("Update", ctx, mock.MatchedBy(func(d *models.Duel) bool {
				return d.State == models.DuelStateResolved && d.WinnerID != nil && *d.WinnerID == tt.wantWinner
			})).Return(nil)
			f.publisher.On("Publish", events.DuelResolvedEvent{
				DuelID:   TestDuelID,
				GuildID:  TestGuildID,
				WinnerID: tt.wantWinner,
				LoserID:  tt.wantLoser,
				Amount:   100,
			}).Return(nil)

			result, err := f.service.AcceptDuel(ctx, TestDuelID, TestUser2ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWinner, result.WinnerID)
			assert.Equal(t, int64(200), result.Pot)
			assert.Equal(t, int64(400), result.NewWinnerBalance)
			assert.Equal(t, int64(200), result.NewLoserBalance)
			// The duel conserves currency
			assert.Equal(t, int64(600), result.NewWinnerBalance+result.NewLoserBalance)
			f.assertAll(t)
		})
	}
}

func TestTransferService_AcceptDuel_VoidedWhenStakeGone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	f.duels.On("GetForUpdate", ctx, int64(TestDuelID)).Return(pendingDuel(100), nil)
	f.accounts.On("GetForUpdate", ctx, int64(TestUser1ID)).Return(testAccount(TestUser1ID, 40), nil)
	f.accounts.On("GetForUpdate", ctx, int64(TestUser2ID)).Return(testAccount(TestUser2ID, 300), nil)
	f.duels.On("Update", ctx, mock.MatchedBy(func(d *models.Duel) bool {
		return d.State == models.DuelStateVoided && d.WinnerID == nil
	})).Return(nil)

	result, err := f.service.AcceptDuel(ctx, TestDuelID, TestUser2ID)
	require.NoError(t, err)
	assert.Equal(t, models.DuelStateVoided, result.Duel.State)
	f.accounts.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestTransferService_AcceptDuel_Rejections(t *testing.T) {
	t.Parallel()

	resolved := pendingDuel(100)
	resolved.State = models.DuelStateResolved

	tests := []struct {
		name      string
		duel      *models.Duel
		responder int64
		wantErr   error
	}{
		{name: "missing duel", duel: nil, responder: TestUser2ID, wantErr: ErrNotFound},
		{name: "challenger cannot accept", duel: pendingDuel(100), responder: TestUser1ID, wantErr: ErrNotDuelOpponent},
		{name: "bystander cannot accept", duel: pendingDuel(100), responder: TestUser3ID, wantErr: ErrNotDuelOpponent},
		{name: "already resolved", duel: resolved, responder: TestUser2ID, wantErr: ErrDuelNotPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			f := newTransferFixture(NewScriptedRandom())
			f.duels.On("GetForUpdate", ctx, int64(TestDuelID)).Return(tt.duel, nil)

			_, err := f.service.AcceptDuel(ctx, TestDuelID, tt.responder)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			f.assertAll(t)
		})
	}
}

func TestTransferService_AcceptDuel_Expired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	duel := pendingDuel(100)
	duel.ExpiresAt = testNow.Add(-time.Second)
	f.duels.On("GetForUpdate", ctx, int64(TestDuelID)).Return(duel, nil)
	f.duels.On("Update", ctx, mock.MatchedBy(func(d *models.Duel) bool {
		return d.State == models.DuelStateExpired
	})).Return(nil)

	result, err := f.service.AcceptDuel(ctx, TestDuelID, TestUser2ID)
	require.NoError(t, err)
	assert.Equal(t, models.DuelStateExpired, result.Duel.State)
	f.accounts.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestTransferService_DeclineDuel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	f.duels.On("GetForUpdate", ctx, int64(TestDuelID)).Return(pendingDuel(100), nil)
	f.duels.On("Update", ctx, mock.MatchedBy(func(d *models.Duel) bool {
		return d.State == models.DuelStateDeclined && d.ResolvedAt != nil
	})).Return(nil)

	duel, err := f.service.DeclineDuel(ctx, TestDuelID, TestUser2ID)
	require.NoError(t, err)
	assert.Equal(t, models.DuelStateDeclined, duel.State)
	f.assertAll(t)
}

func TestTransferService_ExpireDuels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	first, second := pendingDuel(10), pendingDuel(20)
	second.ID = TestDuelID + 1
	f.duels.On("GetExpiredPending", ctx, testNow).Return([]*models.Duel{first, second}, nil)
	f.duels.On("Update", ctx, mock.AnythingOfType("*models.Duel")).Return(nil).Twice()

	expired, err := f.service.ExpireDuels(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	for _, d := range expired {
		assert.Equal(t, models.DuelStateExpired, d.State)
	}
	f.assertAll(t)
}

func TestTransferService_SetDuelMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newTransferFixture(NewScriptedRandom())

	f.duels.On("GetForUpdate", ctx, int64(TestDuelID)).Return(pendingDuel(100), nil)
	f.duels.On("Update", ctx, mock.MatchedBy(func(d *models.Duel) bool {
		return d.MessageID != nil && *d.MessageID == 555 && d.ChannelID != nil && *d.ChannelID == 777
	})).Return(nil)

	require.NoError(t, f.service.SetDuelMessage(ctx, TestDuelID, 555, 777))
	f.assertAll(t)
}
