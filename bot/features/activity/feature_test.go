package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"economy/models"
	"economy/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) AwardActivity(ctx context.Context, guildID, userID int64, amount int64, source string) (*models.Account, error) {
	args := m.Called(guildID, userID, amount, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

var start = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestVoiceTracker(t *testing.T) {
	t.Parallel()

	tracker := NewVoiceTracker()
	tracker.Join(1, 10, start)
	// A second join while connected keeps the original start
	tracker.Join(1, 10, start.Add(time.Minute))

	spent, ok := tracker.Leave(1, 10, start.Add(95*time.Second))
	assert.True(t, ok)
	assert.Equal(t, 95*time.Second, spent)
	assert.Equal(t, 0, tracker.Active())

	_, ok = tracker.Leave(1, 10, start.Add(2*time.Minute))
	assert.False(t, ok)
}

func TestVoiceTracker_Concurrent(t *testing.T) {
	t.Parallel()

	tracker := NewVoiceTracker()
	var wg sync.WaitGroup
	for u := int64(0); u < 50; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			tracker.Join(7, userID, start)
		}(u)
	}
	wg.Wait()
	assert.Equal(t, 50, tracker.Active())
}

func voiceUpdate(channelID string) *discordgo.VoiceStateUpdate {
	return &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{GuildID: "1", UserID: "10", ChannelID: channelID},
	}
}

func TestHandleVoiceStateUpdate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stay       time.Duration
		wantAmount int64
	}{
		{name: "pays per thirty seconds", stay: 95 * time.Second, wantAmount: 3},
		{name: "short stay pays nothing", stay: 29 * time.Second, wantAmount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := new(mockLedger)
			f := New(ledger, service.NewRewardEngine(service.NewRandomSource(1), 100))
			now := start
			f.now = func() time.Time { return now }

			if tt.wantAmount > 0 {
				ledger.On("AwardActivity", int64(1), int64(10), tt.wantAmount, SourceVoice).Return(&models.Account{}, nil).Once()
			}

			f.HandleVoiceStateUpdate(nil, voiceUpdate("500"))
			now = start.Add(tt.stay / 2)
			// Switching channels keeps the session
			f.HandleVoiceStateUpdate(nil, voiceUpdate("501"))
			now = start.Add(tt.stay)
			f.HandleVoiceStateUpdate(nil, voiceUpdate(""))

			ledger.AssertExpectations(t)
			if tt.wantAmount == 0 {
				ledger.AssertNotCalled(t, "AwardActivity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandleMessageCreate(t *testing.T) {
	t.Parallel()

	ledger := new(mockLedger)
	f := New(ledger, service.NewRewardEngine(service.NewRandomSource(1), 100))

	ledger.On("AwardActivity", int64(1), int64(10), mock.MatchedBy(func(amount int64) bool {
		return amount >= service.MessageActivityMin && amount <= service.MessageActivityMax
	}), SourceMessage).Return(&models.Account{}, nil).Once()

	f.HandleMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		GuildID: "1",
		Author:  &discordgo.User{ID: "10"},
	}})
	// Bots and direct messages earn nothing
	f.HandleMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		GuildID: "1",
		Author:  &discordgo.User{ID: "11", Bot: true},
	}})
	f.HandleMessageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{
		Author: &discordgo.User{ID: "12"},
	}})

	ledger.AssertExpectations(t)
}
