package activity

import (
	"context"
	"time"

	"economy/bot/common"
	"economy/models"
	"economy/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	SourceMessage = "message"
	SourceVoice   = "voice"
)

type Ledger interface {
	AwardActivity(ctx context.Context, guildID, userID int64, amount int64, source string) (*models.Account, error)
}

// Feature pays passive income for chat messages and time spent in voice
type Feature struct {
	ledger  Ledger
	rewards *service.RewardEngine
	voice   *VoiceTracker
	now     func() time.Time
}

func New(ledger Ledger, rewards *service.RewardEngine) *Feature {
	return &Feature{
		ledger:  ledger,
		rewards: rewards,
		voice:   NewVoiceTracker(),
		now:     time.Now,
	}
}

// HandleMessageCreate awards a small amount for every message sent by a member in a guild
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	guildID, err := common.ParseUserID(m.GuildID)
	if err != nil {
		return
	}
	userID, err := common.ParseUserID(m.Author.ID)
	if err != nil {
		return
	}

	f.award(guildID, userID, f.rewards.MessageActivityReward(), SourceMessage)
}

// HandleVoiceStateUpdate starts a voice session on join and pays for it on leave.
// Moving between channels keeps the session running.
func (f *Feature) HandleVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.VoiceState == nil || v.GuildID == "" {
		return
	}
	if v.Member != nil && v.Member.User != nil && v.Member.User.Bot {
		return
	}

	guildID, err := common.ParseUserID(v.GuildID)
	if err != nil {
		return
	}
	userID, err := common.ParseUserID(v.UserID)
	if err != nil {
		return
	}

	now := f.now()
	if v.ChannelID != "" {
		f.voice.Join(guildID, userID, now)
		return
	}

	spent, ok := f.voice.Leave(guildID, userID, now)
	if !ok {
		return
	}
	f.award(guildID, userID, service.VoiceActivityReward(spent), SourceVoice)
}

func (f *Feature) award(guildID, userID, amount int64, source string) {
	if amount <= 0 {
		return
	}

	if _, err := f.ledger.AwardActivity(context.Background(), guildID, userID, amount, source); err != nil {
		log.WithFields(log.Fields{
			"guild_id": guildID,
			"user_id":  userID,
			"amount":   amount,
			"source":   source,
		}).WithError(err).Warn("Failed to award activity income")
	}
}
