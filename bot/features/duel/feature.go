package duel

import (
	"context"
	"strings"

	"economy/models"

	"github.com/bwmarrin/discordgo"
)

const (
	componentPrefix = "duel_"
	acceptPrefix    = componentPrefix + "accept_"
	declinePrefix   = componentPrefix + "decline_"
)

// OwnsComponent reports whether a button custom id belongs to a duel message
func OwnsComponent(customID string) bool {
	return strings.HasPrefix(customID, componentPrefix)
}

type Ledger interface {
	ChallengeDuel(ctx context.Context, guildID, challengerID, opponentID, amount int64) (*models.Duel, error)
	AcceptDuel(ctx context.Context, guildID, duelID, responderID int64) (*models.DuelResult, error)
	DeclineDuel(ctx context.Context, guildID, duelID, responderID int64) (*models.Duel, error)
	SetDuelMessage(ctx context.Context, guildID, duelID, messageID, channelID int64) error
}

// Feature handles /duel and its Accept and Decline buttons
type Feature struct {
	session  *discordgo.Session
	ledger   Ledger
	currency string
}

func New(session *discordgo.Session, ledger Ledger, currency string) *Feature {
	return &Feature{
		session:  session,
		ledger:   ledger,
		currency: currency,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleChallenge(s, i)
}

func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, acceptPrefix):
		f.handleAnswer(s, i, true)
	case strings.HasPrefix(customID, declinePrefix):
		f.handleAnswer(s, i, false)
	}
}
