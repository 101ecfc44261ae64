package duel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleChallenge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, challengerID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	amount, _ := options.Int("amount")
	opponentID, ok := options.UserID("user")
	if !ok {
		common.HandleError(s, i, common.NewUserError("Pick someone to duel.", "Missing duel opponent"), false)
		return
	}

	duel, err := f.ledger.ChallengeDuel(ctx, guildID, challengerID, opponentID, amount)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    common.GetUserMention(opponentID),
			Embeds:     []*discordgo.MessageEmbed{buildChallengeEmbed(duel, f.currency)},
			Components: buildAnswerButtons(duel.ID, false),
		},
	})
	if err != nil {
		log.WithError(err).WithField("duel_id", duel.ID).Error("Failed to post duel challenge")
		return
	}

	// The expiry worker edits this message later, so remember where it lives
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.WithError(err).WithField("duel_id", duel.ID).Warn("Failed to fetch duel message")
		return
	}
	messageID, errMsg := strconv.ParseInt(msg.ID, 10, 64)
	channelID, errChan := strconv.ParseInt(msg.ChannelID, 10, 64)
	if errMsg != nil || errChan != nil {
		log.WithField("duel_id", duel.ID).Warn("Duel message has invalid IDs")
		return
	}
	if err := f.ledger.SetDuelMessage(ctx, guildID, duel.ID, messageID, channelID); err != nil {
		log.WithError(err).WithField("duel_id", duel.ID).Warn("Failed to store duel message")
	}
}

func (f *Feature) handleAnswer(s *discordgo.Session, i *discordgo.InteractionCreate, accept bool) {
	ctx := context.Background()

	guildID, responderID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	duelID, err := parseDuelID(i.MessageComponentData().CustomID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Malformed duel button"), false)
		return
	}

	if !accept {
		duel, err := f.ledger.DeclineDuel(ctx, guildID, duelID, responderID)
		if err != nil {
			common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
			return
		}
		common.UpdateComponentMessage(s, i, buildClosedEmbed(duel, f.currency), buildAnswerButtons(duel.ID, true))
		return
	}

	result, err := f.ledger.AcceptDuel(ctx, guildID, duelID, responderID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	embed := buildClosedEmbed(result.Duel, f.currency)
	if result.Duel.State == models.DuelStateResolved {
		embed = buildResolvedEmbed(result, f.currency)
	}
	common.UpdateComponentMessage(s, i, embed, buildAnswerButtons(duelID, true))
}

// UpdateExpiredDuel edits a challenge message after the expiry worker closed it
func (f *Feature) UpdateExpiredDuel(duel *models.Duel) error {
	if duel.MessageID == nil || duel.ChannelID == nil {
		return nil
	}
	embeds := []*discordgo.MessageEmbed{buildClosedEmbed(duel, f.currency)}
	components := buildAnswerButtons(duel.ID, true)
	_, err := f.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         common.FormatUserID(*duel.MessageID),
		Channel:    common.FormatUserID(*duel.ChannelID),
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		return fmt.Errorf("failed to edit duel message: %w", err)
	}
	return nil
}

func parseDuelID(customID string) (int64, error) {
	idx := strings.LastIndex(customID, "_")
	if idx < 0 {
		return 0, fmt.Errorf("no duel id in %q", customID)
	}
	return strconv.ParseInt(customID[idx+1:], 10, 64)
}
