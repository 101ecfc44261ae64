package duel

import (
	"fmt"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

func buildChallengeEmbed(duel *models.Duel, currency string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚔️ Duel challenge",
		Description: fmt.Sprintf("%s challenges %s for %s each.\nThe winner takes the pot of %s.\nExpires %s",
			common.GetUserMention(duel.ChallengerID),
			common.GetUserMention(duel.OpponentID),
			common.FormatAmount(duel.Amount, currency),
			common.FormatAmount(duel.Pot(), currency),
			common.FormatDiscordTimestamp(duel.ExpiresAt, "R"),
		),
		Color: common.ColorWarning,
	}
}

func buildResolvedEmbed(result *models.DuelResult, currency string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "⚔️ Duel settled",
		Description: fmt.Sprintf("%s defeated %s and won %s!",
			common.GetUserMention(result.WinnerID),
			common.GetUserMention(result.LoserID),
			common.FormatAmount(result.Duel.Amount, currency),
		),
		Color: common.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Winner balance", Value: common.FormatAmount(result.NewWinnerBalance, currency), Inline: true},
			{Name: "Loser balance", Value: common.FormatAmount(result.NewLoserBalance, currency), Inline: true},
		},
	}
}

// buildClosedEmbed covers every way a duel ends without a winner
func buildClosedEmbed(duel *models.Duel, currency string) *discordgo.MessageEmbed {
	var reason string
	switch duel.State {
	case models.DuelStateDeclined:
		reason = fmt.Sprintf("%s declined the duel.", common.GetUserMention(duel.OpponentID))
	case models.DuelStateExpired:
		reason = fmt.Sprintf("%s never answered. The challenge expired.", common.GetUserMention(duel.OpponentID))
	case models.DuelStateVoided:
		reason = fmt.Sprintf("One side can no longer cover %s. The duel is void.", common.FormatAmount(duel.Amount, currency))
	default:
		reason = "The duel is closed."
	}
	return &discordgo.MessageEmbed{
		Title:       "⚔️ Duel closed",
		Description: reason + "\nNo " + currency + " changed hands.",
		Color:       common.ColorDanger,
	}
}

func buildAnswerButtons(duelID int64, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "✅ Accept",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("%s%d", acceptPrefix, duelID),
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "❌ Decline",
					Style:    discordgo.DangerButton,
					CustomID: fmt.Sprintf("%s%d", declinePrefix, duelID),
					Disabled: disabled,
				},
			},
		},
	}
}
