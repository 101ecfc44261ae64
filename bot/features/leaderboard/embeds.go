package leaderboard

import (
	"fmt"
	"strings"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

var medals = []string{"🥇", "🥈", "🥉"}

func rankLabel(rank int) string {
	if rank >= 1 && rank <= len(medals) {
		return medals[rank-1]
	}
	return fmt.Sprintf("`#%d`", rank)
}

func buildLeaderboardEmbed(entries []*models.LeaderboardEntry, currency string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏆 Richest Members",
		Color: common.ColorGold,
	}
	if len(entries) == 0 {
		embed.Description = "Nobody has any " + currency + " yet."
		return embed
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s %s\n", rankLabel(e.Rank), common.GetUserMention(e.UserID), common.FormatAmount(e.Balance, currency))
	}
	embed.Description = sb.String()
	return embed
}

// historyLabel renders a transaction type as words, e.g. "rob_gain" as "rob gain"
func historyLabel(t models.TransactionType) string {
	return strings.ReplaceAll(string(t), "_", " ")
}

func buildHistoryEmbed(entries []*models.BalanceHistory, currency string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Recent Transactions",
		Color: common.ColorInfo,
	}
	if len(entries) == 0 {
		embed.Description = "No transactions yet."
		return embed
	}

	var sb strings.Builder
	for _, h := range entries {
		fmt.Fprintf(&sb, "%s **%s** %s → %s\n",
			common.FormatDiscordTimestamp(h.CreatedAt, "R"),
			common.FormatDelta(h.ChangeAmount),
			historyLabel(h.TransactionType),
			common.FormatBalance(h.BalanceAfter))
	}
	embed.Description = common.Truncate(sb.String(), 4096)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Balances in " + currency}
	return embed
}
