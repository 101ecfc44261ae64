package economy

import (
	"fmt"
	"strings"

	"economy/bot/common"
	"economy/models"
	"economy/service"

	"github.com/bwmarrin/discordgo"
)

func buildBalanceEmbed(name string, account *models.Account, currency string) *discordgo.MessageEmbed {
	color := common.ColorPrimary
	if account.Balance < 0 {
		color = common.ColorDanger
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("💰 %s's wallet", name),
		Description: common.FormatAmount(account.Balance, currency),
		Color:       color,
	}
}

var actionTitles = map[models.CooldownAction]string{
	models.CooldownDaily: "📅 Daily reward",
	models.CooldownWork:  "🛠️ Work",
	models.CooldownCrime: "🕶️ Crime",
	models.CooldownRob:   "🥷 Robbery",
}

func buildActionEmbed(result *models.ActionResult, currency string) *discordgo.MessageEmbed {
	var desc strings.Builder
	color := common.ColorSuccess

	switch {
	case result.Action == models.CooldownRob && result.Success:
		fmt.Fprintf(&desc, "You robbed %s and got away with %s!", common.GetUserMention(result.TargetID), common.FormatAmount(result.Delta, currency))
	case result.Action == models.CooldownRob:
		color = common.ColorDanger
		if result.Delta < 0 {
			fmt.Fprintf(&desc, "You got caught robbing %s and paid a fine of %s.", common.GetUserMention(result.TargetID), common.FormatAmount(-result.Delta, currency))
		} else {
			fmt.Fprintf(&desc, "You got caught robbing %s but had nothing to pay as a fine.", common.GetUserMention(result.TargetID))
		}
	case result.Action == models.CooldownCrime && !result.Success:
		color = common.ColorDanger
		fmt.Fprintf(&desc, "The heist went wrong. You lost %s.", common.FormatAmount(-result.Delta, currency))
	case result.Action == models.CooldownCrime:
		fmt.Fprintf(&desc, "The heist paid off! You earned %s.", common.FormatAmount(result.Delta, currency))
	default:
		fmt.Fprintf(&desc, "You earned %s.", common.FormatAmount(result.Delta, currency))
	}

	fmt.Fprintf(&desc, "\nBalance: %s", common.FormatAmount(result.NewBalance, currency))
	if !result.NextAvailable.IsZero() {
		fmt.Fprintf(&desc, "\nAvailable again %s", common.FormatDiscordTimestamp(result.NextAvailable, "R"))
	}

	return &discordgo.MessageEmbed{
		Title:       actionTitles[result.Action],
		Description: desc.String(),
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s cooldown: %s", result.Action, service.FormatRemaining(service.CooldownWindow(result.Action))),
		},
	}
}
