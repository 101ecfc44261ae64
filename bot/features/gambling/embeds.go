package gambling

import (
	"fmt"
	"strings"

	"economy/bot/common"
	"economy/models"
	"economy/service"

	"github.com/bwmarrin/discordgo"
)

func buildResultEmbed(result *models.WagerResult, currency string) *discordgo.MessageEmbed {
	var desc strings.Builder

	switch result.Game {
	case models.GameCoinflip:
		fmt.Fprintf(&desc, "The coin landed on **%s**.\n", result.Outcome)
	case models.GameDice:
		fmt.Fprintf(&desc, "🎲 The die rolled **%s**.\n", result.Outcome)
	case models.GameSlots:
		fmt.Fprintf(&desc, "[ %s ]\n", strings.Join(result.Symbols, " | "))
	}

	embed := &discordgo.MessageEmbed{
		Title: gameTitle(result.Game),
	}
	if result.Won {
		embed.Color = common.ColorSuccess
		fmt.Fprintf(&desc, "🎉 You won %s", common.FormatAmount(result.Delta, currency))
		if mult := payoutMultiplier(result); mult > 1 {
			fmt.Fprintf(&desc, " (%dx)", mult)
		}
		desc.WriteString("!")
	} else {
		embed.Color = common.ColorDanger
		fmt.Fprintf(&desc, "😔 You lost %s.", common.FormatAmount(result.Bet, currency))
	}
	fmt.Fprintf(&desc, "\nBalance: %s", common.FormatAmount(result.NewBalance, currency))

	embed.Description = desc.String()
	return embed
}

func gameTitle(game models.GameKind) string {
	switch game {
	case models.GameCoinflip:
		return "🪙 Coinflip"
	case models.GameDice:
		return "🎲 Dice"
	case models.GameSlots:
		return "🎰 Slots"
	default:
		return string(game)
	}
}

func payoutMultiplier(result *models.WagerResult) int64 {
	if result.Bet <= 0 {
		return 0
	}
	return result.Delta / result.Bet
}

// GameChoices lists the options offered for /coinflip side
func GameChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Heads", Value: string(models.CoinHeads)},
		{Name: "Tails", Value: string(models.CoinTails)},
	}
}

// SlotsPaytable describes the slot payouts for the command help
func SlotsPaytable() string {
	return fmt.Sprintf("three of a kind pays %dx, any pair pays %dx", service.SlotsTripleMultiplier, service.SlotsPairMultiplier)
}
