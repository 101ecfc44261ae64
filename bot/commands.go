package bot

import (
	"fmt"

	"economy/bot/features/gambling"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

var (
	adminPermission int64 = discordgo.PermissionAdministrator
	minOne                = 1.0
)

func amountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "amount",
		Description: description,
		Required:    true,
		MinValue:    &minOne,
	}
}

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    required,
	}
}

func idOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "id",
		Description: description,
		Required:    true,
		MinValue:    &minOne,
	}
}

// applicationCommands lists every slash command the bot answers
func applicationCommands(currency string) []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your balance or someone else's",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to look up (defaults to you)", false)},
		},
		{Name: "daily", Description: fmt.Sprintf("Claim your daily %s", currency)},
		{Name: "work", Description: fmt.Sprintf("Work a shift for %s", currency)},
		{Name: "crime", Description: "Commit a crime. Big rewards, bigger fines"},
		{
			Name:        "rob",
			Description: "Try to rob another member",
			Options:     []*discordgo.ApplicationCommandOption{userOption("Member to rob", true)},
		},
		{
			Name:        "pay",
			Description: fmt.Sprintf("Send %s to another member", currency),
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to pay", true),
				amountOption("Amount to send"),
			},
		},
		{
			Name:        "duel",
			Description: "Challenge a member to a coin flip for a stake",
			Options: []*discordgo.ApplicationCommandOption{
				userOption("Member to challenge", true),
				amountOption("Stake each side puts up"),
			},
		},
		{
			Name:        string(models.GameCoinflip),
			Description: "Bet on a coin flip",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to bet"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "Heads or tails",
					Required:    true,
					Choices:     gambling.GameChoices(),
				},
			},
		},
		{
			Name:        string(models.GameDice),
			Description: "Guess the roll of a six-sided die",
			Options: []*discordgo.ApplicationCommandOption{
				amountOption("Amount to bet"),
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "guess",
					Description: "Number from 1 to 6",
					Required:    true,
					MinValue:    &minOne,
					MaxValue:    6,
				},
			},
		},
		{
			Name:        string(models.GameSlots),
			Description: "Spin the slots: " + gambling.SlotsPaytable(),
			Options:     []*discordgo.ApplicationCommandOption{amountOption("Amount to bet")},
		},
		{Name: "shop", Description: "Browse the server shop"},
		{
			Name:        "buy",
			Description: "Buy an item from the shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "quantity",
					Description: "How many (defaults to 1)",
					MinValue:    &minOne,
				},
			},
		},
		{Name: "inventory", Description: "Show the items you own"},
		{
			Name:                     "additem",
			Description:              "Add an item to the shop",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Item name",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "price",
					Description: "Price per item",
					Required:    true,
					MinValue:    &minOne,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "description",
					Description: "What the item is",
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role granted on purchase",
				},
			},
		},
		{
			Name:                     "removeitem",
			Description:              "Take an item off sale",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Item name",
					Required:    true,
				},
			},
		},
		{
			Name:        "market",
			Description: "Trade items with other members",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "Put items you own up for sale",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "item",
							Description: "Item name",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "quantity",
							Description: "How many to sell",
							Required:    true,
							MinValue:    &minOne,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "price",
							Description: "Price per item",
							Required:    true,
							MinValue:    &minOne,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "browse",
					Description: "See what is for sale",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "buy",
					Description: "Buy a whole listing",
					Options:     []*discordgo.ApplicationCommandOption{idOption("Listing ID")},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel one of your listings",
					Options:     []*discordgo.ApplicationCommandOption{idOption("Listing ID")},
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the richest members",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "size",
					Description: "How many members to show (defaults to 10)",
					MinValue:    &minOne,
					MaxValue:    25,
				},
			},
		},
		{Name: "history", Description: "Show your recent transactions"},
	}
}

// registerCommands registers all slash commands with Discord, scoped to one guild when configured
func (b *Bot) registerCommands() error {
	for _, cmd := range applicationCommands(b.config.CurrencyName) {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
