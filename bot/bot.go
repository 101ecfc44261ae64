package bot

import (
	"context"
	"fmt"

	"economy/application"
	"economy/bot/common"
	"economy/bot/features/activity"
	"economy/bot/features/duel"
	"economy/bot/features/economy"
	"economy/bot/features/gambling"
	"economy/bot/features/leaderboard"
	"economy/bot/features/market"
	"economy/bot/features/shop"
	"economy/bot/features/transfer"
	"economy/models"
	"economy/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token         string
	GuildID       string
	CurrencyName  string
	PassiveIncome bool
}

type Bot struct {
	config  Config
	session *discordgo.Session
	ledger  *application.Ledger

	economy     *economy.Feature
	gambling    *gambling.Feature
	transfer    *transfer.Feature
	duel        *duel.Feature
	shop        *shop.Feature
	market      *market.Feature
	leaderboard *leaderboard.Feature
	activity    *activity.Feature

	stopDuelWorker func()
}

func New(config Config, ledger *application.Ledger, rewards *service.RewardEngine) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildVoiceStates

	currency := config.CurrencyName
	bot := &Bot{
		config:      config,
		session:     dg,
		ledger:      ledger,
		economy:     economy.New(ledger, currency),
		gambling:    gambling.New(ledger, currency),
		transfer:    transfer.New(ledger, currency),
		duel:        duel.New(dg, ledger, currency),
		shop:        shop.New(ledger, currency),
		market:      market.New(ledger, currency),
		leaderboard: leaderboard.New(ledger, currency),
		activity:    activity.New(ledger, rewards),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponents)
	if config.PassiveIncome {
		dg.AddHandler(bot.activity.HandleMessageCreate)
		dg.AddHandler(bot.activity.HandleVoiceStateUpdate)
		log.Info("Passive income for messages and voice enabled")
	}

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.stopDuelWorker = bot.StartDuelExpirationWorker(context.Background())

	return bot, nil
}

func (b *Bot) Close() error {
	if b.stopDuelWorker != nil {
		b.stopDuelWorker()
	}
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	switch name {
	case "balance", "daily", "work", "crime", "rob":
		b.economy.HandleCommand(s, i)
	case string(models.GameCoinflip), string(models.GameDice), string(models.GameSlots):
		b.gambling.HandleCommand(s, i)
	case "pay":
		b.transfer.HandleCommand(s, i)
	case "duel":
		b.duel.HandleCommand(s, i)
	case "shop", "buy", "inventory", "additem", "removeitem":
		b.shop.HandleCommand(s, i)
	case "market":
		b.market.HandleCommand(s, i)
	case "leaderboard", "history":
		b.leaderboard.HandleCommand(s, i)
	default:
		log.WithField("command", name).Warn("Unknown command")
		common.RespondWithError(s, i, "Unknown command.")
	}
}

func (b *Bot) handleComponents(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	if duel.OwnsComponent(i.MessageComponentData().CustomID) {
		b.duel.HandleInteraction(s, i)
	}
}
