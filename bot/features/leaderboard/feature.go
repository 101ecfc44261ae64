package leaderboard

import (
	"context"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

const historyPageSize = 10

type Ledger interface {
	Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)
	History(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// Feature handles /leaderboard and /history
type Feature struct {
	ledger   Ledger
	currency string
}

func New(ledger Ledger, currency string) *Feature {
	return &Feature{
		ledger:   ledger,
		currency: currency,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "history":
		f.handleHistory(s, i)
	}
}

func (f *Feature) handleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	limit, _ := options.Int("size")

	entries, err := f.ledger.Leaderboard(context.Background(), guildID, int(limit))
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithEmbed(s, i, buildLeaderboardEmbed(entries, f.currency), nil, false)
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	entries, err := f.ledger.History(context.Background(), guildID, userID, historyPageSize)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithEmbed(s, i, buildHistoryEmbed(entries, f.currency), nil, true)
}
