package economy

import (
	"context"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

type timedAction func(ctx context.Context, guildID, userID int64) (*models.ActionResult, error)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	targetID := userID
	if id, ok := options.UserID("user"); ok {
		targetID = id
	}

	account, err := f.ledger.GetAccount(ctx, guildID, targetID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	name := common.GetDisplayName(s, i.GuildID, common.FormatUserID(targetID))
	common.RespondWithEmbed(s, i, buildBalanceEmbed(name, account, f.currency), nil, false)
}

func (f *Feature) handleTimedAction(s *discordgo.Session, i *discordgo.InteractionCreate, action timedAction) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	result, err := action(ctx, guildID, userID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	common.RespondWithEmbed(s, i, buildActionEmbed(result, f.currency), nil, false)
}

func (f *Feature) handleRob(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	targetID, ok := options.UserID("user")
	if !ok {
		common.HandleError(s, i, common.NewUserError("Pick someone to rob.", "Missing rob target"), false)
		return
	}

	result, err := f.ledger.Rob(ctx, guildID, userID, targetID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	common.RespondWithEmbed(s, i, buildActionEmbed(result, f.currency), nil, false)
}
