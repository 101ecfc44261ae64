package transfer

import (
	"context"
	"fmt"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, fromID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	amount, _ := options.Int("amount")
	toID, ok := options.UserID("user")
	if !ok {
		common.HandleError(s, i, common.NewUserError("Pick who to pay.", "Missing pay recipient"), false)
		return
	}

	result, err := f.ledger.Transfer(ctx, guildID, fromID, toID, amount)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id": guildID,
		"from":     fromID,
		"to":       toID,
		"amount":   amount,
	}).Info("Transfer completed")

	common.RespondWithMessage(s, i, FormatTransferResult(result, toID, f.currency), false)
}

// FormatTransferResult formats the result of a transfer
func FormatTransferResult(result *models.TransferResult, recipientID int64, currency string) string {
	return fmt.Sprintf("✅ Sent %s to %s. Your balance: %s",
		common.FormatAmount(result.Amount, currency), common.GetUserMention(recipientID), common.FormatAmount(result.NewFromBalance, currency))
}
