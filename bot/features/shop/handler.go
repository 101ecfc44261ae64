package shop

import (
	"context"
	"fmt"

	"economy/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const adminOnlyMessage = "Only server administrators can manage the shop."

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	items, err := f.ledger.ListShopItems(context.Background(), guildID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithEmbed(s, i, buildShopEmbed(items, f.currency), nil, false)
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	name, _ := options.String("item")
	quantity, ok := options.Int("quantity")
	if !ok {
		quantity = 1
	}

	result, err := f.ledger.BuyShopItem(ctx, guildID, userID, name, quantity)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	// The purchase is committed; a failed role grant is reported but not undone
	message := fmt.Sprintf("Bought %dx **%s** for %s. You now own %d. Balance: %s",
		result.Quantity, result.Item.Name, common.FormatAmount(result.TotalPrice, f.currency),
		result.NewQuantity, common.FormatAmount(result.NewBalance, f.currency))
	if result.Item.RoleID != nil {
		roleID := common.FormatUserID(*result.Item.RoleID)
		if err := s.GuildMemberRoleAdd(i.GuildID, common.FormatUserID(userID), roleID); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"guild_id": guildID,
				"user_id":  userID,
				"role_id":  roleID,
			}).Warn("Failed to grant purchased role")
			message += "\n⚠️ I couldn't give you the linked role. Ask an admin to check my permissions."
		} else {
			message += fmt.Sprintf("\nYou received <@&%s>.", roleID)
		}
	}
	common.RespondWithSuccess(s, i, message, false)
}

func (f *Feature) handleInventory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, userID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	items, err := f.ledger.Inventory(context.Background(), guildID, userID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithEmbed(s, i, buildInventoryEmbed(items), nil, true)
}

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if !common.IsAdmin(i) {
		common.HandleError(s, i, common.NewUserError(adminOnlyMessage, "Non-admin tried to add a shop item"), false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	name, _ := options.String("name")
	price, _ := options.Int("price")
	var description *string
	if d, ok := options.String("description"); ok && d != "" {
		description = &d
	}
	var roleID *int64
	if id, ok := options.RoleID("role"); ok {
		roleID = &id
	}

	item, err := f.ledger.AddShopItem(context.Background(), guildID, name, price, description, roleID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Added **%s** to the shop for %s.", item.Name, common.FormatAmount(item.Price, f.currency)), false)
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if !common.IsAdmin(i) {
		common.HandleError(s, i, common.NewUserError(adminOnlyMessage, "Non-admin tried to remove a shop item"), false)
		return
	}

	_, options := common.NewOptions(i.ApplicationCommandData().Options)
	name, _ := options.String("name")

	item, err := f.ledger.RemoveShopItem(context.Background(), guildID, name)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithSuccess(s, i, fmt.Sprintf("Removed **%s** from the shop. Owned copies stay with their owners.", item.Name), false)
}
