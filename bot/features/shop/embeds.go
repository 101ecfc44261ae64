package shop

import (
	"fmt"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

func buildShopEmbed(items []*models.ShopItem, currency string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🛒 Shop",
		Color: common.ColorPrimary,
	}
	if len(items) == 0 {
		embed.Description = "The shop is empty."
		return embed
	}

	for idx, item := range items {
		if idx == common.MaxEmbedFields {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d more items not shown", len(items)-idx)}
			break
		}
		value := common.FormatAmount(item.Price, currency)
		if item.Description != nil {
			value += "\n" + common.Truncate(*item.Description, 200)
		}
		if item.RoleID != nil {
			value += fmt.Sprintf("\nGrants <@&%d>", *item.RoleID)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  item.Name,
			Value: value,
		})
	}
	return embed
}

func buildInventoryEmbed(items []*models.InventoryItem) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎒 Inventory",
		Color: common.ColorInfo,
	}
	if len(items) == 0 {
		embed.Description = "You don't own any items yet."
		return embed
	}
	for idx, item := range items {
		if idx == common.MaxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   item.Name,
			Value:  fmt.Sprintf("x%d", item.Quantity),
			Inline: true,
		})
	}
	return embed
}
