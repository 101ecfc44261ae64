package market

import (
	"fmt"

	"economy/bot/common"
	"economy/models"

	"github.com/bwmarrin/discordgo"
)

func buildBrowseEmbed(listings []*models.MarketplaceListing, currency string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🏪 Marketplace",
		Color: common.ColorGold,
	}
	if len(listings) == 0 {
		embed.Description = "Nothing is for sale right now. Use `/market list` to sell something."
		return embed
	}

	for _, listing := range listings {
		if len(embed.Fields) == common.MaxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: fmt.Sprintf("#%d · %dx %s", listing.ID, listing.Quantity, listing.ItemName),
			Value: fmt.Sprintf("%s each, %s total\nSeller: %s",
				common.FormatAmount(listing.UnitPrice, currency),
				common.FormatAmount(listing.TotalPrice(), currency),
				common.GetUserMention(listing.SellerID)),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Buy with /market buy <id>"}
	return embed
}
