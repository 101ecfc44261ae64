package market

import (
	"context"
	"fmt"

	"economy/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	guildID, sellerID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	item, _ := options.String("item")
	quantity, _ := options.Int("quantity")
	price, _ := options.Int("price")

	listing, err := f.ledger.ListOnMarket(context.Background(), guildID, sellerID, item, quantity, price)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Listed %dx **%s** at %s each (listing #%d). The items are held until the listing sells or you cancel it.",
		listing.Quantity, listing.ItemName, common.FormatAmount(listing.UnitPrice, f.currency), listing.ID), false)
}

func (f *Feature) handleBrowse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	guildID, _, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	listings, err := f.ledger.BrowseMarket(context.Background(), guildID, browseLimit)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}
	common.RespondWithEmbed(s, i, buildBrowseEmbed(listings, f.currency), nil, false)
}

func (f *Feature) handleBuy(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	guildID, buyerID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	listingID, _ := options.Int("id")
	result, err := f.ledger.BuyListing(context.Background(), guildID, buyerID, listingID)
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":   guildID,
		"listing_id": listingID,
		"buyer_id":   buyerID,
		"seller_id":  result.Listing.SellerID,
		"total":      result.TotalPrice,
	}).Info("Marketplace trade completed")

	common.RespondWithSuccess(s, i, fmt.Sprintf("Bought %dx **%s** from %s for %s. Balance: %s",
		result.Listing.Quantity, result.Listing.ItemName, common.GetUserMention(result.Listing.SellerID),
		common.FormatAmount(result.TotalPrice, f.currency), common.FormatAmount(result.NewBuyerBalance, f.currency)), false)
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, options common.Options) {
	guildID, actorID, err := common.InteractionIDs(i)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	listingID, _ := options.Int("id")
	listing, err := f.ledger.CancelListing(context.Background(), guildID, actorID, listingID, common.IsAdmin(i))
	if err != nil {
		common.HandleError(s, i, common.FromLedgerError(err, f.currency), false)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Cancelled listing #%d. %dx **%s** went back to %s.",
		listing.ID, listing.Quantity, listing.ItemName, common.GetUserMention(listing.SellerID)), true)
}
