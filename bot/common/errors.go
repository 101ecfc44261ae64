package common

import (
	"errors"
	"fmt"

	"economy/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool
	Err         error
	Context     interface{}
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromLedgerError turns a ledger failure into the message a member should see
func FromLedgerError(err error, currency string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	var cooldown *service.CooldownError
	var funds *service.InsufficientFundsError
	var missing *service.NotFoundError

	switch {
	case errors.As(err, &cooldown):
		return wrapUser(err, fmt.Sprintf("⏳ You can use **%s** again in %s.", cooldown.Action, service.FormatRemaining(cooldown.Remaining)))
	case errors.As(err, &funds):
		return wrapUser(err, fmt.Sprintf("You need **%s %s** but only have **%s**.",
			FormatBalance(funds.Needed), currency, FormatBalance(funds.Balance)))
	case errors.As(err, &missing):
		return wrapUser(err, fmt.Sprintf("No %s called **%s** was found.", missing.Entity, missing.Key))
	case errors.Is(err, service.ErrInsufficientFunds):
		return wrapUser(err, "You don't have enough "+currency+" for that.")
	case errors.Is(err, service.ErrInvalidAmount):
		return wrapUser(err, "The amount must be a positive whole number.")
	case errors.Is(err, service.ErrSelfTransfer):
		return wrapUser(err, "You can't pay yourself.")
	case errors.Is(err, service.ErrSelfTarget):
		return wrapUser(err, "You can't target yourself.")
	case errors.Is(err, service.ErrTargetTooPoor):
		return wrapUser(err, fmt.Sprintf("That member needs at least **%s %s** to be worth robbing.", FormatBalance(service.RobMinTarget), currency))
	case errors.Is(err, service.ErrNotFound):
		return wrapUser(err, "That doesn't exist anymore.")
	case errors.Is(err, service.ErrItemExists):
		return wrapUser(err, "An item with that name is already in the shop.")
	case errors.Is(err, service.ErrInsufficientItems):
		return wrapUser(err, "You don't own enough of that item.")
	case errors.Is(err, service.ErrOwnListing):
		return wrapUser(err, "You can't buy your own listing.")
	case errors.Is(err, service.ErrNotListingOwner):
		return wrapUser(err, "Only the seller or an admin can cancel this listing.")
	case errors.Is(err, service.ErrDuelNotPending):
		return wrapUser(err, "This duel has already been settled.")
	case errors.Is(err, service.ErrNotDuelOpponent):
		return wrapUser(err, "Only the challenged member can answer this duel.")
	case errors.Is(err, service.ErrInvalidChoice), errors.Is(err, service.ErrInvalidName):
		return wrapUser(err, "That choice isn't valid.")
	case errors.Is(err, service.ErrStorageFailure):
		botErr := NewSystemError(err, "Ledger storage failure")
		botErr.UserMessage = "The bank is busy right now. Nothing was changed, please try again."
		return botErr
	default:
		return NewSystemError(err, "Unexpected ledger error")
	}
}

func wrapUser(err error, message string) *BotError {
	botErr := NewUserError(message, "Rejected ledger operation")
	botErr.Err = err
	return botErr
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and answers the interaction. User errors log at info level.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	botErr, ok := err.(*BotError)
	if !ok {
		botErr = NewSystemError(err, "Unexpected error in bot command")
	}

	entry := log.WithFields(log.Fields{
		"user_id":      InteractionUserID(i),
		"guild_id":     i.GuildID,
		"interaction":  InteractionName(i),
		"user_message": botErr.UserMessage,
		"context":      botErr.Context,
	})
	if botErr.Err != nil {
		entry = entry.WithError(botErr.Err)
	}
	if botErr.Err == nil || service.IsUserError(botErr.Err) {
		entry.Info(botErr.LogMessage)
	} else {
		entry.Error(botErr.LogMessage)
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}

// InteractionName names a command or component for logs without panicking on the wrong type
func InteractionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit:
		return i.ModalSubmitData().CustomID
	default:
		return fmt.Sprintf("interaction type %d", i.Type)
	}
}
