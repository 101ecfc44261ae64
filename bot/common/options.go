package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Options indexes slash command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptions indexes the given options, descending into a single subcommand when present
func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) (sub string, options Options) {
	if len(opts) == 1 && (opts[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
		opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		sub = opts[0].Name
		opts = opts[0].Options
	}
	options = make(Options, len(opts))
	for _, opt := range opts {
		options[opt.Name] = opt
	}
	return sub, options
}

func (o Options) Int(name string) (int64, bool) {
	opt, ok := o[name]
	if !ok {
		return 0, false
	}
	return opt.IntValue(), true
}

func (o Options) String(name string) (string, bool) {
	opt, ok := o[name]
	if !ok {
		return "", false
	}
	return opt.StringValue(), true
}

// UserID returns the snowflake of a user option without a session lookup
func (o Options) UserID(name string) (int64, bool) {
	opt, ok := o[name]
	if !ok {
		return 0, false
	}
	raw, ok := opt.Value.(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// RoleID returns the snowflake of a role option
func (o Options) RoleID(name string) (int64, bool) {
	return o.UserID(name)
}
