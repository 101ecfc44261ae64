package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationCommands(t *testing.T) {
	t.Parallel()

	commands := applicationCommands("coins")
	seen := make(map[string]bool)
	for _, cmd := range commands {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true
		// Discord rejects longer descriptions
		assert.LessOrEqual(t, len(cmd.Description), 100, cmd.Name)
		assert.NotEmpty(t, cmd.Description, cmd.Name)
	}

	for _, name := range []string{
		"balance", "daily", "work", "crime", "rob", "pay", "duel",
		"coinflip", "dice", "slots", "shop", "buy", "inventory",
		"additem", "removeitem", "market", "leaderboard", "history",
	} {
		assert.True(t, seen[name], "missing command %s", name)
	}
}

func TestApplicationCommands_AdminOnly(t *testing.T) {
	t.Parallel()

	for _, cmd := range applicationCommands("coins") {
		switch cmd.Name {
		case "additem", "removeitem":
			require.NotNil(t, cmd.DefaultMemberPermissions, cmd.Name)
			assert.Equal(t, int64(discordgo.PermissionAdministrator), *cmd.DefaultMemberPermissions)
		default:
			assert.Nil(t, cmd.DefaultMemberPermissions, cmd.Name)
		}
	}
}

func TestApplicationCommands_MarketSubcommands(t *testing.T) {
	t.Parallel()

	var market *discordgo.ApplicationCommand
	for _, cmd := range applicationCommands("coins") {
		if cmd.Name == "market" {
			market = cmd
		}
	}
	require.NotNil(t, market)

	var subs []string
	for _, opt := range market.Options {
		assert.Equal(t, discordgo.ApplicationCommandOptionSubCommand, opt.Type)
		subs = append(subs, opt.Name)
	}
	assert.Equal(t, []string{"list", "browse", "buy", "cancel"}, subs)
}
