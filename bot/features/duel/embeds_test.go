package duel

import (
	"testing"
	"time"

	"economy/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuelID(t *testing.T) {
	t.Parallel()

	id, err := parseDuelID("duel_accept_42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseDuelID("duel_accept_x")
	assert.Error(t, err)
}

func TestBuildAnswerButtons(t *testing.T) {
	t.Parallel()
	components := buildAnswerButtons(7, true)

	require.Len(t, components, 1)
	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	accept := row.Components[0].(discordgo.Button)
	decline := row.Components[1].(discordgo.Button)
	assert.Equal(t, "duel_accept_7", accept.CustomID)
	assert.Equal(t, "duel_decline_7", decline.CustomID)
	assert.True(t, accept.Disabled)
	assert.True(t, decline.Disabled)
}

func TestBuildClosedEmbed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    models.DuelState
		contains string
	}{
		{models.DuelStateDeclined, "declined"},
		{models.DuelStateExpired, "expired"},
		{models.DuelStateVoided, "void"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			embed := buildClosedEmbed(&models.Duel{ID: 1, ChallengerID: 10, OpponentID: 20, Amount: 50, State: tt.state}, "coins")
			assert.Contains(t, embed.Description, tt.contains)
			assert.Contains(t, embed.Description, "No coins changed hands")
		})
	}
}

func TestBuildChallengeEmbed_ShowsPot(t *testing.T) {
	t.Parallel()
	duel := &models.Duel{ChallengerID: 10, OpponentID: 20, Amount: 250, ExpiresAt: time.Unix(1700000000, 0)}

	embed := buildChallengeEmbed(duel, "coins")

	assert.Contains(t, embed.Description, "**500 coins**")
	assert.Contains(t, embed.Description, "<t:1700000000:R>")
}
