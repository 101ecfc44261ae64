package economy

import (
	"testing"

	"economy/bot/common"
	"economy/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildActionEmbed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   *models.ActionResult
		contains []string
		color    int
	}{
		{
			name:     "daily",
			result:   &models.ActionResult{Action: models.CooldownDaily, Success: true, Delta: 100, NewBalance: 100},
			contains: []string{"earned **100 coins**", "Balance: **100 coins**"},
			color:    common.ColorSuccess,
		},
		{
			name:     "failed crime on first use leaves debt",
			result:   &models.ActionResult{Action: models.CooldownCrime, Success: false, Delta: -120, NewBalance: -120},
			contains: []string{"lost **120 coins**", "Balance: **-120 coins**"},
			color:    common.ColorDanger,
		},
		{
			name:     "successful rob mentions target",
			result:   &models.ActionResult{Action: models.CooldownRob, Success: true, Delta: 50, NewBalance: 550, TargetID: 77},
			contains: []string{"<@77>", "**50 coins**"},
			color:    common.ColorSuccess,
		},
		{
			name:     "failed rob from an empty wallet",
			result:   &models.ActionResult{Action: models.CooldownRob, Success: false, Delta: 0, TargetID: 77},
			contains: []string{"nothing to pay"},
			color:    common.ColorDanger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			embed := buildActionEmbed(tt.result, "coins")

			for _, want := range tt.contains {
				assert.Contains(t, embed.Description, want)
			}
			assert.Equal(t, tt.color, embed.Color)
			assert.NotEmpty(t, embed.Title)
		})
	}
}

func TestBuildBalanceEmbed_NegativeIsRed(t *testing.T) {
	t.Parallel()
	embed := buildBalanceEmbed("alice", &models.Account{Balance: -30}, "coins")

	assert.Equal(t, common.ColorDanger, embed.Color)
	assert.Equal(t, "**-30 coins**", embed.Description)
}
