package cmd

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	defer SetupLogging("info", "text")

	tests := []struct {
		name        string
		level       string
		format      string
		wantLevel   log.Level
		wantJSONFmt bool
	}{
		{name: "debug json", level: "debug", format: "json", wantLevel: log.DebugLevel, wantJSONFmt: true},
		{name: "warn text", level: "warn", format: "text", wantLevel: log.WarnLevel},
		{name: "unknown level", level: "loud", format: "", wantLevel: log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetupLogging(tt.level, tt.format)

			assert.Equal(t, tt.wantLevel, log.GetLevel())
			_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
			assert.Equal(t, tt.wantJSONFmt, isJSON)
		})
	}
}
