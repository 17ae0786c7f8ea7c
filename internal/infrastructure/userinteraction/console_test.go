package userinteraction

import (
	"bytes"
	"testing"

	"brc-agent/internal/application/port/input"
	"brc-agent/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func plain(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestConsole_Settings(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewConsole(&buf).Settings(entity.Settings{
		Identity: entity.AgentIdentity{ID: "brc-1"},
		Binding:  entity.ServerBinding{Credential: "abcdef"},
	})

	assert.Equal(t, "browser_id: brc-1\n"+
		"label: "+entity.DefaultLabel+"\n"+
		"server_url: (not set)\n"+
		"api_key: **cdef\n"+
		"registered: false\n", buf.String())
}

func TestConsole_Registered(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewConsole(&buf).Registered(entity.Settings{
		Identity: entity.AgentIdentity{ID: "brc-1", Label: "Lab"},
		Binding:  entity.ServerBinding{Endpoint: "https://example.com"},
	})

	assert.Equal(t, "✓ Registered brc-1 (Lab) with https://example.com\n", buf.String())
}

func TestConsole_Cycle(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewConsole(&buf).Cycle(input.CycleStats{Fetched: 3, Executed: 2, Failed: 1})

	assert.Equal(t, "fetched=3 executed=2 failed=1\n", buf.String())
}

func TestConsole_SettingsFile(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	NewConsole(&buf).SettingsFile("/home/u/.config/brc-agent/settings.yaml")

	assert.Equal(t, "settings saved to /home/u/.config/brc-agent/settings.yaml\n", buf.String())
}
