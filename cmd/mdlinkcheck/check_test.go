package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/mdlinkcheck/internal/config"
)

func TestCheckCmd_ApplyTo_FlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Roots = []string{"docs"}
	cfg.Format = "json"

	cmd := CheckCmd{
		Roots:             []string{"a", "b"},
		ShowExternalLinks: true,
		RaspiBackupDoc:    true,
		Format:            "text",
		Publish:           true,
	}
	cmd.applyTo(cfg)

	assert.Equal(t, []string{"a", "b"}, cfg.Roots)
	assert.True(t, cfg.ShowExternalLinks)
	assert.True(t, cfg.RaspiBackupDoc)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Notify.Enabled)
}

func TestCheckCmd_ApplyTo_UnsetFlagsKeepConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Roots = []string{"docs"}
	cfg.ShowExternalLinks = true
	cfg.Format = "json"

	cmd := CheckCmd{}
	cmd.applyTo(cfg)

	assert.Equal(t, []string{"docs"}, cfg.Roots)
	assert.True(t, cfg.ShowExternalLinks)
	assert.Equal(t, "json", cfg.Format)
	assert.False(t, cfg.Notify.Enabled)
}

func TestWatchCmd_ApplyTo(t *testing.T) {
	cfg := config.Default()

	cmd := WatchCmd{
		Roots:          []string{"site"},
		RescanInterval: "5m",
		MetricsListen:  ":9090",
	}
	cmd.applyTo(cfg)

	assert.Equal(t, []string{"site"}, cfg.Roots)
	assert.Equal(t, "5m", cfg.Watch.RescanInterval)
	assert.Equal(t, ":9090", cfg.Watch.MetricsListen)
}
