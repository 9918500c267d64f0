package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firebitsbr/singularity/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "singularity.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Simulation.TPS())
	assert.Equal(t, "scenario/default.yaml", cfg.Assets.Scenario)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[window]
title = "test"

[simulation]
tick_rate = "50ms"
workers = 2

[logging]
level = "debug"
format = "json"

[debug]
overlay = true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, 1600, cfg.Window.Width, "unset keys keep their default")
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, 20, cfg.Simulation.TPS())
	assert.Equal(t, 2, cfg.Simulation.Workers)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Debug.Overlay)
	assert.True(t, cfg.Audio.Enabled)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "read config")

	_, err = config.Load(writeConfig(t, "[window\nwidth = 3"))
	assert.ErrorContains(t, err, "parse config")

	_, err = config.Load(writeConfig(t, "[simulation]\nworkers = 0\n"))
	assert.ErrorContains(t, err, "simulation.workers")

	_, err = config.Load(writeConfig(t, "[logging]\nformat = \"xml\"\n"))
	assert.ErrorContains(t, err, "logging.format")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := config.LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)

	cfg, err = config.LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)

	_, err = config.LoadOrDefault(writeConfig(t, "[window]\nwidth = -1\n"))
	assert.Error(t, err)
}

func TestSampleConfig(t *testing.T) {
	cfg, err := config.Load("singularity.toml")
	require.NoError(t, err)
	assert.Equal(t, 16*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, "", cfg.Assets.Dir)
	assert.False(t, cfg.Debug.Overlay)
}
