package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window     WindowConfig     `toml:"window"`
	Simulation SimulationConfig `toml:"simulation"`
	Assets     AssetsConfig     `toml:"assets"`
	Audio      AudioConfig      `toml:"audio"`
	Logging    LoggingConfig    `toml:"logging"`
	Debug      DebugConfig      `toml:"debug"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type SimulationConfig struct {
	TickRate time.Duration `toml:"tick_rate"`
	Workers  int           `toml:"workers"` // systems of one stage run on up to this many goroutines
}

type AssetsConfig struct {
	Dir      string `toml:"dir"` // empty means the embedded assets
	Scenario string `toml:"scenario"`
}

type AudioConfig struct {
	Enabled    bool `toml:"enabled"`
	SampleRate int  `toml:"sample_rate"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Overlay bool `toml:"overlay"`
}

// Load decodes the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path is empty
// or does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Validate rejects values the runtime cannot work with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate %s must be positive", c.Simulation.TickRate)
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation.workers %d must be at least 1", c.Simulation.Workers)
	}
	if c.Assets.Scenario == "" {
		return errors.New("assets.scenario must be set")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

// TPS returns the tick rate as ticks per second.
func (s SimulationConfig) TPS() int {
	return max(int(time.Second/s.TickRate), 1)
}

func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1600,
			Height: 900,
			Title:  "singularity",
		},
		Simulation: SimulationConfig{
			TickRate: time.Second / 60,
			Workers:  4,
		},
		Assets: AssetsConfig{
			Scenario: "scenario/default.yaml",
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
