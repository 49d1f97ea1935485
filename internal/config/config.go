package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config contains the settings shared by the viewer and the headless runner.
type Config struct {
	Title       string          `yaml:"title"`        // window title
	Scale       int             `yaml:"scale"`        // integer upscaling factor
	Frames      int             `yaml:"frames"`       // frames to run headless
	ScrollSpeed int             `yaml:"scroll_speed"` // demo camera speed in pixels per frame
	Sprites     int             `yaml:"sprites"`      // demo sprite count
	Seed        int64           `yaml:"seed"`         // demo random seed
	Inspector   InspectorConfig `yaml:"inspector"`
	LogLevel    string          `yaml:"log_level"` // debug, info, warn, error
}

// InspectorConfig selects the debug views drawn next to the preview.
type InspectorConfig struct {
	Tiles        bool `yaml:"tiles"`
	Palettes     bool `yaml:"palettes"`
	Screenblocks bool `yaml:"screenblocks"`
	Preview      bool `yaml:"preview"`
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbavram"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.Frames <= 0 {
		c.Frames = 600
	}
	if c.ScrollSpeed == 0 {
		c.ScrollSpeed = 2
	}
	if c.Sprites <= 0 {
		c.Sprites = 24
	}
	if c.Sprites > 128 {
		c.Sprites = 128
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	// nothing selected means the preview only
	in := &c.Inspector
	if !in.Tiles && !in.Palettes && !in.Screenblocks && !in.Preview {
		in.Preview = true
	}
}

// Load reads a YAML config from path and applies defaults. An empty path
// returns the defaults alone.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.Defaults()
	return &cfg, nil
}
