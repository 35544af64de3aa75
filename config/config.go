package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/vi-display/asset"
	"github.com/lixenwraith/vi-display/constants"
)

// ErrInvalid marks configuration values rejected by Validate
var ErrInvalid = errors.New("invalid configuration")

// Config is the full application configuration
// It is read once at startup and treated as a read-only snapshot for the session
type Config struct {
	Display     Display     `yaml:"display"`
	Logging     Logging     `yaml:"logging"`
	Audio       Audio       `yaml:"audio"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
}

// Audio configures the scene-start chime
type Audio struct {
	Enabled bool `yaml:"enabled"`
}

// Diagnostics configures the websocket metrics feed
type Diagnostics struct {
	ListenAddr      string        `yaml:"listen_addr"` // empty disables the feed
	PublishInterval time.Duration `yaml:"publish_interval"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Display: Display{
			OverlayEnabled:     true,
			OverlayTexturePath: asset.BuiltinIntro,
			IntroFrames:        constants.IntroFrameBudget,
			TargetFPS:          constants.DefaultTargetFPS,
		},
		Logging: Logging{
			Enabled:   true,
			Dir:       "logs",
			Level:     "info",
			MaxSizeMB: 10,
			RingLines: constants.DiagLogLines,
		},
		Audio: Audio{
			Enabled: true,
		},
		Diagnostics: Diagnostics{
			PublishInterval: time.Second,
		},
	}
}

// Load reads a YAML file over the defaults
// A missing file yields the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not set
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("VI_DISPLAY_DIAG_ADDR"); addr != "" {
		c.Diagnostics.ListenAddr = addr
	}
	if dir := os.Getenv("VI_DISPLAY_LOG_DIR"); dir != "" {
		c.Logging.Dir = dir
	}
}

// Validate checks value ranges; errors wrap ErrInvalid
func (c *Config) Validate() error {
	if err := c.Display.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Diagnostics.ListenAddr != "" && c.Diagnostics.PublishInterval <= 0 {
		return fmt.Errorf("%w: diagnostics.publish_interval must be positive, got %v", ErrInvalid, c.Diagnostics.PublishInterval)
	}
	return nil
}
