package config

import (
	"fmt"

	"github.com/lixenwraith/vi-display/constants"
)

// Display configures the frame orchestrator
type Display struct {
	OverlayEnabled     bool   `yaml:"overlay_enabled"`
	OverlayTexturePath string `yaml:"overlay_texture_path"`
	IntroFrames        int    `yaml:"intro_frames"`

	ShowFPS          bool `yaml:"show_fps"`
	ShowMemory       bool `yaml:"show_memory"`
	ShowSpriteCounts bool `yaml:"show_sprite_counts"`
	DebugAll         bool `yaml:"debug_all"`
	ShowLogOverlay   bool `yaml:"show_log_overlay"`

	TargetFPS int        `yaml:"target_fps"`
	Emulator  bool       `yaml:"emulator"`
	Clear     ClearColor `yaml:"clear_color"`
}

// ClearColor holds channels in [0,1]
type ClearColor struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
	A float32 `yaml:"a"`
}

// DiagnosticsEnabled reports whether any diagnostics row is drawn
func (d Display) DiagnosticsEnabled() bool {
	return d.DebugAll || d.ShowFPS || d.ShowMemory || d.ShowSpriteCounts
}

// ShowsFPS reports whether the frame rate row is drawn
func (d Display) ShowsFPS() bool { return d.DebugAll || d.ShowFPS }

// ShowsMemory reports whether the memory row is drawn
func (d Display) ShowsMemory() bool { return d.DebugAll || d.ShowMemory }

// ShowsSprites reports whether the sprite count row is drawn
func (d Display) ShowsSprites() bool { return d.DebugAll || d.ShowSpriteCounts }

// ShowsLog reports whether buffered log lines are drawn
func (d Display) ShowsLog() bool { return d.DebugAll && d.ShowLogOverlay }

// Validate checks display value ranges
func (d Display) Validate() error {
	if d.TargetFPS <= 0 || d.TargetFPS > constants.MaxTargetFPS {
		return fmt.Errorf("%w: display.target_fps must be in 1..%d, got %d", ErrInvalid, constants.MaxTargetFPS, d.TargetFPS)
	}
	if d.IntroFrames <= 0 {
		return fmt.Errorf("%w: display.intro_frames must be positive, got %d", ErrInvalid, d.IntroFrames)
	}
	for name, v := range map[string]float32{"r": d.Clear.R, "g": d.Clear.G, "b": d.Clear.B, "a": d.Clear.A} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: display.clear_color.%s must be in [0,1], got %v", ErrInvalid, name, v)
		}
	}
	return nil
}
