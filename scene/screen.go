// Package scene hosts the screens drawn once the intro overlay is gone
package scene

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-display/render"
)

// Screen is one full-view page managed by the Controller
// All methods run on the clock goroutine
type Screen interface {
	Name() string

	// Load runs when the screen becomes current, Unload after it is replaced
	Load() error
	Unload() error

	HandleEvent(ev tcell.Event) error
	Update(elapsed time.Duration) error
	Draw(canvas render.Canvas) error
	Resize(width, height int)
}

// SpriteCounter is implemented by screens that report live sprites
type SpriteCounter interface {
	Sprites() int
}

// DebugDrawer is implemented by screens with their own debug overlay
type DebugDrawer interface {
	DrawDebug(canvas render.Canvas) error
}
