package display

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/vi-display/render"
	"github.com/lixenwraith/vi-display/status"
)

// SceneController is the application scene driven by the orchestrator
// All methods are called on the clock goroutine
type SceneController interface {
	// Start runs once, on the tick the intro finishes or at construction without an intro
	Start()
	// IsFrameDue reports whether the running phase should draw this tick
	IsFrameDue() bool

	Load() error
	Dispatch() error
	AdvanceTimers(elapsed time.Duration) error
	Draw(canvas render.Canvas) error
	DrawDebugOverlay(canvas render.Canvas) error
	Unload() error

	// ResetInputState runs after every running frame, including failed ones
	ResetInputState()
	Resize(width, height int)
}

// EmulatorDrawer is implemented by scenes with a virtual input overlay
// It draws after the diagnostics rows when the emulator is enabled
type EmulatorDrawer interface {
	DrawEmulator(canvas render.Canvas) error
}

// Ticker runs timed background processes
type Ticker interface {
	Tick(elapsed time.Duration)
}

// Advancer updates tweens and actions
type Advancer interface {
	Advance(elapsed time.Duration)
}

// Texture is a lazily loaded image owned by the intro overlay
type Texture interface {
	render.Image
	Load() error
	Loaded() bool
	Disposed() bool
	Close() error
}

// Font draws diagnostics text
type Font interface {
	DrawString(target render.Canvas, text string, x, y int, fg render.RGB)
	Close() error
}

// LogSource supplies buffered log lines for the log overlay
type LogSource interface {
	Lines() []string
}

// MemoryProbe returns used and maximum memory in bytes
type MemoryProbe func() (used, max uint64)

// Deps are the orchestrator collaborators; nil fields get defaults or are skipped
type Deps struct {
	NewTexture func(path string) Texture
	NewFont    func(charset string) Font
	Memory     MemoryProbe

	Registry *status.Registry
	Logs     LogSource
	Logger   *zap.Logger

	Processes Ticker
	Tweens    Advancer

	// OnSceneStart runs right after SceneController.Start
	OnSceneStart func()
}
