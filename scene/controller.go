package scene

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/render"
	"github.com/lixenwraith/vi-display/status"
)

// Options configure a Controller
type Options struct {
	// Emulator echoes key presses on screen
	Emulator bool
	// Debug enables the screen label and per-screen debug drawing
	Debug    bool
	Registry *status.Registry
	Logger   *zap.Logger
}

// Controller drives the current Screen for the display orchestrator
// Enqueue is safe from any goroutine; everything else runs on the clock goroutine
type Controller struct {
	mu    sync.Mutex
	queue []tcell.Event

	current Screen
	pending Screen
	retired []Screen
	started bool

	width  int
	height int

	emulator *Emulator
	debug    bool
	logger   *zap.Logger

	statSprites  *atomic.Int64
	statDesktops *atomic.Int64
	statScreen   *status.AtomicString
}

// NewController creates a controller that loads initial on its first frame
func NewController(initial Screen, opts Options) *Controller {
	c := &Controller{
		pending: initial,
		debug:   opts.Debug,
		logger:  opts.Logger,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if opts.Emulator {
		c.emulator = NewEmulator()
	}
	if opts.Registry != nil {
		c.statSprites = opts.Registry.Ints.Get(constants.MetricSprites)
		c.statDesktops = opts.Registry.Ints.Get(constants.MetricDesktops)
		c.statScreen = opts.Registry.Strings.Get(constants.MetricScreen)
	}
	return c
}

// SetScreen replaces the current screen at the next Load
// The previous screen is unloaded in the same frame
func (c *Controller) SetScreen(s Screen) {
	c.pending = s
}

// Current returns the loaded screen, nil before the first Load
func (c *Controller) Current() Screen {
	return c.current
}

// Emulator returns the key echo, nil when disabled
func (c *Controller) Emulator() *Emulator {
	return c.emulator
}

// Enqueue buffers an input event until the next Dispatch
func (c *Controller) Enqueue(ev tcell.Event) {
	c.mu.Lock()
	c.queue = append(c.queue, ev)
	c.mu.Unlock()
}

// Pending returns the number of buffered input events
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Start marks the scene live
func (c *Controller) Start() {
	c.started = true
	c.logger.Debug("scene controller started")
}

// Started reports whether Start ran
func (c *Controller) Started() bool {
	return c.started
}

// IsFrameDue reports whether there is a screen to run
func (c *Controller) IsFrameDue() bool {
	return c.started && (c.current != nil || c.pending != nil)
}

// Load swaps in a pending screen
// A screen that fails to load is dropped and the current one stays
func (c *Controller) Load() error {
	next := c.pending
	if next == nil {
		return nil
	}
	c.pending = nil

	// Sized first so Load can lay out against the view
	next.Resize(c.width, c.height)
	if err := next.Load(); err != nil {
		return fmt.Errorf("load screen %s: %w", next.Name(), err)
	}
	if c.current != nil {
		c.retired = append(c.retired, c.current)
	}
	c.current = next
	c.logger.Debug("screen loaded", zap.String("screen", next.Name()))
	return nil
}

// Dispatch feeds buffered input to the current screen
func (c *Controller) Dispatch() error {
	c.mu.Lock()
	events := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, ev := range events {
		if key, ok := ev.(*tcell.EventKey); ok && c.emulator != nil {
			c.emulator.Press(keyLabel(key))
		}
		if c.current == nil {
			continue
		}
		if err := c.current.HandleEvent(ev); err != nil {
			return fmt.Errorf("screen %s input: %w", c.current.Name(), err)
		}
	}
	return nil
}

// AdvanceTimers moves the current screen forward and publishes its counts
func (c *Controller) AdvanceTimers(elapsed time.Duration) error {
	if c.current == nil {
		c.publish()
		return nil
	}
	if err := c.current.Update(elapsed); err != nil {
		return fmt.Errorf("screen %s update: %w", c.current.Name(), err)
	}
	c.publish()
	return nil
}

// Draw paints the current screen
func (c *Controller) Draw(canvas render.Canvas) error {
	if c.current == nil {
		return nil
	}
	if err := c.current.Draw(canvas); err != nil {
		return fmt.Errorf("screen %s draw: %w", c.current.Name(), err)
	}
	return nil
}

// DrawEmulator paints the key echo over everything else
func (c *Controller) DrawEmulator(canvas render.Canvas) error {
	if c.emulator != nil {
		c.emulator.Draw(canvas)
	}
	return nil
}

// DrawDebugOverlay labels the current screen in the top right corner
// Nothing is drawn unless the controller was created with Debug
func (c *Controller) DrawDebugOverlay(canvas render.Canvas) error {
	if !c.debug || c.current == nil {
		return nil
	}
	if dd, ok := c.current.(DebugDrawer); ok {
		if err := dd.DrawDebug(canvas); err != nil {
			return err
		}
	}
	w, _ := canvas.Size()
	name := c.current.Name()
	canvas.DrawText(w-len([]rune(name))-1, 0, name, render.RGBText)
	return nil
}

// Unload releases screens replaced during this frame
func (c *Controller) Unload() error {
	if len(c.retired) == 0 {
		return nil
	}
	var errs []error
	for _, s := range c.retired {
		if err := s.Unload(); err != nil {
			errs = append(errs, fmt.Errorf("unload screen %s: %w", s.Name(), err))
		}
		c.logger.Debug("screen unloaded", zap.String("screen", s.Name()))
	}
	clear(c.retired)
	c.retired = c.retired[:0]
	c.publish()
	return errors.Join(errs...)
}

// ResetInputState ages the key echo
func (c *Controller) ResetInputState() {
	if c.emulator != nil {
		c.emulator.Age()
	}
}

// Resize forwards the view size to the current screen
func (c *Controller) Resize(width, height int) {
	c.width, c.height = width, height
	if c.current != nil {
		c.current.Resize(width, height)
	}
}

// Close unloads every screen still held
func (c *Controller) Close() error {
	err := c.Unload()
	if c.current != nil {
		err = errors.Join(err, c.current.Unload())
		c.current = nil
	}
	c.pending = nil
	c.publish()
	return err
}

func (c *Controller) publish() {
	if c.statSprites == nil {
		return
	}
	sprites := 0
	if sc, ok := c.current.(SpriteCounter); ok {
		sprites = sc.Sprites()
	}
	desktops := len(c.retired)
	name := ""
	if c.current != nil {
		desktops++
		name = c.current.Name()
	}
	c.statSprites.Store(int64(sprites))
	c.statDesktops.Store(int64(desktops))
	c.statScreen.Store(name)
}

// keyLabel names a key for the emulator echo
func keyLabel(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "SPC"
		}
		return string(ev.Rune())
	}
	return ev.Name()
}
