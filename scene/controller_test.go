package scene

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/render"
	"github.com/lixenwraith/vi-display/status"
)

type fakeScreen struct {
	name      string
	calls     []string
	events    []tcell.Event
	elapsed   time.Duration
	loadErr   error
	inputErr  error
	unloadErr error
	sprites   int
}

func (f *fakeScreen) Name() string { return f.name }
func (f *fakeScreen) Sprites() int { return f.sprites }

func (f *fakeScreen) Load() error {
	f.calls = append(f.calls, "load")
	return f.loadErr
}

func (f *fakeScreen) Unload() error {
	f.calls = append(f.calls, "unload")
	return f.unloadErr
}

func (f *fakeScreen) HandleEvent(ev tcell.Event) error {
	f.events = append(f.events, ev)
	return f.inputErr
}

func (f *fakeScreen) Update(elapsed time.Duration) error {
	f.elapsed += elapsed
	return nil
}

func (f *fakeScreen) Draw(canvas render.Canvas) error {
	f.calls = append(f.calls, "draw")
	canvas.DrawText(0, 0, f.name, render.RGBWhite)
	return nil
}

func (f *fakeScreen) Resize(width, height int) {
	f.calls = append(f.calls, "resize")
}

func newCanvas(t *testing.T, w, h int) *render.Context {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	ctx := render.NewContext(screen)
	ctx.Begin()
	return ctx
}

func rowText(ctx *render.Context, y, x0, n int) string {
	out := make([]rune, 0, n)
	for x := x0; x < x0+n; x++ {
		c, _ := ctx.Buffer().Get(x, y)
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestControllerFrameDueAfterStart(t *testing.T) {
	c := NewController(&fakeScreen{name: "a"}, Options{})
	assert.False(t, c.IsFrameDue())
	c.Start()
	assert.True(t, c.Started())
	assert.True(t, c.IsFrameDue())

	empty := NewController(nil, Options{})
	empty.Start()
	assert.False(t, empty.IsFrameDue())
}

func TestControllerSizesBeforeLoad(t *testing.T) {
	a := &fakeScreen{name: "a"}
	c := NewController(a, Options{})
	c.Resize(80, 24)
	assert.Nil(t, c.Current())

	require.NoError(t, c.Load())
	assert.Equal(t, a, c.Current())
	assert.Equal(t, []string{"resize", "load"}, a.calls)

	// Nothing pending
	require.NoError(t, c.Load())
	assert.Equal(t, []string{"resize", "load"}, a.calls)
}

func TestControllerSetScreenSwapsAtNextLoad(t *testing.T) {
	reg := status.NewRegistry()
	a := &fakeScreen{name: "a", sprites: 3}
	b := &fakeScreen{name: "b", sprites: 5}
	c := NewController(a, Options{Registry: reg})
	require.NoError(t, c.Load())

	c.SetScreen(b)
	assert.Equal(t, a, c.Current())

	require.NoError(t, c.Load())
	assert.Equal(t, b, c.Current())
	assert.NotContains(t, a.calls, "unload")

	require.NoError(t, c.AdvanceTimers(time.Millisecond))
	assert.Equal(t, "b", reg.Strings.Get(constants.MetricScreen).Load())
	assert.EqualValues(t, 5, reg.Int(constants.MetricSprites))
	assert.EqualValues(t, 2, reg.Int(constants.MetricDesktops))

	require.NoError(t, c.Unload())
	assert.Equal(t, "unload", a.calls[len(a.calls)-1])
	assert.EqualValues(t, 1, reg.Int(constants.MetricDesktops))

	// Retired screens unload once
	require.NoError(t, c.Unload())
	assert.Equal(t, 1, countCalls(a.calls, "unload"))
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestControllerLoadFailureKeepsCurrent(t *testing.T) {
	a := &fakeScreen{name: "a"}
	boom := errors.New("missing asset")
	b := &fakeScreen{name: "b", loadErr: boom}
	c := NewController(a, Options{})
	require.NoError(t, c.Load())

	c.SetScreen(b)
	err := c.Load()
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "load screen b")
	assert.Equal(t, a, c.Current())

	// Dropped, not retried
	require.NoError(t, c.Load())
	assert.Equal(t, 1, countCalls(b.calls, "load"))
}

func TestControllerEnqueueFromManyGoroutines(t *testing.T) {
	a := &fakeScreen{name: "a"}
	c := NewController(a, Options{})
	require.NoError(t, c.Load())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				c.Enqueue(key('x'))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, c.Pending())

	require.NoError(t, c.Dispatch())
	assert.Len(t, a.events, 400)
	assert.Equal(t, 0, c.Pending())
}

func TestControllerDispatchError(t *testing.T) {
	boom := errors.New("bad key")
	c := NewController(&fakeScreen{name: "a", inputErr: boom}, Options{})
	require.NoError(t, c.Load())
	c.Enqueue(key('x'))
	assert.ErrorIs(t, c.Dispatch(), boom)
}

func TestControllerEmulatorEcho(t *testing.T) {
	c := NewController(&fakeScreen{name: "a"}, Options{Emulator: true})
	require.NotNil(t, c.Emulator())
	require.NoError(t, c.Load())

	c.Enqueue(key('j'))
	c.Enqueue(key(' '))
	require.NoError(t, c.Dispatch())
	assert.Equal(t, []string{"j", "SPC"}, c.Emulator().Labels())

	canvas := newCanvas(t, 20, 5)
	require.NoError(t, c.Draw(canvas))
	assert.Equal(t, "         ", rowText(canvas, 4, 1, 9))
	require.NoError(t, c.DrawEmulator(canvas))
	assert.Equal(t, "[j] [SPC]", rowText(canvas, 4, 1, 9))

	for i := 0; i < 30; i++ {
		c.ResetInputState()
	}
	assert.Empty(t, c.Emulator().Labels())
}

func TestControllerWithoutEmulator(t *testing.T) {
	c := NewController(&fakeScreen{name: "a"}, Options{})
	assert.Nil(t, c.Emulator())
	c.Enqueue(key('j'))
	require.NoError(t, c.Dispatch())
	c.ResetInputState()
	require.NoError(t, c.DrawEmulator(newCanvas(t, 4, 2)))
}

func TestControllerDebugOverlayLabelsScreen(t *testing.T) {
	c := NewController(&fakeScreen{name: "demo"}, Options{Debug: true})
	canvas := newCanvas(t, 20, 3)
	require.NoError(t, c.DrawDebugOverlay(canvas))

	require.NoError(t, c.Load())
	require.NoError(t, c.DrawDebugOverlay(canvas))
	assert.Equal(t, "demo", rowText(canvas, 0, 15, 4))
}

func TestControllerDebugOverlayOffByDefault(t *testing.T) {
	c := NewController(&fakeScreen{name: "demo"}, Options{})
	canvas := newCanvas(t, 20, 3)

	require.NoError(t, c.Load())
	require.NoError(t, c.DrawDebugOverlay(canvas))
	assert.Equal(t, strings.Repeat(" ", 20), rowText(canvas, 0, 0, 20))
}

func TestControllerDrawAndResize(t *testing.T) {
	a := &fakeScreen{name: "a"}
	c := NewController(a, Options{})
	canvas := newCanvas(t, 10, 2)

	// Nothing loaded yet
	require.NoError(t, c.Draw(canvas))

	require.NoError(t, c.Load())
	require.NoError(t, c.Draw(canvas))
	assert.Equal(t, "a", rowText(canvas, 0, 0, 1))

	c.Resize(40, 10)
	assert.Equal(t, "resize", a.calls[len(a.calls)-1])

	require.NoError(t, c.AdvanceTimers(16*time.Millisecond))
	assert.Equal(t, 16*time.Millisecond, a.elapsed)
}

func TestControllerCloseUnloadsAll(t *testing.T) {
	reg := status.NewRegistry()
	a := &fakeScreen{name: "a"}
	b := &fakeScreen{name: "b", unloadErr: errors.New("leak")}
	c := NewController(a, Options{Registry: reg})
	require.NoError(t, c.Load())
	c.SetScreen(b)
	require.NoError(t, c.Load())

	err := c.Close()
	assert.ErrorContains(t, err, "leak")
	assert.Equal(t, 1, countCalls(a.calls, "unload"))
	assert.Equal(t, 1, countCalls(b.calls, "unload"))
	assert.Nil(t, c.Current())
	assert.EqualValues(t, 0, reg.Int(constants.MetricDesktops))
}
