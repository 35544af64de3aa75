package display

import (
	"errors"
	"time"

	"github.com/lixenwraith/vi-display/render"
)

var errBoom = errors.New("boom")

type fakeScene struct {
	calls   []string
	starts  int
	resets  int
	notDue  bool
	failAt  string
	panicAt string
	elapsed []time.Duration
	width   int
	height  int
}

func (s *fakeScene) step(name string) error {
	s.calls = append(s.calls, name)
	if s.panicAt == name {
		panic("scene " + name)
	}
	if s.failAt == name {
		return errBoom
	}
	return nil
}

func (s *fakeScene) Start()           { s.starts++ }
func (s *fakeScene) IsFrameDue() bool { return !s.notDue }
func (s *fakeScene) Load() error      { return s.step(StepLoad) }
func (s *fakeScene) Dispatch() error  { return s.step(StepDispatch) }
func (s *fakeScene) AdvanceTimers(elapsed time.Duration) error {
	s.elapsed = append(s.elapsed, elapsed)
	return s.step(StepTimers)
}
func (s *fakeScene) Draw(render.Canvas) error             { return s.step(StepDraw) }
func (s *fakeScene) DrawDebugOverlay(render.Canvas) error { return s.step(StepOverlay) }
func (s *fakeScene) DrawEmulator(render.Canvas) error     { return s.step(StepEmulator) }
func (s *fakeScene) Unload() error                        { return s.step(StepUnload) }
func (s *fakeScene) ResetInputState()                     { s.resets++ }
func (s *fakeScene) Resize(w, h int)                      { s.width, s.height = w, h }

type fakeCanvas struct {
	w, h int

	saves, restores     int
	savesTx, restoresTx int
	begins, ends        int
	clears              int
	lastClear           [4]float32

	alpha       float64
	alphaStack  []float64
	drawnAlphas []float64
	rows        map[int]string

	panicOnClear bool
}

func newFakeCanvas() *fakeCanvas {
	return &fakeCanvas{w: 80, h: 24, alpha: 1, rows: make(map[int]string)}
}

func (c *fakeCanvas) Save() {
	c.saves++
	c.alphaStack = append(c.alphaStack, c.alpha)
}

func (c *fakeCanvas) Restore() {
	c.restores++
	if n := len(c.alphaStack); n > 0 {
		c.alpha = c.alphaStack[n-1]
		c.alphaStack = c.alphaStack[:n-1]
	}
}

func (c *fakeCanvas) SaveTx()    { c.savesTx++ }
func (c *fakeCanvas) RestoreTx() { c.restoresTx++ }
func (c *fakeCanvas) Begin()     { c.begins++ }
func (c *fakeCanvas) End()       { c.ends++ }

func (c *fakeCanvas) Clear(r, g, b, a float32) {
	c.clears++
	if c.panicOnClear {
		panic("clear")
	}
	c.lastClear = [4]float32{r, g, b, a}
	c.rows = make(map[int]string)
}

func (c *fakeCanvas) Translate(dx, dy int)           {}
func (c *fakeCanvas) SetAlpha(a float64)             { c.alpha = a }
func (c *fakeCanvas) Alpha() float64                 { return c.alpha }
func (c *fakeCanvas) DrawCell(int, int, render.Cell) {}
func (c *fakeCanvas) Size() (int, int)               { return c.w, c.h }

func (c *fakeCanvas) DrawImage(img render.Image, x, y int) {
	c.drawnAlphas = append(c.drawnAlphas, c.alpha)
}

func (c *fakeCanvas) DrawText(x, y int, text string, fg render.RGB) {
	c.rows[y] = text
}

type fakeTexture struct {
	w, h     int
	loaded   bool
	disposed bool
	loadErr  error
	loads    int
	closes   int
}

func (t *fakeTexture) Load() error {
	t.loads++
	if t.disposed {
		return render.ErrTextureDisposed
	}
	if t.loadErr != nil {
		return t.loadErr
	}
	t.loaded = true
	return nil
}

func (t *fakeTexture) Loaded() bool   { return t.loaded && !t.disposed }
func (t *fakeTexture) Disposed() bool { return t.disposed }

func (t *fakeTexture) Close() error {
	t.closes++
	t.disposed = true
	t.loaded = false
	return nil
}

func (t *fakeTexture) Size() (int, int) { return t.w, t.h }

func (t *fakeTexture) At(x, y int) (render.Cell, bool) {
	return render.Cell{Rune: '#'}, true
}

type fakeLogs []string

func (l fakeLogs) Lines() []string { return l }

type recordingTicker struct{ ticks []time.Duration }

func (r *recordingTicker) Tick(d time.Duration) { r.ticks = append(r.ticks, d) }

type recordingAdvancer struct{ advances []time.Duration }

func (r *recordingAdvancer) Advance(d time.Duration) { r.advances = append(r.advances, d) }
