// Package display sequences the update and paint phases of every frame
package display

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-display/asset"
	"github.com/lixenwraith/vi-display/config"
	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/engine"
	"github.com/lixenwraith/vi-display/render"
	"github.com/lixenwraith/vi-display/status"
)

// diagFg is the diagnostics text color
var diagFg = render.RGBWhite

// Orchestrator owns the rendering context around each frame
// It runs the intro overlay, then hands every paint tick to the scene controller
type Orchestrator struct {
	canvas render.Canvas
	scene  SceneController
	cfg    config.Display
	deps   Deps
	logger *zap.Logger

	clear config.ClearColor
	stats *FrameStats
	font  Font

	drawConfigReady bool
	phase           phase

	updateConn engine.Connection
	paintConn  engine.Connection

	statFPS     *atomic.Int64
	statFrames  *atomic.Int64
	statIntro   *atomic.Bool
	statMemUsed *status.AtomicFloat
	statMemMax  *status.AtomicFloat
}

// New connects an orchestrator to clock
// Without an intro overlay the scene starts before New returns
func New(canvas render.Canvas, clock *engine.FrameClock, scene SceneController, cfg config.Display, deps Deps) (*Orchestrator, error) {
	if canvas == nil {
		return nil, ErrNilCanvas
	}
	if scene == nil {
		return nil, ErrNilScene
	}

	o := &Orchestrator{
		canvas: canvas,
		scene:  scene,
		cfg:    cfg,
		clear:  cfg.Clear,
		stats:  NewFrameStats(cfg.TargetFPS),
	}
	o.deps = o.withDefaults(deps)
	o.logger = o.deps.Logger

	if reg := o.deps.Registry; reg != nil {
		o.statFPS = reg.Ints.Get(constants.MetricFPS)
		o.statFrames = reg.Ints.Get(constants.MetricFrames)
		o.statIntro = reg.Bools.Get(constants.MetricIntroActive)
		o.statMemUsed = reg.Floats.Get(constants.MetricMemoryUsedMB)
		o.statMemMax = reg.Floats.Get(constants.MetricMemoryMaxMB)
	}

	switch {
	case !cfg.OverlayEnabled:
		o.startScene()
	case cfg.OverlayTexturePath == "":
		o.logger.Warn("intro overlay enabled without a texture path, starting scene")
		o.startScene()
	default:
		o.phase = &introPhase{}
		if o.statIntro != nil {
			o.statIntro.Store(true)
		}
	}

	if clock != nil {
		o.paintConn = clock.Paint.Connect(constants.PriorityPaintOrchestrator, o.paint)
		o.updateConn = clock.Update.Connect(constants.PriorityUpdateOrchestrator, o.update)
	}
	return o, nil
}

// NewForScreen binds an orchestrator to a tcell surface
func NewForScreen(screen tcell.Screen, clock *engine.FrameClock, scene SceneController, cfg config.Display, deps Deps) (*Orchestrator, error) {
	if screen == nil {
		return nil, ErrNilCanvas
	}
	return New(render.NewContext(screen), clock, scene, cfg, deps)
}

// withDefaults fills unset collaborators
func (o *Orchestrator) withDefaults(deps Deps) Deps {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.NewTexture == nil {
		maxWidth, _ := o.canvas.Size()
		deps.NewTexture = func(path string) Texture {
			if path == asset.BuiltinIntro {
				return render.NewTextureFromText(path, asset.IntroLogo)
			}
			return render.NewTexture(path, maxWidth)
		}
	}
	if deps.NewFont == nil {
		deps.NewFont = func(charset string) Font {
			return render.NewFont(charset)
		}
	}
	if deps.Memory == nil {
		deps.Memory = RuntimeMemory
	}
	return deps
}

// update forwards elapsed time to background processes and tweens
func (o *Orchestrator) update(tc engine.TimerContext) error {
	if o.deps.Processes != nil {
		o.deps.Processes.Tick(tc.Elapsed)
	}
	if o.deps.Tweens != nil {
		o.deps.Tweens.Advance(tc.Elapsed)
	}
	return nil
}

// paint draws one frame of the current phase
func (o *Orchestrator) paint(tc engine.TimerContext) error {
	o.ensureDrawConfig()

	if p, ok := o.phase.(*introPhase); ok {
		o.paintIntro(p)
		return nil
	}
	return o.paintRunning(tc)
}

// ensureDrawConfig builds draw resources on the first paint after construction or Close
func (o *Orchestrator) ensureDrawConfig() {
	if o.drawConfigReady {
		return
	}
	if o.cfg.DiagnosticsEnabled() && o.font == nil {
		o.font = o.deps.NewFont(constants.DiagFontCharset)
	}
	if p, ok := o.phase.(*introPhase); ok && !p.created {
		p.created = true
		tex := o.deps.NewTexture(o.cfg.OverlayTexturePath)
		if tex != nil {
			p.overlay = NewIntroOverlay(tex, o.cfg.IntroFrames, o.logger)
		}
	}
	o.drawConfigReady = true
}

// paintIntro draws one overlay frame; the scene starts on the tick the overlay finishes
func (o *Orchestrator) paintIntro(p *introPhase) {
	c := o.canvas
	c.Save()
	transition := false
	defer func() {
		c.End()
		c.Restore()
		if transition {
			o.finishIntro(p)
		}
	}()
	c.Begin()
	c.Clear(o.clear.R, o.clear.G, o.clear.B, o.clear.A)

	ov := p.overlay
	if ov == nil || !ov.Ready() || ov.Finished() {
		transition = true
		return
	}
	ov.Draw(c)
	transition = ov.Finished()
}

func (o *Orchestrator) finishIntro(p *introPhase) {
	if p.overlay != nil {
		p.overlay.Close()
		p.overlay = nil
	}
	o.startScene()
}

// startScene enters the running phase and starts the scene exactly once
func (o *Orchestrator) startScene() {
	if _, running := o.phase.(runningPhase); running {
		return
	}
	o.phase = runningPhase{}
	if o.statIntro != nil {
		o.statIntro.Store(false)
	}
	o.logger.Info("scene started")
	o.scene.Start()
	if o.deps.OnSceneStart != nil {
		o.deps.OnSceneStart()
	}
}

// paintRunning runs the scene frame sequence
// The canvas is released and input state reset on every exit path
func (o *Orchestrator) paintRunning(tc engine.TimerContext) error {
	if !o.scene.IsFrameDue() {
		return nil
	}

	c := o.canvas
	c.SaveTx()
	defer func() {
		c.End()
		c.RestoreTx()
		o.scene.ResetInputState()
	}()
	c.Begin()
	c.Clear(o.clear.R, o.clear.G, o.clear.B, o.clear.A)

	if err := o.scene.Load(); err != nil {
		return &PhaseError{Step: StepLoad, Err: err}
	}
	if err := o.scene.Dispatch(); err != nil {
		return &PhaseError{Step: StepDispatch, Err: err}
	}
	if err := o.scene.AdvanceTimers(tc.Elapsed); err != nil {
		return &PhaseError{Step: StepTimers, Err: err}
	}
	if err := o.scene.Draw(c); err != nil {
		return &PhaseError{Step: StepDraw, Err: err}
	}
	o.drawDiagnostics(tc.Now)
	if err := o.scene.DrawDebugOverlay(c); err != nil {
		return &PhaseError{Step: StepOverlay, Err: err}
	}
	if ed, ok := o.scene.(EmulatorDrawer); ok && o.cfg.Emulator {
		if err := ed.DrawEmulator(c); err != nil {
			return &PhaseError{Step: StepEmulator, Err: err}
		}
	}
	if err := o.scene.Unload(); err != nil {
		return &PhaseError{Step: StepUnload, Err: err}
	}
	return nil
}

// drawDiagnostics samples frame stats and draws the enabled diagnostics rows
func (o *Orchestrator) drawDiagnostics(now time.Time) {
	o.stats.Tick(now)
	rate := o.stats.Rate()
	if o.statFPS != nil {
		o.statFPS.Store(int64(rate))
		o.statFrames.Add(1)
	}

	showMemory := o.cfg.ShowsMemory()
	var used, max uint64
	if showMemory || o.statMemUsed != nil {
		used, max = o.deps.Memory()
		if o.statMemUsed != nil {
			o.statMemUsed.Set(toMB(used))
			o.statMemMax.Set(toMB(max))
		}
	}

	if o.font == nil {
		return
	}
	c := o.canvas
	x := constants.DiagOriginX

	if o.cfg.ShowsFPS() {
		o.font.DrawString(c, fmt.Sprintf("FPS:%d", rate), x, constants.DiagRowFPS, diagFg)
	}
	if showMemory {
		o.font.DrawString(c, memoryText(used, max), x, constants.DiagRowMemory, diagFg)
	}
	if o.cfg.ShowsSprites() {
		var sprites, desktops int64
		if reg := o.deps.Registry; reg != nil {
			sprites = reg.Int(constants.MetricSprites)
			desktops = reg.Int(constants.MetricDesktops)
		}
		o.font.DrawString(c, fmt.Sprintf("SPRITE:%d, DESKTOP:%d", sprites, desktops), x, constants.DiagRowSprites, diagFg)
	}
	if o.cfg.ShowsLog() && o.deps.Logs != nil {
		lines := o.deps.Logs.Lines()
		if len(lines) > constants.DiagLogLines {
			lines = lines[len(lines)-constants.DiagLogLines:]
		}
		for i, line := range lines {
			c.DrawText(x, constants.DiagRowLog+i, line, diagFg)
		}
	}
}

// Resize forwards new surface dimensions to the scene
func (o *Orchestrator) Resize(width, height int) {
	o.scene.Resize(width, height)
}

// Close releases the diagnostics font and the intro overlay
// The next paint rebuilds the font; the overlay is never rebuilt
func (o *Orchestrator) Close() {
	if o.font != nil {
		_ = o.font.Close()
		o.font = nil
	}
	if p, ok := o.phase.(*introPhase); ok && p.overlay != nil {
		p.overlay.Close()
		p.overlay = nil
	}
	o.drawConfigReady = false
}

// Detach disconnects the orchestrator from its clock
func (o *Orchestrator) Detach() {
	o.paintConn.Disconnect()
	o.updateConn.Disconnect()
}

// SetClearColor sets the per-frame clear color, channels in [0,1]
func (o *Orchestrator) SetClearColor(r, g, b, a float32) {
	o.clear = config.ClearColor{R: r, G: g, B: b, A: a}
}

// SetClearRGB sets an opaque clear color
func (o *Orchestrator) SetClearRGB(c render.RGB) {
	o.SetClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, 1)
}

// ResetClearColor restores transparent black
func (o *Orchestrator) ResetClearColor() {
	o.clear = config.ClearColor{}
}

func (o *Orchestrator) Red() float32   { return o.clear.R }
func (o *Orchestrator) Green() float32 { return o.clear.G }
func (o *Orchestrator) Blue() float32  { return o.clear.B }
func (o *Orchestrator) Alpha() float32 { return o.clear.A }

// FPS returns the sampled frame rate
func (o *Orchestrator) FPS() int {
	return o.stats.Rate()
}

// Canvas returns the rendering context
func (o *Orchestrator) Canvas() render.Canvas {
	return o.canvas
}

// Intro reports whether the intro phase is active
func (o *Orchestrator) Intro() bool {
	_, ok := o.phase.(*introPhase)
	return ok
}

// Size returns the rendering surface dimensions
func (o *Orchestrator) Size() (int, int) {
	return o.canvas.Size()
}

func (o *Orchestrator) Width() int {
	w, _ := o.canvas.Size()
	return w
}

func (o *Orchestrator) Height() int {
	_, h := o.canvas.Size()
	return h
}
