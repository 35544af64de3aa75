package display

import (
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-display/render"
)

// IntroState is the fade progress of the intro overlay
type IntroState int

const (
	IntroFadingIn IntroState = iota
	IntroFadingOut
	IntroFinished
)

func (s IntroState) String() string {
	switch s {
	case IntroFadingIn:
		return "fading-in"
	case IntroFadingOut:
		return "fading-out"
	default:
		return "finished"
	}
}

// IntroOverlay fades a centered texture in over budget frames and out over budget frames
type IntroOverlay struct {
	texture Texture
	logger  *zap.Logger

	x, y     int
	centered bool

	alpha  float64
	frame  int
	budget int
	state  IntroState
}

// NewIntroOverlay takes ownership of tex
func NewIntroOverlay(tex Texture, budget int, logger *zap.Logger) *IntroOverlay {
	if budget <= 0 {
		budget = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntroOverlay{
		texture: tex,
		logger:  logger,
		budget:  budget,
		state:   IntroFadingIn,
	}
}

// Draw advances the fade by one frame and draws the texture
// The caller owns Save/Restore around it since the canvas alpha is changed
func (o *IntroOverlay) Draw(canvas render.Canvas) {
	if o.state == IntroFinished || o.texture == nil {
		return
	}

	if !o.texture.Loaded() {
		if err := o.texture.Load(); err != nil {
			o.logger.Warn("intro texture failed to load, skipping intro", zap.Error(err))
			_ = o.texture.Close()
			o.texture = nil
			o.state = IntroFinished
			return
		}
	}

	if !o.centered {
		w, h := o.texture.Size()
		cw, ch := canvas.Size()
		o.x = (cw - w) / 2
		o.y = (ch - h) / 2
		o.centered = true
	}

	o.alpha = float64(o.frame) / float64(o.budget)
	switch o.state {
	case IntroFadingIn:
		o.frame++
		if o.frame >= o.budget {
			o.frame = o.budget
			o.alpha = 1
			o.state = IntroFadingOut
		}
	case IntroFadingOut:
		o.frame--
		if o.frame <= 0 {
			o.frame = 0
			o.alpha = 0
			o.state = IntroFinished
		}
	}

	canvas.SetAlpha(o.alpha)
	canvas.DrawImage(o.texture, o.x, o.y)
}

// Ready reports whether a live texture is attached
func (o *IntroOverlay) Ready() bool {
	return o.texture != nil && !o.texture.Disposed()
}

func (o *IntroOverlay) State() IntroState { return o.state }

func (o *IntroOverlay) Finished() bool { return o.state == IntroFinished }

// Alpha returns the blend factor used by the last Draw
func (o *IntroOverlay) Alpha() float64 { return o.alpha }

func (o *IntroOverlay) Frame() int { return o.frame }

// Position returns the centered origin, valid after the first Draw
func (o *IntroOverlay) Position() (int, int) { return o.x, o.y }

// Close releases the texture; safe to call more than once
func (o *IntroOverlay) Close() {
	if o.texture == nil {
		return
	}
	_ = o.texture.Close()
	o.texture = nil
}
