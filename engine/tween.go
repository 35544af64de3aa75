package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/status"
)

// Ease maps linear progress [0,1] to eased progress
type Ease func(t float64) float64

// Easing functions
var (
	EaseLinear Ease = func(t float64) float64 { return t }

	EaseInOutQuad Ease = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	EaseOutCubic Ease = func(t float64) float64 {
		u := t - 1
		return u*u*u + 1
	}
)

// Tween interpolates From to To over Duration
type Tween struct {
	From     float64
	To       float64
	Duration time.Duration
	Ease     Ease

	// Yoyo reverses direction at each end and never finishes on its own
	Yoyo bool

	OnUpdate func(v float64)
	OnDone   func()

	elapsed  time.Duration
	reversed bool
	value    float64
	done     bool
}

// Value returns the last computed value
func (tw *Tween) Value() float64 {
	return tw.value
}

// Done reports whether the tween finished or was cancelled
func (tw *Tween) Done() bool {
	return tw.done
}

// advance moves the tween and reports whether it is still active
func (tw *Tween) advance(elapsed time.Duration) bool {
	if tw.done {
		return false
	}
	tw.elapsed += elapsed

	if tw.Duration <= 0 {
		tw.elapsed = tw.Duration
	}

	finished := tw.elapsed >= tw.Duration
	if finished && tw.Yoyo && tw.Duration > 0 {
		for tw.elapsed >= tw.Duration {
			tw.elapsed -= tw.Duration
			tw.reversed = !tw.reversed
		}
		finished = false
	}

	progress := 1.0
	if !finished && tw.Duration > 0 {
		progress = float64(tw.elapsed) / float64(tw.Duration)
	}
	if tw.reversed {
		progress = 1 - progress
	}

	ease := tw.Ease
	if ease == nil {
		ease = EaseLinear
	}
	tw.value = tw.From + (tw.To-tw.From)*ease(progress)

	if tw.OnUpdate != nil {
		tw.OnUpdate(tw.value)
	}
	if finished {
		tw.done = true
		if tw.OnDone != nil {
			tw.OnDone()
		}
		return false
	}
	return true
}

// TweenManager advances active tweens on the update signal
type TweenManager struct {
	active []*Tween

	statCount *atomic.Int64
}

// NewTweenManager creates a manager, publishing its size to reg when non-nil
func NewTweenManager(reg *status.Registry) *TweenManager {
	tm := &TweenManager{}
	if reg != nil {
		tm.statCount = reg.Ints.Get(constants.MetricTweens)
	}
	return tm
}

// Start activates tw and returns it
func (tm *TweenManager) Start(tw *Tween) *Tween {
	tw.done = false
	tw.elapsed = 0
	tw.reversed = false
	tw.value = tw.From
	tm.active = append(tm.active, tw)
	tm.publish()
	return tw
}

// Cancel stops tw without calling OnDone
func (tm *TweenManager) Cancel(tw *Tween) {
	tw.done = true
}

// Len returns the number of tracked tweens, including ones cancelled since the last Advance
func (tm *TweenManager) Len() int {
	return len(tm.active)
}

// Advance moves every active tween by elapsed and drops finished ones
// Tweens started from callbacks during Advance first move on the next call
func (tm *TweenManager) Advance(elapsed time.Duration) {
	n := len(tm.active)
	live := 0
	for i := 0; i < n; i++ {
		tw := tm.active[i]
		if tw.advance(elapsed) {
			tm.active[live] = tw
			live++
		}
	}

	total := len(tm.active)
	kept := append(tm.active[:live], tm.active[n:]...)
	for i := len(kept); i < total; i++ {
		tm.active[i] = nil
	}
	tm.active = kept
	tm.publish()
}

func (tm *TweenManager) publish() {
	if tm.statCount != nil {
		tm.statCount.Store(int64(len(tm.active)))
	}
}
