package display

import (
	"time"

	"github.com/lixenwraith/vi-display/constants"
)

// FrameStats counts painted frames over ~1s windows
// The rate is clamped to the target for display only; it never throttles
type FrameStats struct {
	last   time.Time
	frames int
	rate   int
	target int
}

// NewFrameStats creates a counter clamped to target
func NewFrameStats(target int) *FrameStats {
	return &FrameStats{target: target}
}

// Tick records one frame at now
func (s *FrameStats) Tick(now time.Time) {
	if now.Sub(s.last) > constants.FrameSampleWindow {
		s.rate = min(s.target, s.frames)
		s.frames = 0
		s.last = now
	}
	s.frames++
}

// Rate returns frames counted in the last closed window, 0 before the first closes
func (s *FrameStats) Rate() int {
	return s.rate
}

// SetTarget changes the clamp
func (s *FrameStats) SetTarget(target int) {
	s.target = target
}
