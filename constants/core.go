package constants

import "time"

// Frame Loop Timing
const (
	// DefaultTargetFPS is the paint rate used when configuration does not set one
	DefaultTargetFPS = 60

	// MaxTargetFPS bounds the configured paint rate
	MaxTargetFPS = 240

	// FrameSampleWindow is the wall time over which frame ticks are counted before the displayed rate updates
	FrameSampleWindow = 1000 * time.Millisecond

	// MaxCatchUpIntervals is how many intervals the clock may fall behind before it resynchronizes its deadline
	MaxCatchUpIntervals = 2

	// PostQueueSize is the capacity of the clock's cross-goroutine work queue
	PostQueueSize = 256
)

// Clock Signal Priorities (higher runs first within a signal)
const (
	PriorityUpdateOrchestrator = 1
	PriorityPaintOrchestrator  = -1
	PriorityPaintObserver      = 0
)

// FrameInterval returns the clock interval for a target frame rate
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultTargetFPS
	}
	return time.Second / time.Duration(fps)
}
