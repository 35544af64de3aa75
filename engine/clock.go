package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/status"
)

// ErrReentrantTick is returned when Step is called from inside a slot
var ErrReentrantTick = errors.New("clock tick already in progress")

// TimerContext is the payload of one clock cycle, shared by the update and paint signals
type TimerContext struct {
	Elapsed time.Duration // since the previous cycle, 0 on the first
	Now     time.Time
	Tick    uint64
}

// FrameClock drives the frame loop on a fixed interval
// Each cycle emits Update then Paint on the calling goroutine; no cycle starts while another runs
type FrameClock struct {
	Update *Signal
	Paint  *Signal

	timeProvider TimeProvider
	interval     time.Duration

	// Cycle state, owned by the stepping goroutine
	lastTick  time.Time
	tickCount uint64
	stepping  atomic.Bool

	// Work handed over from other goroutines, run at the start of the next cycle
	posted chan func()

	// Control
	running  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}

	statTicks *atomic.Int64
}

// NewFrameClock creates a clock ticking every interval
func NewFrameClock(interval time.Duration, timeProvider TimeProvider) *FrameClock {
	if interval <= 0 {
		interval = constants.FrameInterval(constants.DefaultTargetFPS)
	}
	if timeProvider == nil {
		timeProvider = NewMonotonicTimeProvider()
	}
	return &FrameClock{
		Update:       NewSignal(),
		Paint:        NewSignal(),
		timeProvider: timeProvider,
		interval:     interval,
		posted:       make(chan func(), constants.PostQueueSize),
		stopChan:     make(chan struct{}),
	}
}

// SetRegistry publishes the cycle count under engine.ticks, must be called before Run
func (c *FrameClock) SetRegistry(reg *status.Registry) {
	if reg == nil {
		return
	}
	c.statTicks = reg.Ints.Get(constants.MetricTicks)
}

// Interval returns the cycle interval
func (c *FrameClock) Interval() time.Duration {
	return c.interval
}

// Ticks returns the number of completed or started cycles
func (c *FrameClock) Ticks() uint64 {
	return c.tickCount
}

// Post queues fn to run on the clock goroutine before the next Update emission
// Returns false when the queue is full and fn was dropped
func (c *FrameClock) Post(fn func()) bool {
	select {
	case c.posted <- fn:
		return true
	default:
		return false
	}
}

// Step runs one cycle synchronously: posted work, Update, then Paint
func (c *FrameClock) Step() error {
	if !c.stepping.CompareAndSwap(false, true) {
		return ErrReentrantTick
	}
	defer c.stepping.Store(false)

	c.drainPosted()

	now := c.timeProvider.Now()
	var elapsed time.Duration
	if !c.lastTick.IsZero() {
		elapsed = now.Sub(c.lastTick)
		if elapsed < 0 {
			elapsed = 0
		}
	}
	c.lastTick = now
	c.tickCount++
	if c.statTicks != nil {
		c.statTicks.Store(int64(c.tickCount))
	}

	tc := TimerContext{
		Elapsed: elapsed,
		Now:     now,
		Tick:    c.tickCount,
	}

	if err := c.Update.Emit(tc); err != nil {
		return fmt.Errorf("update tick %d: %w", tc.Tick, err)
	}
	if err := c.Paint.Emit(tc); err != nil {
		return fmt.Errorf("paint tick %d: %w", tc.Tick, err)
	}
	return nil
}

// drainPosted runs queued work without blocking
func (c *FrameClock) drainPosted() {
	for {
		select {
		case fn := <-c.posted:
			fn()
		default:
			return
		}
	}
}

// Run steps the clock every interval until ctx is done, Stop is called, or a cycle fails
// Returns the cycle error, or nil on cancellation
func (c *FrameClock) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("frame clock already running")
	}
	defer c.running.Store(false)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	nextDeadline := c.timeProvider.Now()
	maxBehind := c.interval * constants.MaxCatchUpIntervals

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.stopChan:
			return nil
		default:
		}

		if err := c.Step(); err != nil {
			return err
		}

		now := c.timeProvider.Now()
		nextDeadline = nextDeadline.Add(c.interval)
		if now.Sub(nextDeadline) > maxBehind {
			nextDeadline = now.Add(c.interval)
		}

		sleepDuration := nextDeadline.Sub(now)
		if sleepDuration <= 0 {
			continue
		}

		timer.Reset(sleepDuration)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil
		case <-c.stopChan:
			return nil
		}
	}
}

// Stop makes a running Run return after the current cycle
func (c *FrameClock) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}
