package engine

import (
	"sync/atomic"
	"time"
)

// MockTimeProvider is a manually driven time source for tests
// Time only moves through SetTime and Advance
type MockTimeProvider struct {
	base   time.Time
	offset atomic.Int64 // nanoseconds past base
}

// NewMockTimeProvider creates a mock reading startTime
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{base: startTime}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.base.Add(m.Elapsed())
}

// SetTime jumps to t, which may be before the start time
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.offset.Store(int64(t.Sub(m.base)))
}

// Advance moves time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.offset.Add(int64(d))
}

// Elapsed returns how far time moved from the start
func (m *MockTimeProvider) Elapsed() time.Duration {
	return time.Duration(m.offset.Load())
}
