package engine

import "time"

// TimeProvider is the wall-clock source for the frame loop
// Swapped for MockTimeProvider in tests
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider returns time.Now, which carries a monotonic reading
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}
