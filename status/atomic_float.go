package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat stores a float64 as its IEEE bits
// Zero value reads as 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores val
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Get loads the current value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}
