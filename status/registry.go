package status

import "sync/atomic"

// Registry is the central metrics facade shared by the frame loop and its observers
// Writers cache pointers once; per-frame updates are plain atomic stores
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Int reads an integer metric, 0 when absent
// Absent keys are not created
func (r *Registry) Int(key string) int64 {
	if !r.Ints.Has(key) {
		return 0
	}
	return r.Ints.Get(key).Load()
}

// Snapshot copies every metric into a plain map keyed by metric name
// Bools become 0/1 so consumers can treat all numeric values uniformly
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		if ptr.Load() {
			out[key] = 1
		} else {
			out[key] = 0
		}
	})
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out[key] = ptr.Load()
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out[key] = ptr.Get()
	})
	r.Strings.Range(func(key string, ptr *AtomicString) {
		out[key] = ptr.Load()
	})
	return out
}
