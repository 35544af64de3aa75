package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/status"
)

// ProcessFunc runs when a process interval elapses
// fired is the time accumulated since the previous run; returning false retires the process
type ProcessFunc func(fired time.Duration) bool

type process struct {
	name     string
	interval time.Duration
	fn       ProcessFunc
	acc      time.Duration
	dead     bool
}

// ProcessManager runs named background processes on the update signal
// Not safe for concurrent use; all calls happen on the clock goroutine
type ProcessManager struct {
	procs   []*process
	pending []*process
	ticking bool

	statCount *atomic.Int64
}

// NewProcessManager creates a manager, publishing its size to reg when non-nil
func NewProcessManager(reg *status.Registry) *ProcessManager {
	pm := &ProcessManager{
		procs: make([]*process, 0, 8),
	}
	if reg != nil {
		pm.statCount = reg.Ints.Get(constants.MetricProcesses)
	}
	return pm
}

// Add registers fn to run every interval, replacing any process with the same name
// A zero interval runs fn on every tick
func (pm *ProcessManager) Add(name string, interval time.Duration, fn ProcessFunc) {
	pm.Remove(name)

	p := &process{name: name, interval: interval, fn: fn}
	if pm.ticking {
		pm.pending = append(pm.pending, p)
		return
	}
	pm.procs = append(pm.procs, p)
	pm.publish()
}

// Remove retires the named process, reporting whether it existed
func (pm *ProcessManager) Remove(name string) bool {
	found := false
	for _, list := range [][]*process{pm.procs, pm.pending} {
		for _, p := range list {
			if p.name == name && !p.dead {
				p.dead = true
				found = true
			}
		}
	}
	if !pm.ticking {
		pm.compact()
	}
	return found
}

// Has reports whether a live process is registered under name
func (pm *ProcessManager) Has(name string) bool {
	for _, list := range [][]*process{pm.procs, pm.pending} {
		for _, p := range list {
			if p.name == name && !p.dead {
				return true
			}
		}
	}
	return false
}

// Len returns the number of live processes
func (pm *ProcessManager) Len() int {
	n := 0
	for _, list := range [][]*process{pm.procs, pm.pending} {
		for _, p := range list {
			if !p.dead {
				n++
			}
		}
	}
	return n
}

// Tick advances every process by elapsed
func (pm *ProcessManager) Tick(elapsed time.Duration) {
	pm.ticking = true
	for _, p := range pm.procs {
		if p.dead {
			continue
		}
		p.acc += elapsed
		if p.acc < p.interval {
			continue
		}
		fired := p.acc
		if p.interval > 0 {
			p.acc -= p.interval
			// Collapse a backlog into one run instead of bursting
			if p.acc >= p.interval {
				p.acc = 0
			}
		} else {
			p.acc = 0
		}
		if !p.fn(fired) {
			p.dead = true
		}
	}
	pm.ticking = false

	pm.procs = append(pm.procs, pm.pending...)
	pm.pending = pm.pending[:0]
	pm.compact()
}

// compact drops retired processes
func (pm *ProcessManager) compact() {
	live := pm.procs[:0]
	for _, p := range pm.procs {
		if !p.dead {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(pm.procs); i++ {
		pm.procs[i] = nil
	}
	pm.procs = live

	pending := pm.pending[:0]
	for _, p := range pm.pending {
		if !p.dead {
			pending = append(pending, p)
		}
	}
	pm.pending = pending
	pm.publish()
}

func (pm *ProcessManager) publish() {
	if pm.statCount != nil {
		pm.statCount.Store(int64(pm.Len()))
	}
}
