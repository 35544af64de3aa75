package engine

import "sync"

// Slot is a callback connected to a Signal
// A non-nil error stops the emission and is returned to the emitter
type Slot func(tc TimerContext) error

type slotEntry struct {
	id       uint64
	fn       Slot
	priority int
	index    int // registration order for stable sort
}

// Signal is an ordered set of slots invoked synchronously on Emit
// Higher priority slots run first; equal priorities run in connection order
type Signal struct {
	mu       sync.Mutex
	slots    []slotEntry
	regCount int
	nextID   uint64
}

// Connection identifies a connected slot
type Connection struct {
	sig *Signal
	id  uint64
}

// NewSignal creates an empty signal
func NewSignal() *Signal {
	return &Signal{
		slots: make([]slotEntry, 0, 4),
	}
}

// Connect adds fn at the given priority. Maintains sorted order via insertion sort
func (s *Signal) Connect(priority int, fn Slot) Connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry := slotEntry{
		id:       s.nextID,
		fn:       fn,
		priority: priority,
		index:    s.regCount,
	}
	s.regCount++

	pos := len(s.slots)
	for i, e := range s.slots {
		if priority > e.priority {
			pos = i
			break
		}
	}

	s.slots = append(s.slots, slotEntry{})
	copy(s.slots[pos+1:], s.slots[pos:])
	s.slots[pos] = entry

	return Connection{sig: s, id: entry.id}
}

// Disconnect removes the slot; safe to call more than once
func (c Connection) Disconnect() {
	if c.sig == nil {
		return
	}
	c.sig.mu.Lock()
	defer c.sig.mu.Unlock()

	for i, e := range c.sig.slots {
		if e.id == c.id {
			c.sig.slots = append(c.sig.slots[:i], c.sig.slots[i+1:]...)
			return
		}
	}
}

// Len returns the number of connected slots
func (s *Signal) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

// Emit calls every slot in order, stopping at the first error
// Slots connected or disconnected during emission take effect on the next Emit
func (s *Signal) Emit(tc TimerContext) error {
	s.mu.Lock()
	snapshot := make([]Slot, len(s.slots))
	for i, e := range s.slots {
		snapshot[i] = e.fn
	}
	s.mu.Unlock()

	for _, fn := range snapshot {
		if err := fn(tc); err != nil {
			return err
		}
	}
	return nil
}
