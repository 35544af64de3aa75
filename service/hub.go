package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// State is a service's position in its lifecycle
type State uint8

const (
	StateRegistered State = iota
	StateInitialized
	StateRunning
	StateStopped
)

var stateNames = [...]string{"registered", "initialized", "running", "stopped"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

type entry struct {
	svc   Service
	state State
}

// Hub owns service instances and drives their lifecycle in dependency order
type Hub struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   []string // dependencies first, resolved by InitAll
	logger  *zap.Logger
}

// NewHub creates an empty service hub; logger may be nil
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Register adds a service; names must be unique
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.entries[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.entries[name] = &entry{svc: svc}
	h.order = nil
	return nil
}

// Get retrieves a service by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.entries[name]; ok {
		return e.svc, true
	}
	return nil, false
}

// State reports the lifecycle state of a registered service
func (h *Hub) State(name string) (State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.entries[name]; ok {
		return e.state, true
	}
	return 0, false
}

// InitAll resolves the start order and calls Init on services not yet initialized
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order, err := h.resolve()
	if err != nil {
		return err
	}
	h.order = order

	for _, name := range order {
		e := h.entries[name]
		if e.state != StateRegistered {
			continue
		}
		if err := e.svc.Init(); err != nil {
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		e.state = StateInitialized
	}
	return nil
}

// StartAll starts initialized services, dependencies first
// On failure the services started by this call are stopped in reverse order
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		return errors.New("services not initialized")
	}

	var started []string
	for _, name := range h.order {
		e := h.entries[name]
		if e.state != StateInitialized && e.state != StateStopped {
			continue
		}
		if err := e.svc.Start(); err != nil {
			for _, prev := range slices.Backward(started) {
				h.stop(prev)
			}
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		e.state = StateRunning
		started = append(started, name)
		h.logger.Debug("service started", zap.String("service", name))
	}
	return nil
}

// StopAll stops running services in reverse start order and joins their errors
func (h *Hub) StopAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for _, name := range slices.Backward(h.order) {
		if err := h.stop(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// stop halts one running service; callers hold mu
func (h *Hub) stop(name string) error {
	e := h.entries[name]
	if e.state != StateRunning {
		return nil
	}
	e.state = StateStopped
	if err := e.svc.Stop(); err != nil {
		h.logger.Warn("service stop failed", zap.String("service", name), zap.Error(err))
		return fmt.Errorf("service %s stop failed: %w", name, err)
	}
	h.logger.Debug("service stopped", zap.String("service", name))
	return nil
}

// resolve orders services so each follows its dependencies
// Siblings are visited by name so the order is deterministic
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(h.entries))
	order := make([]string, 0, len(h.entries))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch marks[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("circular dependency detected in services: %v", append(path, name))
		}
		marks[name] = visiting

		deps := slices.Sorted(slices.Values(h.entries[name].svc.Dependencies()))
		for _, dep := range deps {
			if _, ok := h.entries[dep]; !ok {
				return fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		marks[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range h.sortedNames() {
		if err := visit(name, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (h *Hub) sortedNames() []string {
	names := make([]string, 0, len(h.entries))
	for name := range h.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Names returns service names in start order once initialized, sorted before that
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.order != nil {
		return slices.Clone(h.order)
	}
	return h.sortedNames()
}
