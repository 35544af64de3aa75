package diagfeed

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/status"
)

// Phase names carried by snapshots
const (
	PhaseIntro   = "intro"
	PhaseRunning = "running"
)

// Snapshot is one feed message
type Snapshot struct {
	Session string         `json:"session"`
	Seq     uint64         `json:"seq"`
	Time    time.Time      `json:"time"`
	Phase   string         `json:"phase"`
	Metrics map[string]any `json:"metrics"`
}

// Broadcaster accepts encoded snapshots
type Broadcaster interface {
	Broadcast(payload []byte) bool
}

// Publisher encodes registry snapshots and hands them to a broadcaster
type Publisher struct {
	out     Broadcaster
	reg     *status.Registry
	session string
	seq     atomic.Uint64
	now     func() time.Time
	logger  *zap.Logger

	last atomic.Pointer[[]byte]
}

// NewPublisher creates a publisher for one session
func NewPublisher(out Broadcaster, reg *status.Registry, session string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		out:     out,
		reg:     reg,
		session: session,
		now:     time.Now,
		logger:  logger,
	}
}

// Snapshot captures the registry now
func (p *Publisher) Snapshot() Snapshot {
	metrics := p.reg.Snapshot()
	phase := PhaseRunning
	if v, ok := metrics[constants.MetricIntroActive]; ok && v == 1 {
		phase = PhaseIntro
	}
	return Snapshot{
		Session: p.session,
		Seq:     p.seq.Add(1),
		Time:    p.now().UTC(),
		Phase:   phase,
		Metrics: metrics,
	}
}

// Publish encodes a snapshot and broadcasts it
func (p *Publisher) Publish() error {
	payload, err := json.Marshal(p.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	p.last.Store(&payload)
	if !p.out.Broadcast(payload) {
		p.logger.Debug("feed snapshot dropped")
	}
	return nil
}

// Last returns the most recent payload, nil before the first publish
func (p *Publisher) Last() []byte {
	if ptr := p.last.Load(); ptr != nil {
		return *ptr
	}
	return nil
}

// Process adapts Publish to a timed process callback; it never unschedules itself
func (p *Publisher) Process(time.Duration) bool {
	if err := p.Publish(); err != nil {
		p.logger.Warn("feed publish failed", zap.Error(err))
	}
	return true
}
