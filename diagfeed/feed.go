package diagfeed

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/vi-display/status"
)

const shutdownTimeout = 2 * time.Second

// Feed serves the websocket snapshot stream over HTTP
//
// Routes:
//
//	/ws        websocket subscription
//	/snapshot  most recent snapshot as JSON
type Feed struct {
	addr      string
	hub       *Hub
	publisher *Publisher
	logger    *zap.Logger

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc
	group    *errgroup.Group
}

// NewFeed creates a feed listening on addr
func NewFeed(addr string, reg *status.Registry, session string, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := NewHub(logger)
	return &Feed{
		addr:      addr,
		hub:       hub,
		publisher: NewPublisher(hub, reg, session, logger),
		logger:    logger,
	}
}

func (f *Feed) Name() string           { return "diagfeed" }
func (f *Feed) Dependencies() []string { return nil }

// Init validates the listen address
func (f *Feed) Init() error {
	if f.addr == "" {
		return errors.New("diagfeed: empty listen address")
	}
	if _, _, err := net.SplitHostPort(f.addr); err != nil {
		return fmt.Errorf("diagfeed: listen address %q: %w", f.addr, err)
	}
	return nil
}

// Start binds the listener and launches the hub and HTTP server
func (f *Feed) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.server != nil {
		return nil
	}

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return fmt.Errorf("diagfeed: listen: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", f.hub.ServeWS)
	mux.HandleFunc("/snapshot", f.serveSnapshot)

	f.listener = ln
	f.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	f.group = g

	g.Go(func() error {
		return f.hub.Run(gctx)
	})
	g.Go(func() error {
		if err := f.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("diagfeed: serve: %w", err)
		}
		return nil
	})

	f.logger.Info("diagnostics feed listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the server down and waits for the hub; safe to call more than once
func (f *Feed) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := f.server.Shutdown(ctx)

	// Hijacked websocket connections are closed by the hub on exit
	f.cancel()
	err := f.group.Wait()

	f.server = nil
	f.listener = nil
	f.cancel = nil
	f.group = nil
	return errors.Join(shutdownErr, err)
}

// Addr returns the bound address, or the configured one before Start
func (f *Feed) Addr() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listener != nil {
		return f.listener.Addr().String()
	}
	return f.addr
}

// Hub exposes the client hub
func (f *Feed) Hub() *Hub {
	return f.hub
}

// Publisher exposes the snapshot publisher for scheduling
func (f *Feed) Publisher() *Publisher {
	return f.publisher
}

func (f *Feed) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	payload := f.publisher.Last()
	if payload == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
