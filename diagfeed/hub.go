package diagfeed

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// broadcastBuffer bounds payloads queued between the frame loop and the hub
const broadcastBuffer = 16

// Hub fans snapshot payloads out to connected websocket clients
// All client bookkeeping happens on the Run goroutine
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	count      atomic.Int64
	logger     *zap.Logger
}

// NewHub creates a hub; call Run to start it
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run services registrations and broadcasts until ctx is cancelled
// On exit every client send channel is closed so write pumps hang up
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		h.count.Store(0)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug("feed client connected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.count.Store(int64(len(h.clients)))
				h.logger.Debug("feed client disconnected", zap.String("client", c.id), zap.Int("clients", len(h.clients)))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer
					delete(h.clients, c)
					close(c.send)
					h.count.Store(int64(len(h.clients)))
					h.logger.Warn("feed client dropped", zap.String("client", c.id))
				}
			}
		}
	}
}

// Broadcast queues payload for every client without blocking
// Returns false when the hub is backed up or stopped
func (h *Hub) Broadcast(payload []byte) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- payload:
		return true
	default:
		return false
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Done is closed once Run returns
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) add(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
