package diagfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hubHarness struct {
	hub    *Hub
	srv    *httptest.Server
	cancel context.CancelFunc
	done   chan error
}

func startHub(t *testing.T) *hubHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := &hubHarness{
		hub:    NewHub(nil),
		cancel: cancel,
		done:   make(chan error, 1),
	}
	go func() { h.done <- h.hub.Run(ctx) }()
	h.srv = httptest.NewServer(http.HandlerFunc(h.hub.ServeWS))
	t.Cleanup(h.stop)
	return h
}

func (h *hubHarness) stop() {
	h.cancel()
	<-h.hub.Done()
	h.srv.Close()
}

func (h *hubHarness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)
	a := h.dial(t)
	b := h.dial(t)
	waitClients(t, h.hub, 2)

	require.True(t, h.hub.Broadcast([]byte(`{"seq":1}`)))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		kind, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.JSONEq(t, `{"seq":1}`, string(msg))
	}
}

func TestHubForgetsClosedClient(t *testing.T) {
	h := startHub(t)
	conn := h.dial(t)
	waitClients(t, h.hub, 1)

	conn.Close()
	waitClients(t, h.hub, 0)
}

func TestHubStopHangsUpClients(t *testing.T) {
	h := startHub(t)
	conn := h.dial(t)
	waitClients(t, h.hub, 1)

	h.cancel()
	<-h.hub.Done()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, h.hub.Clients())
	assert.False(t, h.hub.Broadcast([]byte("late")))
}

func TestHubBroadcastDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	for i := 0; i < broadcastBuffer; i++ {
		require.True(t, hub.Broadcast([]byte("x")))
	}
	assert.False(t, hub.Broadcast([]byte("overflow")))
}
