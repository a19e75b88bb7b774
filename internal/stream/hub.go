// Package stream pushes activity log events to WebSocket clients.
package stream

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Source is the event log a Hub streams from.
type Source interface {
	Subscribe(fn func(models.LogEvent)) (backlog []models.LogEvent, cancel func())
}

// Hub tracks connected WebSocket clients. Each client gets the log backlog
// followed by every new event, one JSON object per message.
type Hub struct {
	source Source

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan models.LogEvent

	// gone is closed when the client falls behind, disconnects or the hub
	// shuts down.
	gone     chan struct{}
	goneOnce sync.Once
}

func (c *client) drop() {
	c.goneOnce.Do(func() { close(c.gone) })
}

// enqueue runs under the source's lock and must not block. A client whose
// buffer is full is disconnected rather than allowed to stall the log.
func (c *client) enqueue(ev models.LogEvent) {
	select {
	case <-c.gone:
	case c.send <- ev:
	default:
		slog.Warn("log stream client too slow, dropping", "remote", c.conn.RemoteAddr().String())
		c.drop()
	}
}

// NewHub creates a Hub reading from source.
func NewHub(source Source) *Hub {
	return &Hub{
		source:  source,
		clients: make(map[*client]struct{}),
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		c.drop()
	}
	h.mu.Unlock()
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// ServeWS upgrades the request and streams events until the client goes
// away. The optional since query parameter skips that many backlog events.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	since := 0
	if s := r.URL.Query().Get("since"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			since = n
		}
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn: ws,
		send: make(chan models.LogEvent, sendBuffer),
		gone: make(chan struct{}),
	}
	if !h.add(c) {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}

	backlog, cancel := h.source.Subscribe(c.enqueue)
	slog.Info("log stream client connected", "remote", r.RemoteAddr, "backlog", len(backlog))

	defer func() {
		cancel()
		h.remove(c)
		slog.Info("log stream client disconnected", "remote", r.RemoteAddr)
	}()

	// Incoming messages are ignored; reading detects the close.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				c.drop()
				return
			}
		}
	}()

	if since < len(backlog) {
		for _, ev := range backlog[since:] {
			if err := c.write(ev); err != nil {
				return
			}
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-c.send:
			if err := c.write(ev); err != nil {
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-c.gone:
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (c *client) write(ev models.LogEvent) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(ev)
}
