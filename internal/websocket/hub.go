// Package websocket pushes notification count updates to connected dashboards.
package websocket

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shelfsmart/internal/models"

	ws "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Event is the message sent to clients.
type Event struct {
	Type   string                    `json:"type"`
	Counts models.NotificationCounts `json:"counts"`
}

// EventCounts is the type of the event carrying notification counts.
const EventCounts = "notification_counts"

type client struct {
	conn *ws.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(ws.TextMessage, data)
}

// Hub tracks connected clients and remembers the last counts so that a new
// client is brought up to date as soon as it connects.
type Hub struct {
	logger   *zap.Logger
	origins  map[string]struct{}
	upgrader ws.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	last    *Event
}

// NewHub creates a hub that accepts connections from its own host and from
// allowedOrigins, given as scheme://host[:port].
func NewHub(logger *zap.Logger, allowedOrigins ...string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		logger:  logger,
		origins: make(map[string]struct{}, len(allowedOrigins)),
		clients: make(map[*client]struct{}),
	}
	for _, o := range allowedOrigins {
		h.origins[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	h.upgrader = ws.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// checkOrigin admits requests without an Origin header (non-browser
// clients), same-host pages and the configured origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	_, ok := h.origins[strings.ToLower(u.Scheme+"://"+u.Host)]
	return ok
}

func (h *Hub) register(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return len(h.clients)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Clients is the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishCounts sends counts to every client. Clients that cannot be written
// to are dropped.
func (h *Hub) PublishCounts(counts models.NotificationCounts) {
	evt := Event{Type: EventCounts, Counts: counts}
	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("Failed to encode websocket event", zap.Error(err))
		return
	}

	h.mu.Lock()
	h.last = &evt
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.logger.Debug("Dropping websocket client", zap.Error(err))
			h.unregister(c)
		}
	}
}

// Forward publishes every value received from updates until it is closed.
func (h *Hub) Forward(updates <-chan models.NotificationCounts) {
	for counts := range updates {
		h.PublishCounts(counts)
	}
}

// ServeHTTP upgrades the connection and keeps it open with pings until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	total := h.register(c)
	h.logger.Debug("Websocket client connected", zap.Int("clients", total))

	h.mu.RLock()
	last := h.last
	h.mu.RUnlock()
	if last != nil {
		if data, err := json.Marshal(last); err == nil {
			if err := c.write(data); err != nil {
				h.unregister(c)
				return
			}
		}
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.mu.Lock()
				err := conn.WriteControl(ws.PingMessage, nil, time.Now().Add(writeWait))
				c.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
	h.logger.Debug("Websocket client disconnected")
}
