package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/c0ughman/nasdaqst/backend/internal/contracts"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
	"github.com/c0ughman/nasdaqst/backend/pkg/metrics"
)

const (
	maxClients = 200
	sendBuffer = 8

	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// client owns one connection; only its writer goroutine writes to conn
type client struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub pushes every persisted composite result to websocket subscribers.
// Slow subscribers drop frames instead of blocking Publish.
// ⭐ SSOT: 실시간 composite 전송은 이 Hub에서만
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  *contracts.CompositeResult
	closed  bool
}

// NewHub creates a hub. latest seeds the snapshot sent to new subscribers and may be nil.
func NewHub(latest *contracts.CompositeResult, log *logger.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  log.WithComponent("realtime_hub"),
		clients: make(map[*client]struct{}),
		latest:  latest,
	}
}

// Publish implements brain.Publisher
func (h *Hub) Publish(result *contracts.CompositeResult) {
	if result == nil {
		return
	}

	data, err := encode(MessageComposite, result)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode composite message")
		return
	}

	h.mu.Lock()
	h.latest = result
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range clients {
		select {
		case c.sendCh <- data:
		default:
			dropped++
		}
	}

	h.logger.WithFields(map[string]interface{}{
		"run_id":      result.ID.String(),
		"subscribers": len(clients),
		"dropped":     dropped,
	}).Debug("Composite published")
}

// ServeHTTP upgrades the request and streams composite results until the peer disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	full := len(h.clients) >= maxClients || h.closed
	h.mu.RUnlock()
	if full {
		http.Error(w, "too many subscribers", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.WithError(err).Debug("WebSocket upgrade failed")
		return
	}

	c := &client{
		conn:   conn,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	snapshot := h.register(c)
	if snapshot != nil {
		c.sendCh <- snapshot
	}

	go h.writeLoop(c)
	h.readLoop(c)
}

// register adds c and returns the snapshot frame of the latest result, if any
func (h *Hub) register(c *client) []byte {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	latest := h.latest
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnectionsCurrent.Inc()
	h.logger.WithField("subscribers", count).Debug("Subscriber connected")

	if latest == nil {
		return nil
	}
	data, err := encode(MessageSnapshot, latest)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode snapshot")
		return nil
	}
	return data
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	c.close()
	if ok {
		metrics.WebSocketConnectionsCurrent.Dec()
	}
}

// readLoop discards client frames and detects disconnects
func (h *Hub) readLoop(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Count returns the number of connected subscribers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(writeWait))
		c.close()
	}
}

func encode(t MessageType, result *contracts.CompositeResult) ([]byte, error) {
	data, err := json.Marshal(Message{Type: t, SentAt: time.Now().UTC(), Data: result})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return data, nil
}
