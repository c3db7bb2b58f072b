package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/verdana-labs/esgbridge/internal/oracle"
	"github.com/verdana-labs/esgbridge/internal/token"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

const clientSendBuffer = 16

// Event is the envelope pushed to websocket subscribers.
type Event struct {
	Type string      `json:"type"` // "issuance" or "score_update"
	Data interface{} `json:"data"`
}

// Hub fans events out to connected websocket clients. Slow clients are
// dropped rather than allowed to backpressure the publishers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	logger  *logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an event hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  log,
	}
}

// Publish implements token.EventSink: every successful mint is pushed to all
// subscribers. Never blocks.
func (h *Hub) Publish(event token.IssuanceEvent) {
	h.broadcast(Event{Type: "issuance", Data: event})
}

// PublishScoreUpdate pushes a fresh ledger record to all subscribers.
func (h *Hub) PublishScoreUpdate(record oracle.ScoreRecord) {
	h.broadcast(Event{Type: "score_update", Data: record})
}

func (h *Hub) broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Buffer full: the client is too slow, close it.
			go h.remove(c)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a websocket subscription.
// GET /ws/events
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Error("Websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("clients", count).Debug("Websocket client connected")

	go h.writeLoop(c)
	go h.readLoop(c)
}

// writeLoop pushes queued events to one client.
func (h *Hub) writeLoop(c *client) {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
			return
		}
	}
}

// readLoop drains inbound frames so pings and close frames are processed.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

// remove drops a client and closes its connection.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
