package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"StockView/internal/metrics"
	"StockView/internal/model"
)

// Message is the envelope for every WebSocket frame in both directions.
type Message struct {
	Type    string              `json:"type"`
	Request *model.ChartRequest `json:"request,omitempty"`
	Data    *model.ChartResult  `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Message types.
const (
	MsgSubscribe   = "subscribe"
	MsgUnsubscribe = "unsubscribe"
	MsgChart       = "chart"
	MsgError       = "error"
)

// Hub tracks live-chart clients and pushes rebuilt charts to them.
type Hub struct {
	charts  *Charts
	metrics *metrics.Metrics

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates a Hub. m may be nil.
func NewHub(charts *Charts, m *metrics.Metrics) *Hub {
	return &Hub{
		charts:  charts,
		metrics: m,
		clients: make(map[*Client]bool),
	}
}

// Register starts serving an upgraded connection.
func (h *Hub) Register(conn *websocket.Conn, defaults Defaults) *Client {
	client := &Client{
		id:       uuid.NewString(),
		conn:     conn,
		send:     make(chan []byte, 16),
		hub:      h,
		defaults: defaults,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}

	log.Printf("[INFO] ws client %s connected (%d total)", client.id, count)

	go client.writePump()
	go client.readPump()
	return client
}

// RemoveClient removes a client from the hub.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	count := len(h.clients)
	close(c.send)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// deliver queues msg for c unless c has gone away or its queue is full.
func (h *Hub) deliver(c *Client, msg Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[ERROR] ws client %s: encode %s: %v", c.id, msg.Type, err)
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		log.Printf("[WARN] ws client %s: send queue full, dropping %s", c.id, msg.Type)
		return false
	}
}

// RefreshAll rebuilds every subscribed client's chart with that client's
// current controls and pushes the result. Clients are served one by one.
func (h *Hub) RefreshAll(ctx context.Context) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	pushed := 0
	for _, c := range clients {
		if ctx.Err() != nil {
			return
		}
		req, ok := c.Request()
		if !ok {
			continue
		}
		if c.build(ctx, SourceRefresh, req) {
			pushed++
		}
	}
	if pushed > 0 {
		log.Printf("[INFO] live refresh pushed %d chart(s)", pushed)
	}
}
