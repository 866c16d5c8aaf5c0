package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// clientBuffer is the number of undelivered events kept per client before new ones are dropped
const clientBuffer = 32

// Client is one websocket subscriber
type Client struct {
	ID     string
	tables map[string]bool
	send   chan []byte
}

// Send returns the channel of encoded events for the client
func (c *Client) Send() <-chan []byte {
	return c.send
}

func (c *Client) wants(table string) bool {
	return len(c.tables) == 0 || c.tables[table]
}

// Hub fans change events out to connected clients
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates an empty hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register adds a client interested in tables. An empty list subscribes to every table.
func (h *Hub) Register(tables []string) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		tables: make(map[string]bool, len(tables)),
		send:   make(chan []byte, clientBuffer),
	}
	for _, t := range tables {
		c.tables[t] = true
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.logger.Debug("events client registered", zap.String("client_id", c.ID), zap.Strings("tables", tables))
	return c
}

// Unregister removes the client and closes its channel
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		close(c.send)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers the event to every interested client.
// A client whose buffer is full misses the event.
func (h *Hub) Broadcast(ev ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("failed to encode change event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.wants(ev.Table) {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("events client too slow, dropping event", zap.String("client_id", c.ID))
		}
	}
}

// Listen broadcasts every event received on msgs until ctx is done or msgs is closed.
// msgs is normally the Channel() of a redis subscription to Channel.
func (h *Hub) Listen(ctx context.Context, msgs <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.logger.Warn("invalid change event", zap.String("payload", msg.Payload), zap.Error(err))
				continue
			}
			h.Broadcast(ev)
		}
	}
}
