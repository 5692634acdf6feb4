package sim

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/robocore-labs/maze-rover/logging"
)

// Hub fans engine state snapshots out to WebSocket subscribers.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64
	logger      logging.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// NewHub creates a hub with no subscribers.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		logger:      logger,
	}
}

// Subscribe registers a connection and returns its id for Unsubscribe.
func (h *Hub) Subscribe(conn *websocket.Conn) uint64 {
	id := h.nextID.Add(1)
	h.mu.Lock()
	h.subscribers[id] = &subscriber{conn: conn}
	h.mu.Unlock()
	return id
}

// Unsubscribe removes a connection and closes it.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		_ = sub.conn.Close()
	}
}

// Broadcast sends a state snapshot to every subscriber. Connections
// that fail to accept the message are dropped.
func (h *Hub) Broadcast(st State) {
	payload, err := json.Marshal(st)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("marshaling state snapshot: " + err.Error())
		}
		return
	}

	h.mu.Lock()
	subs := make(map[uint64]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		err := sub.conn.WriteMessage(websocket.TextMessage, payload)
		sub.mu.Unlock()
		if err != nil {
			h.Unsubscribe(id)
		}
	}
}

// Count returns the number of live subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
