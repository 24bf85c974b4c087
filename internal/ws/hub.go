// Package ws keeps the registry of live WebSocket connections and delivers
// best-effort push payloads to them. Delivery is keyed by a routing string
// (the user's numeric id when known, otherwise the token subject); a user
// with no live connection simply receives nothing — there is no backlog.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const sendBuffer = 16

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writeLoop serializes all writes to the connection; gorilla-style conns
// allow only one concurrent writer.
func (c *client) writeLoop() {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Register binds a connection to a routing key for the connection's lifetime.
// A reconnect under the same key replaces the previous connection.
func (h *Hub) Register(key string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	go c.writeLoop()

	h.mu.Lock()
	if prev, ok := h.clients[key]; ok {
		prev.close()
	}
	h.clients[key] = c
	h.mu.Unlock()
}

func (h *Hub) Unregister(key string, conn *websocket.Conn) {
	h.mu.Lock()
	if c, ok := h.clients[key]; ok && c.conn == conn {
		c.close()
		delete(h.clients, key)
	}
	h.mu.Unlock()
}

// Push sends a payload to the connection registered under key. It never
// blocks: an absent target or a full send buffer drops the payload.
func (h *Hub) Push(key string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: failed to marshal push payload for %s: %v", key, err)
		return
	}

	// The send stays under the read lock so a concurrent Unregister (which
	// closes the channel under the write lock) cannot interleave.
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[key]
	if !ok {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("ws: dropping push to %s, send buffer full", key)
	}
}

// Connected reports whether a live connection exists for the key.
func (h *Hub) Connected(key string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[key]
	return ok
}
