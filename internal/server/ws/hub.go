// Package ws broadcasts leaderboard updates to connected WebSocket
// clients so an open client sees new scores land without polling.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufferSize is the channel buffer for outgoing messages per client.
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The game is served cross-origin in development.
		return true
	},
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub manages connected clients and fans broadcast messages out to them.
type Hub struct {
	clients map[*client]bool
	mu      sync.RWMutex
	logger  *zap.Logger

	closed    chan struct{}
	closeOnce sync.Once
}

// NewHub creates a Hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		logger:  logger,
		closed:  make(chan struct{}),
	}
}

// HandleWS upgrades the request and serves the connection until it drops.
// Connections arriving after Close are refused.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.closed:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}

	h.mu.Lock()
	select {
	case <-h.closed:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.clients[c] = true
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// Broadcast marshals v and sends it to every connected client. Slow
// clients are dropped rather than blocking the sender.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("ws marshal broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			go c.close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.closed)
	})

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (c *client) close() {
	c.hub.mu.Lock()
	if _, ok := c.hub.clients[c]; ok {
		delete(c.hub.clients, c)
		close(c.send)
	}
	c.hub.mu.Unlock()
	c.conn.Close()
}

// readPump discards incoming messages; the feed is one-way. It keeps the
// pong deadline fresh and tears the client down when the peer goes away.
func (c *client) readPump() {
	defer c.close()

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

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
