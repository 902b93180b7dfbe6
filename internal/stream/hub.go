package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	sendBuffer   = 64
	maxReadBytes = 512
)

// Hub fans frames out to connected spectators. It is safe for concurrent use;
// the sim goroutine publishes while HTTP handlers register clients.
type Hub struct {
	mutex    sync.RWMutex
	clients  map[*client]struct{}
	keyframe []byte
	closed   bool

	upgrader websocket.Upgrader
	log      *zap.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// spectators are read-only, accept any origin
				return true
			},
		},
		log: log,
	}
}

// Publish stores key as the frame new spectators start from and sends delta
// to everyone already connected.
func (h *Hub) Publish(key, delta Frame) error {
	keyBytes, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encoding keyframe: %w", err)
	}
	deltaBytes, err := json.Marshal(delta)
	if err != nil {
		return fmt.Errorf("encoding delta: %w", err)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.keyframe = keyBytes
	for c := range h.clients {
		h.enqueue(c, deltaBytes)
	}
	return nil
}

// Broadcast sends a frame to every connected spectator.
func (h *Hub) Broadcast(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		h.enqueue(c, data)
	}
	return nil
}

// enqueue drops clients that cannot keep up. Callers hold the write lock.
func (h *Hub) enqueue(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("dropping slow spectator", zap.String("remote", c.conn.RemoteAddr().String()))
		h.remove(c)
	}
}

func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams frames until the peer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.keyframe != nil {
		c.send <- h.keyframe
	}
	count := len(h.clients)
	h.mutex.Unlock()
	h.log.Info("spectator connected", zap.String("remote", conn.RemoteAddr().String()), zap.Int("clients", count))

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards inbound messages and notices when the peer goes away.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.mutex.Lock()
		h.remove(c)
		h.mutex.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxReadBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("spectator read failed", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// Close disconnects every spectator and refuses new ones.
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.closed = true
	for c := range h.clients {
		h.remove(c)
	}
}
