package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 64 * 1024
)

// clientFrame is what subscribers send over the socket.
type clientFrame struct {
	Action string `json:"action"` // subscribe | unsubscribe
	Table  string `json:"table"`
	Filter string `json:"filter,omitempty"`
}

type subscription struct {
	table  string
	filter string
}

// connection represents a single WebSocket client.
type connection struct {
	userID string
	role   string
	conn   *websocket.Conn
	send   chan []byte
	subs   []subscription
}

// Hub fans row-change events out to subscribed connections. Events for
// rows carrying a user_id are only delivered to that user's own
// connections unless the connection is an admin one, mirroring the
// row scoping the persistence layer applies to reads.
type Hub struct {
	mu    sync.RWMutex
	conns map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[*connection]struct{}),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
}

// Publish delivers evt to every connection with a matching
// subscription. Slow clients are skipped, never blocked on.
func (h *Hub) Publish(evt ChangeEvent) {
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	fields := recordFields(evt)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if !c.wants(evt.Table, fields) {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

func (c *connection) wants(table string, fields map[string]any) bool {
	if owner, ok := fields["user_id"]; ok && c.role != "admin" && fmt.Sprint(owner) != c.userID {
		return false
	}
	for _, s := range c.subs {
		if s.table == table && matchFilter(fields, s.filter) {
			return true
		}
	}
	return false
}

// ServeWS registers a new connection and starts its read/write loops.
// Blocks until the client disconnects.
func (h *Hub) ServeWS(conn *websocket.Conn, userID, role string) {
	c := &connection{
		userID: userID,
		role:   role,
		conn:   conn,
		send:   make(chan []byte, 256),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.Table == "" {
			continue
		}

		switch frame.Action {
		case "subscribe":
			h.mu.Lock()
			c.subs = append(c.subs, subscription{table: frame.Table, filter: frame.Filter})
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			kept := c.subs[:0]
			for _, s := range c.subs {
				if s.table != frame.Table {
					kept = append(kept, s)
				}
			}
			c.subs = kept
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
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
