package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hupe1980/drawboard/core"
)

// WebSocket timeouts.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var pongFrame = []byte(`{"type":"pong"}`)

// Client is one connected WebSocket viewer.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	done     chan struct{}
	doneOnce sync.Once
}

// NewClient wraps an upgraded connection. The caller attaches the client to
// the hub and then calls Run.
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   core.NewID(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.opts.SendBuffer),
		done: make(chan struct{}),
	}
}

// ID returns the viewer id.
func (c *Client) ID() string { return c.id }

// Run pumps frames in both directions and blocks until the connection
// closes. The client detaches itself from the hub on the way out.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// close signals the pumps that the hub let go of this client. The send
// queue itself is never closed: the readPump queues pongs from its own
// goroutine, and a send on a closed channel panics even inside a select
// with a default arm.
func (c *Client) close() {
	c.doneOnce.Do(func() { close(c.done) })
}

// trySend queues a frame without blocking. False means the viewer fell
// behind or was already dropped.
func (c *Client) trySend(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// readPump consumes viewer messages. The only message viewers send is the
// protocol-level {"type":"ping"}; anything unparseable is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Detach(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == MsgPing {
			c.trySend(pongFrame)
		}
	}
}

// writePump writes queued frames and keeps the connection alive with pings.
// One frame per WebSocket message so viewers can json-decode each as-is.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
