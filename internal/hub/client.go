package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one connected real-time session.
type Client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	organizer bool

	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, buffer int, organizer bool) *Client {
	return &Client{
		id:        uuid.NewString(),
		conn:      conn,
		send:      make(chan []byte, buffer),
		organizer: organizer,
		done:      make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Organizer reports whether the client authenticated with an organizer token.
func (c *Client) Organizer() bool { return c.organizer }

// Closed reports whether the client is closing or closed.
func (c *Client) Closed() bool { return c.closed.Load() }

// enqueue hands msg to the write pump without blocking. It returns false if
// the client is closed or its buffer is full.
func (c *Client) enqueue(msg []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close stops the write pump. The send channel is never closed so a
// concurrent enqueue cannot panic.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}

func (c *Client) writePump(pingInterval, writeWait time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}
