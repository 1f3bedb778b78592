package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/metrics"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

// CommandHandler executes commands received over the real-time channel.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd Command) error
}

type Options struct {
	SendBuffer     int
	MaxMessageSize int64
	PingInterval   time.Duration
	WriteWait      time.Duration
	AllowedOrigin  string

	// RequireOrganizer rejects commands from clients that did not present a
	// token accepted by Authorize. Listening is always allowed.
	RequireOrganizer bool
	Authorize        func(token string) bool

	Metrics *metrics.Metrics
}

func (o *Options) setDefaults() {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 16
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 4096
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
}

// Hub is the registry of connected clients.
type Hub struct {
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*Client]struct{}
	handler CommandHandler
}

func New(opts Options) *Hub {
	opts.setDefaults()

	h := &Hub{
		opts:    opts,
		clients: make(map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SetHandler installs the command handler. Commands that arrive before a
// handler is set are rejected.
func (h *Hub) SetHandler(handler CommandHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.opts.Metrics.ClientConnected()
}

// Remove unregisters and closes c. Removing an unknown client is a no-op.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	c.close()
	if ok {
		h.opts.Metrics.ClientDisconnected()
	}
}

// Each calls fn for every registered client. fn must not call Add or Remove.
func (h *Hub) Each(fn func(*Client)) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		fn(c)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers e to every open client and returns how many accepted
// it. Closed clients and clients with a full buffer are skipped.
func (h *Hub) Broadcast(e Event) int {
	msg := Encode(e)
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to encode event", "type", msg.Type, "error", err)
		return 0
	}

	delivered, skipped := 0, 0
	h.Each(func(c *Client) {
		if c.enqueue(payload) {
			delivered++
		} else {
			skipped++
		}
	})

	h.opts.Metrics.ObserveBroadcast(msg.Type, delivered, skipped)
	logger.Debug("Broadcast event", "type", msg.Type, "delivered", delivered, "skipped", skipped)
	return delivered
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
		h.opts.Metrics.ClientDisconnected()
	}
}

// ServeWS upgrades the request and runs the client until it disconnects.
// An organizer token may be passed in the "token" query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	organizer := false
	if token := r.URL.Query().Get("token"); token != "" && h.opts.Authorize != nil {
		organizer = h.opts.Authorize(token)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := newClient(conn, h.opts.SendBuffer, organizer)
	h.Add(client)
	logger.Info("Client connected", "client_id", client.id, "organizer", organizer)

	go client.writePump(h.opts.PingInterval, h.opts.WriteWait)
	h.readPump(r.Context(), client)
}

func (h *Hub) readPump(ctx context.Context, c *Client) {
	defer func() {
		h.Remove(c)
		_ = c.conn.Close()
		logger.Info("Client disconnected", "client_id", c.id)
	}()

	pongWait := h.opts.PingInterval * 10 / 9
	c.conn.SetReadLimit(h.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Client read error", "client_id", c.id, "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		h.dispatch(ctx, c, data)
	}
}

// dispatch decodes and runs one inbound frame. Failures are reported to c
// only.
func (h *Hub) dispatch(ctx context.Context, c *Client, data []byte) {
	cmd, err := DecodeCommand(data)
	if err != nil {
		h.reply(c, err.Error())
		return
	}

	if h.opts.RequireOrganizer && !c.organizer {
		h.reply(c, "Organizer authorization required")
		return
	}

	h.mu.RLock()
	handler := h.handler
	h.mu.RUnlock()
	if handler == nil {
		h.reply(c, "Commands are not accepted")
		return
	}

	if err := handler.HandleCommand(ctx, cmd); err != nil {
		if errors.CodeOf(err) == errors.ErrCodeInternalError {
			logger.Error("Command failed", "type", cmd.Type(), "client_id", c.id, "error", err)
		}
		h.reply(c, errors.PublicMessage(err))
	}
}

func (h *Hub) reply(c *Client, text string) {
	payload, err := json.Marshal(ErrorMessage{Type: TypeError, Error: text})
	if err != nil {
		return
	}
	c.enqueue(payload)
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	allowed := h.opts.AllowedOrigin
	if allowed == "" || allowed == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == allowed
}
