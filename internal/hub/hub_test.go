package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/errors"
)

func TestHub_BroadcastSkipsClosedClients(t *testing.T) {
	h := New(Options{SendBuffer: 4})

	clients := make([]*Client, 4)
	for i := range clients {
		clients[i] = newClient(nil, 4, false)
		h.Add(clients[i])
	}
	clients[2].close()

	assert.Equal(t, 3, h.Broadcast(HintEvent{Hint: "north"}))

	for i, c := range clients {
		if i == 2 {
			assert.Len(t, c.send, 0)
			continue
		}
		require.Len(t, c.send, 1)
		var msg Message
		require.NoError(t, json.Unmarshal(<-c.send, &msg))
		assert.Equal(t, Message{Type: TypeHint, Hint: "north"}, msg)
	}
}

func TestHub_BroadcastSkipsFullBuffer(t *testing.T) {
	h := New(Options{})
	slow := newClient(nil, 1, false)
	fast := newClient(nil, 8, false)
	h.Add(slow)
	h.Add(fast)

	assert.Equal(t, 2, h.Broadcast(AllLocksEvent{Locked: true}))
	assert.Equal(t, 1, h.Broadcast(AllLocksEvent{Locked: false}))
	assert.Len(t, fast.send, 2)
}

func TestHub_RemoveAndCount(t *testing.T) {
	h := New(Options{})
	a := newClient(nil, 1, false)
	b := newClient(nil, 1, false)
	h.Add(a)
	h.Add(b)
	require.Equal(t, 2, h.Count())

	h.Remove(a)
	h.Remove(a)
	assert.Equal(t, 1, h.Count())
	assert.True(t, a.Closed())

	h.Close()
	assert.Equal(t, 0, h.Count())
	assert.True(t, b.Closed())
	assert.Equal(t, 0, h.Broadcast(HintEvent{Hint: "late"}))
}

type recordingHandler struct {
	mu       sync.Mutex
	commands []Command
	err      error
}

func (r *recordingHandler) HandleCommand(_ context.Context, cmd Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
	return r.err
}

func (r *recordingHandler) received() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

func startServer(t *testing.T, h *Hub) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(v))
}

func TestHub_FanOutAfterDisconnect(t *testing.T) {
	h := New(Options{})
	url := startServer(t, h)

	conns := make([]*websocket.Conn, 4)
	for i := range conns {
		conns[i] = dial(t, url)
	}
	require.Eventually(t, func() bool { return h.Count() == 4 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conns[3].Close())
	require.Eventually(t, func() bool { return h.Count() == 3 }, 2*time.Second, 10*time.Millisecond)

	delivered := h.Broadcast(TeamLockEvent{TeamName: "Autobots", Locked: true})
	assert.Equal(t, 3, delivered)

	for _, conn := range conns[:3] {
		var msg Message
		readJSON(t, conn, &msg)
		assert.Equal(t, TypeLock, msg.Type)
		assert.Equal(t, "Autobots", msg.TeamName)
	}
}

func TestHub_DispatchesCommands(t *testing.T) {
	h := New(Options{})
	handler := &recordingHandler{}
	h.SetHandler(handler)
	conn := dial(t, startServer(t, h))

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "lock", "team_name": "Autobots"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "unlock_all"}))

	require.Eventually(t, func() bool { return len(handler.received()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []Command{
		TeamLockCommand{TeamName: "Autobots", Locked: true},
		AllLocksCommand{Locked: false},
	}, handler.received())
}

func TestHub_RejectsBadCommandToSenderOnly(t *testing.T) {
	h := New(Options{})
	handler := &recordingHandler{}
	h.SetHandler(handler)
	url := startServer(t, h)

	sender := dial(t, url)
	bystander := dial(t, url)
	require.Eventually(t, func() bool { return h.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(`{"type":"hint"}`)))

	var reply ErrorMessage
	readJSON(t, sender, &reply)
	assert.Equal(t, TypeError, reply.Type)
	assert.Equal(t, ErrMissingHint.Error(), reply.Error)
	assert.Empty(t, handler.received())

	require.NoError(t, bystander.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := bystander.ReadMessage()
	assert.Error(t, err, "bystander must not receive the error reply")
}

func TestHub_HandlerErrorIsReplied(t *testing.T) {
	h := New(Options{})
	h.SetHandler(&recordingHandler{err: errors.New(errors.ErrCodeNotFound, "Team not found")})
	conn := dial(t, startServer(t, h))

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "lock", "team_name": "Ghosts"}))

	var reply ErrorMessage
	readJSON(t, conn, &reply)
	assert.Equal(t, "Team not found", reply.Error)
}

func TestHub_RequireOrganizer(t *testing.T) {
	h := New(Options{
		RequireOrganizer: true,
		Authorize:        func(token string) bool { return token == "organizer-token" },
	})
	handler := &recordingHandler{}
	h.SetHandler(handler)
	url := startServer(t, h)

	guest := dial(t, url)
	require.NoError(t, guest.WriteJSON(map[string]string{"type": "lock_all"}))
	var reply ErrorMessage
	readJSON(t, guest, &reply)
	assert.Equal(t, "Organizer authorization required", reply.Error)
	assert.Empty(t, handler.received())

	organizer := dial(t, url+"?token=organizer-token")
	require.NoError(t, organizer.WriteJSON(map[string]string{"type": "lock_all"}))
	require.Eventually(t, func() bool { return len(handler.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
}
