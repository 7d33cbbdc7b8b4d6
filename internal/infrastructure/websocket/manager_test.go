package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerDeliversToEveryConnection(t *testing.T) {
	m := NewManager()
	a := NewClient("u1", nil)
	b := NewClient("u1", nil)
	other := NewClient("u2", nil)
	m.Register(a)
	m.Register(b)
	m.Register(other)

	assert.Equal(t, 2, m.SendToUser("u1", []byte("hi")))
	assert.Equal(t, "hi", string(<-a.Send))
	assert.Equal(t, "hi", string(<-b.Send))
	assert.Empty(t, other.Send)

	m.Unregister(a)
	assert.Equal(t, 1, m.SendToUser("u1", []byte("again")))
	assert.Equal(t, "again", string(<-b.Send))
	assert.False(t, a.Enqueue([]byte("late")))

	m.DisconnectUser("u1")
	assert.Equal(t, 0, m.SendToUser("u1", []byte("gone")))
	select {
	case <-b.Done():
	default:
		t.Fatal("expected client to be closed")
	}

	// Unregistering an already closed client is harmless.
	m.Unregister(b)
}

func TestWritePumpSendsEnvelope(t *testing.T) {
	m := NewManager()
	registered := make(chan *Client, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		c := NewClient("u1", conn)
		m.Register(c)
		go c.WritePump()
		go c.ReadPump(m)
		registered <- c
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	c := <-registered
	require.True(t, c.SendJSON(TypeSession, map[string]string{"userId": "u1"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, TypeSession, env.Type)
	assert.Equal(t, "u1", env.Data["userId"])

	conn.Close()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read pump did not unregister the client")
	}
}
