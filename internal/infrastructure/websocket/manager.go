package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gigmarket/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Client represents a WebSocket connection client
type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mutex  sync.Mutex
	closed bool
	done   chan struct{}
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Enqueue queues a frame without blocking. A slow client loses the frame.
func (c *Client) Enqueue(message []byte) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- message:
		return true
	default:
		logger.Warn("WebSocket send buffer full for %s, dropping frame", c.UserID)
		return false
	}
}

func (c *Client) SendJSON(msgType string, data interface{}) bool {
	payload, err := Encode(msgType, data)
	if err != nil {
		logger.Error("Failed to encode WebSocket frame: %v", err)
		return false
	}
	return c.Enqueue(payload)
}

func (c *Client) close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	close(c.done)
}

// Manager tracks the open connections of every user. A user may hold
// several connections at once.
type Manager struct {
	clients map[string]map[*Client]struct{}
	mutex   sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (m *Manager) Register(c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conns, ok := m.clients[c.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		m.clients[c.UserID] = conns
	}
	conns[c] = struct{}{}
	logger.Debug("Client registered: %s (%s)", c.UserID, c.ID)
}

func (m *Manager) Unregister(c *Client) {
	m.mutex.Lock()
	if conns, ok := m.clients[c.UserID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(m.clients, c.UserID)
		}
	}
	m.mutex.Unlock()

	c.close()
	logger.Debug("Client unregistered: %s (%s)", c.UserID, c.ID)
}

// SendToUser queues message on every connection of userID.
func (m *Manager) SendToUser(userID string, message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for c := range m.clients[userID] {
		if c.Enqueue(message) {
			sent++
		}
	}
	return sent
}

// DisconnectUser closes every connection of userID.
func (m *Manager) DisconnectUser(userID string) {
	m.mutex.Lock()
	conns := m.clients[userID]
	delete(m.clients, userID)
	m.mutex.Unlock()

	for c := range conns {
		c.close()
	}
}

// ReadPump drains the connection until the peer goes away. Inbound frames
// other than control frames are ignored; both streams are server-push.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.UserID, err)
			}
			return
		}
	}
}

// WritePump sends queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error for %s: %v", c.UserID, err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
