package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/adapter/api"
	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	ws "gigmarket/internal/infrastructure/websocket"
	"gigmarket/internal/usecase"
)

type memoryMessages struct {
	created []*entity.Message
}

func (m *memoryMessages) Create(ctx context.Context, msg *entity.Message) error {
	msg.ID = "m1"
	msg.Timestamp = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.created = append(m.created, msg)
	return nil
}

func (m *memoryMessages) ListConversation(ctx context.Context, a, b string) ([]*entity.Message, error) {
	return m.created, nil
}

func (m *memoryMessages) WatchConversation(ctx context.Context, a, b string) repository.MessageIterator {
	return nil
}

type recordingSockets struct {
	frames map[string][][]byte
}

func (r *recordingSockets) SendToUser(userID string, message []byte) int {
	if r.frames == nil {
		r.frames = make(map[string][][]byte)
	}
	r.frames[userID] = append(r.frames[userID], message)
	return 1
}

func postMessage(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Validator = api.NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/chats/bob/messages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("peerId")
	c.SetParamValues("bob")
	c.Set("uid", "alice")

	require.NoError(t, h.SendMessage(c))
	return rec
}

func TestSendMessagePushesToReceiverSockets(t *testing.T) {
	chat := usecase.NewChatUseCase(&memoryMessages{}, nil, nil, nil, nil)
	sockets := &recordingSockets{}
	h := NewChatHandler(chat).WithSockets(sockets)

	rec := postMessage(t, h, `{"text":"Is the bike still available?"}`)
	chat.Wait()
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, sockets.frames["bob"], 1)
	assert.Empty(t, sockets.frames["alice"])

	var frame struct {
		Type string         `json:"type"`
		Data entity.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sockets.frames["bob"][0], &frame))
	assert.Equal(t, ws.TypeNewMessage, frame.Type)
	assert.Equal(t, "Is the bike still available?", frame.Data.Text)
	assert.Equal(t, "alice", frame.Data.SenderID)
	assert.False(t, frame.Data.Timestamp.IsZero())
}

func TestSendBlankMessagePushesNothing(t *testing.T) {
	chat := usecase.NewChatUseCase(&memoryMessages{}, nil, nil, nil, nil)
	sockets := &recordingSockets{}
	h := NewChatHandler(chat).WithSockets(sockets)

	rec := postMessage(t, h, `{"text":"   "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sockets.frames)
}
