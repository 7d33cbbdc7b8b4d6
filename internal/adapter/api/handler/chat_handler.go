package handler

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/domain/entity"
	ws "gigmarket/internal/infrastructure/websocket"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/response"
)

// MessageNotifier delivers a frame to every open socket of a user and
// reports how many took it.
type MessageNotifier interface {
	SendToUser(userID string, message []byte) int
}

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
	sockets     MessageNotifier
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// WithSockets makes SendMessage push each new message to the receiver's
// open WebSocket streams.
func (h *ChatHandler) WithSockets(sockets MessageNotifier) *ChatHandler {
	h.sockets = sockets
	return h
}

type sendMessageRequest struct {
	Text        string `json:"text" validate:"max=4000"`
	DeviceToken string `json:"deviceToken"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), getUserIDFromContext(c), usecase.SendMessageInput{
		ReceiverID:  c.Param("peerId"),
		Text:        req.Text,
		DeviceToken: req.DeviceToken,
	})
	if err != nil {
		return response.Error(c, err)
	}

	// Blank text sends nothing.
	if message == nil {
		return response.NoContent(c)
	}

	h.notifyReceiver(message)
	return response.Created(c, message)
}

func (h *ChatHandler) notifyReceiver(message *entity.Message) {
	if h.sockets == nil {
		return
	}
	frame, err := ws.Encode(ws.TypeNewMessage, message)
	if err != nil {
		logger.Error("Failed to encode message frame: %v", err)
		return
	}
	n := h.sockets.SendToUser(message.ReceiverID, frame)
	logger.Debug("Message %s pushed to %d socket(s) of %s", message.ID, n, message.ReceiverID)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	uid := getUserIDFromContext(c)
	peerID := c.Param("peerId")

	messages, err := h.chatUseCase.ListConversation(c.Request().Context(), uid, peerID)
	if err != nil {
		return response.Error(c, err)
	}

	peerName, err := h.chatUseCase.PeerName(c.Request().Context(), peerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, usecase.RenderChat(messages, uid, peerName))
}
