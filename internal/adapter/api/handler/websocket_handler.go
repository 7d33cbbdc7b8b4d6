package handler

import (
	"context"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"gigmarket/internal/infrastructure/authstate"
	ws "gigmarket/internal/infrastructure/websocket"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/errors"
	"gigmarket/pkg/logger"
	"gigmarket/pkg/response"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	chatUseCase *usecase.ChatUseCase
	hub         *authstate.Hub
	upgrader    gorillaws.Upgrader
}

var webSocketHandler *WebSocketHandler

// NewWebSocketHandler accepts upgrades from allowedOrigin and from clients
// that send no Origin header at all.
func NewWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase, hub *authstate.Hub, allowedOrigin string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		chatUseCase: chatUseCase,
		hub:         hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || origin == allowedOrigin
			},
		},
	}
}

func SetupWebSocketHandler(wsManager *ws.Manager, chatUseCase *usecase.ChatUseCase, hub *authstate.Hub, allowedOrigin string) {
	webSocketHandler = NewWebSocketHandler(wsManager, chatUseCase, hub, allowedOrigin)
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

func (h *WebSocketHandler) connect(c echo.Context, userID string) (*ws.Client, error) {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logger.Warn("WebSocket upgrade failed for %s: %v", userID, err)
		return nil, err
	}

	client := ws.NewClient(userID, conn)
	h.wsManager.Register(client)

	go client.WritePump()
	go client.ReadPump(h.wsManager)

	return client, nil
}

// ChatStream pushes the rendered conversation with :peerId every time it
// changes. The standing query ends with the socket.
func (h *WebSocketHandler) ChatStream(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.AuthRequired())
	}
	peerID := c.Param("peerId")

	peerName, err := h.chatUseCase.PeerName(c.Request().Context(), peerID)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := h.chatUseCase.Subscribe(ctx, userID, peerID)
	if err != nil {
		return response.Error(c, err)
	}
	defer sub.Stop()

	client, err := h.connect(c, userID)
	if err != nil {
		return nil
	}

	for {
		select {
		case messages, ok := <-sub.Updates():
			if !ok {
				if err := sub.Err(); err != nil {
					client.SendJSON(ws.TypeError, map[string]string{"message": "Chat stream ended"})
				}
				h.wsManager.Unregister(client)
				return nil
			}
			client.SendJSON(ws.TypeMessages, usecase.RenderChat(messages, userID, peerName))
		case <-client.Done():
			return nil
		}
	}
}

// SessionStream pushes the caller's auth state. Signing out delivers a final
// signed-out state and closes the socket.
func (h *WebSocketHandler) SessionStream(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.AuthRequired())
	}

	states, unsubscribe := h.hub.Subscribe(userID)
	defer unsubscribe()

	client, err := h.connect(c, userID)
	if err != nil {
		return nil
	}

	for {
		select {
		case state, ok := <-states:
			if !ok {
				h.wsManager.Unregister(client)
				return nil
			}
			client.SendJSON(ws.TypeSession, state)
		case <-client.Done():
			return nil
		}
	}
}
