package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

// SetupWebSocketRouter registers the push streams. Browsers authenticate
// with ?token= on the handshake.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()

	ws := e.Group("/v1/ws")
	ws.Use(authMiddleware.Authenticate)

	ws.GET("/chats/:peerId", wsHandler.ChatStream)
	ws.GET("/session", wsHandler.SessionStream)
}
