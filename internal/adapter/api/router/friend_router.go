package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupFriendRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, throttle echo.MiddlewareFunc) {
	friendHandler := handler.GetFriendHandler()

	friends := e.Group("/v1/friends")
	friends.Use(authMiddleware.Authenticate, throttle)

	friends.GET("", friendHandler.ListFriends)
	friends.GET("/requests", friendHandler.ListRequests)
	friends.POST("/requests/:id", friendHandler.SendRequest)
	friends.POST("/requests/:id/accept", friendHandler.AcceptRequest)
	friends.POST("/requests/:id/decline", friendHandler.DeclineRequest)
}
