package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/middleware"
)

// Setup registers every route. throttle is the general per-user request
// limiter; chat sends are limited separately inside the chat use case.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, throttle echo.MiddlewareFunc) {
	SetupAuthRouter(e, authMiddleware, throttle)
	SetupProfileRouter(e, authMiddleware, throttle)
	SetupPostingRouter(e, authMiddleware, throttle)
	SetupReviewRouter(e, authMiddleware, throttle)
	SetupChatRouter(e, authMiddleware)
	SetupFriendRouter(e, authMiddleware, throttle)
	SetupLocationRouter(e, authMiddleware, throttle)
	SetupOrderRouter(e, authMiddleware, throttle)
	SetupCheckoutRouter(e, throttle)
	SetupFileRouter(e, authMiddleware, throttle)
	SetupWebSocketRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
