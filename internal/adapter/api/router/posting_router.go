package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupPostingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, throttle echo.MiddlewareFunc) {
	postingHandler := handler.GetPostingHandler()

	// Public routes, throttled by client IP
	postings := e.Group("/v1/postings", throttle)
	postings.GET("", postingHandler.ListPostings)
	postings.GET("/:id", postingHandler.GetPosting)

	// Owner routes
	owned := e.Group("/v1/postings")
	owned.Use(authMiddleware.Authenticate, throttle)
	owned.POST("", postingHandler.CreatePosting)
	owned.PUT("/:id", postingHandler.UpdatePosting)
	owned.DELETE("/:id", postingHandler.DeletePosting)
}
