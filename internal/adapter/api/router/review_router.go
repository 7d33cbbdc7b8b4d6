package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, throttle echo.MiddlewareFunc) {
	reviewHandler := handler.GetReviewHandler()

	e.GET("/v1/profiles/:id/reviews", reviewHandler.ListReviews)
	e.POST("/v1/profiles/:id/reviews", reviewHandler.CreateReview, authMiddleware.Authenticate, throttle)
}
