package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupLocationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, throttle echo.MiddlewareFunc) {
	locationHandler := handler.GetLocationHandler()

	locations := e.Group("/v1/locations")
	locations.Use(authMiddleware.Authenticate, throttle)

	locations.GET("", locationHandler.ListLocations)
	locations.POST("", locationHandler.SaveLocation)
	locations.DELETE("/:id", locationHandler.DeleteLocation)
}
