package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
)

func SetupCheckoutRouter(e *echo.Echo, throttle echo.MiddlewareFunc) {
	checkoutHandler := handler.GetCheckoutHandler()

	api := e.Group("/api", throttle)
	api.POST("/create-checkout-session", checkoutHandler.CreateCheckoutSession)
}
