package router

import (
	"github.com/labstack/echo/v4"

	"gigmarket/internal/adapter/api/handler"
	"gigmarket/internal/adapter/api/middleware"
)

func SetupProfileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, throttle echo.MiddlewareFunc) {
	profileHandler := handler.GetProfileHandler()
	postingHandler := handler.GetPostingHandler()

	me := e.Group("/v1/profiles/me")
	me.Use(authMiddleware.Authenticate, throttle)
	me.GET("", profileHandler.GetMe)
	me.PATCH("", profileHandler.UpdateMe)
	me.POST("/image", profileHandler.UploadMyImage)

	profiles := e.Group("/v1/profiles")
	profiles.GET("/:id", profileHandler.GetProfile)
	profiles.GET("/:id/page", profileHandler.GetProfilePage)
	profiles.GET("/:id/postings", postingHandler.ListProfilePostings)
}
