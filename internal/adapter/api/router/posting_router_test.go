package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"gigmarket/internal/adapter/api/middleware"
)

func TestPublicPostingRoutesAreThrottled(t *testing.T) {
	e := echo.New()
	throttled := 0
	throttle := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			throttled++
			return c.NoContent(http.StatusTooManyRequests)
		}
	}
	SetupPostingRouter(e, middleware.NewAuthMiddleware(nil), throttle)

	for _, path := range []string{"/v1/postings", "/v1/postings?q=gardening", "/v1/postings/p1"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, path)
	}
	assert.Equal(t, 3, throttled)
}
