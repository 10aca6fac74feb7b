package router

import (
	"github.com/labstack/echo/v4"

	"github.com/staywise/booking-api/internal/handler"
	"github.com/staywise/booking-api/internal/middleware"
)

// RegisterAuth registers signup, login and profile under /api/auth.  The
// credential endpoints share the limiter; profile requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(apiPrefix + "/auth")
	g.POST("/signup", a.Signup, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/profile", a.Profile, middleware.JWTAuth(jwtSecret))
}
