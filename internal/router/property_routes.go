package router

import (
	"github.com/labstack/echo/v4"

	"github.com/staywise/booking-api/internal/handler"
	"github.com/staywise/booking-api/internal/middleware"
)

// RegisterProperties registers the catalog.  Reads are public and go
// through the response cache; creation requires an admin token.
func RegisterProperties(e *echo.Echo, p *handler.PropertyHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(apiPrefix + "/properties")
	g.GET("", p.ListProperties, cache)
	g.GET("/:id", p.GetProperty, cache)
	g.POST("", p.CreateProperty, middleware.JWTAuth(jwtSecret), middleware.RequireAdmin())
}
