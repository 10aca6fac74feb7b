package router

import (
	"github.com/labstack/echo/v4"

	"github.com/staywise/booking-api/internal/handler"
	"github.com/staywise/booking-api/internal/middleware"
)

// RegisterBookings registers booking endpoints under /api/bookings.  Every
// route requires a valid JWT; /all additionally requires the admin role.
// Booking creation is rate limited per user.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(apiPrefix+"/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", b.CreateBooking, limiter)
	g.GET("/my-bookings", b.MyBookings)
	g.GET("/all", b.AllBookings, middleware.RequireAdmin())
}
