package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddlewareCountsByRoutePattern(t *testing.T) {
	e := echo.New()
	e.Use(HTTPMetricsMiddleware())
	e.GET("/api/properties/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return c.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/properties/:id", "200"))
	missBefore := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/properties/:id", "404"))

	for _, id := range []string{"a", "b", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/"+id, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/properties/:id", "200")))
	assert.Equal(t, missBefore+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/properties/:id", "404")))
}

func TestObserveBookingAddsRevenueOnlyWhenConfirmed(t *testing.T) {
	before := testutil.ToFloat64(bookingRevenue)

	ObserveBooking("confirmed", 15000)
	ObserveBooking("rejected", 9999)

	assert.Equal(t, before+15000, testutil.ToFloat64(bookingRevenue))
}
