package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// HTTPMetricsMiddleware instruments requests with Prometheus metrics.  The
// path label is the route pattern so ids do not explode cardinality.
func HTTPMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			ObserveHTTPRequest(c.Request().Method, routeLabel(c), strconv.Itoa(statusOf(c, err)), time.Since(start))
			return err
		}
	}
}

// statusOf reports the status the client will see, including errors that
// echo's error handler has not rendered yet.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func routeLabel(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return "unmatched"
}
