package handler // handler defines http handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staywise/booking-api/internal/middleware"
)

// storeTimeout bounds every store call made while serving a request.
const storeTimeout = 5 * time.Second

var errNoIdentity = errors.New("missing or malformed user id in context")

// getUserID reads the authenticated user's id placed in the context by
// middleware.JWTAuth.
func getUserID(c echo.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(middleware.UserID(c))
	if err != nil {
		return primitive.NilObjectID, errNoIdentity
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs its validate
// tags.  On failure the 400 response has already been written and the
// returned bool is false.
func bindAndValidate(c echo.Context, req interface{ normalize() }) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.normalize()
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Validation failed",
			"errors":  fieldErrors(err),
		})
	}
	return true, nil
}

// serverError logs err and answers with a generic 500.  Internal error text
// never reaches the client.
func serverError(c echo.Context, logger *slog.Logger, op string, err error) error {
	logger.Error(op+" failed",
		"error", err,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
}

func trim(s *string) { *s = strings.TrimSpace(*s) }
