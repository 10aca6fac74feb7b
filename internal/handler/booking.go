package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staywise/booking-api/internal/repository"
	"github.com/staywise/booking-api/internal/service"
)

// BookingHandler exposes booking creation and the two booking listings.
type BookingHandler struct {
	Bookings *service.BookingService
	Logger   *slog.Logger
}

func NewBookingHandler(bookings *service.BookingService, logger *slog.Logger) *BookingHandler {
	if bookings == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Logger: logger}
}

type createBookingReq struct {
	PropertyID string `json:"propertyId" validate:"required,mongodb"`
	CheckIn    string `json:"checkIn" validate:"required"`
	CheckOut   string `json:"checkOut" validate:"required"`
	Guests     int    `json:"guests" validate:"min=1"`
}

func (r *createBookingReq) normalize() {
	trim(&r.PropertyID)
	trim(&r.CheckIn)
	trim(&r.CheckOut)
}

// parseDate accepts a calendar date (2024-06-01) or a full RFC 3339
// timestamp as sent by date pickers.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CreateBooking books a property for the authenticated user.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	var req createBookingReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	checkIn, okIn := parseDate(req.CheckIn)
	checkOut, okOut := parseDate(req.CheckOut)
	if !okIn || !okOut {
		var errs []fieldError
		if !okIn {
			errs = append(errs, fieldError{Field: "checkIn", Message: "checkIn must be a valid date"})
		}
		if !okOut {
			errs = append(errs, fieldError{Field: "checkOut", Message: "checkOut must be a valid date"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Validation failed", "errors": errs})
	}
	propertyID, _ := primitive.ObjectIDFromHex(req.PropertyID) // validated by the mongodb tag

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	booking, err := h.Bookings.Create(ctx, service.CreateBookingInput{
		PropertyID: propertyID,
		UserID:     uid,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     req.Guests,
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": ve.Message})
		case errors.Is(err, repository.ErrPropertyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
		}
		return serverError(c, h.Logger, "create booking", err)
	}

	h.Logger.Info("booking created",
		"booking_id", booking.ID.Hex(),
		"property_id", req.PropertyID,
		"user_id", uid.Hex(),
		"total_price", booking.TotalPrice,
	)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// MyBookings lists the authenticated user's bookings, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or expired token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	bookings, err := h.Bookings.ListForUser(ctx, uid)
	if err != nil {
		return serverError(c, h.Logger, "list my bookings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Bookings fetched successfully",
		"count":    len(bookings),
		"bookings": bookings,
	})
}

// AllBookings lists every booking.  Admin only; the role check happens in
// middleware before this handler runs.
func (h *BookingHandler) AllBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return serverError(c, h.Logger, "list all bookings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "All bookings fetched successfully",
		"count":    len(bookings),
		"bookings": bookings,
	})
}

