// Package service holds the booking rules that sit between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staywise/booking-api/internal/model"
	"github.com/staywise/booking-api/internal/observability/metrics"
	"github.com/staywise/booking-api/internal/queue"
)

// ErrValidation marks a booking request that can never succeed as sent.
// Handlers map it to 400 with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError carries the client-facing message of a rejected booking.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PropertyStore resolves the property being booked.
type PropertyStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error)
}

// BookingStore persists bookings and serves the joined listings.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error)
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
}

// UserLookup resolves the caller for the booking response.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// EventPublisher delivers booking.confirmed events.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// CreateBookingInput is a booking request after boundary parsing.
type CreateBookingInput struct {
	PropertyID primitive.ObjectID
	UserID     primitive.ObjectID
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
}

type BookingService struct {
	properties PropertyStore
	bookings   BookingStore
	users      UserLookup
	events     EventPublisher
	logger     *slog.Logger

	now            func() time.Time
	publishTimeout time.Duration
	inflight       sync.WaitGroup
}

// NewBookingService wires the service.  events may be nil, in which case no
// booking.confirmed events are emitted.
func NewBookingService(properties PropertyStore, bookings BookingStore, users UserLookup, events EventPublisher, logger *slog.Logger) *BookingService {
	if properties == nil || bookings == nil || users == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		properties:     properties,
		bookings:       bookings,
		users:          users,
		events:         events,
		logger:         logger.With("component", "booking-service"),
		now:            time.Now,
		publishTimeout: 10 * time.Second,
	}
}

// Nights is the number of nights between check-in and check-out, with any
// partial day counted as a whole night.  It is zero or negative for an
// empty or reversed range.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// Create validates the request against the property, prices it and stores
// a confirmed booking.  The returned detail embeds the property and user
// summaries.  Rejections wrap ErrValidation; a missing property surfaces
// the store's not-found error.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*model.BookingDetail, error) {
	prop, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		metrics.ObserveBooking("rejected", 0)
		return nil, err
	}
	if err := validateRequest(prop, in); err != nil {
		metrics.ObserveBooking("rejected", 0)
		return nil, err
	}

	nights := Nights(in.CheckIn, in.CheckOut)
	b := &model.Booking{
		UserID:     in.UserID,
		PropertyID: prop.ID,
		CheckIn:    in.CheckIn.UTC(),
		CheckOut:   in.CheckOut.UTC(),
		Guests:     in.Guests,
		TotalPrice: float64(nights) * prop.Price,
		Status:     model.BookingConfirmed,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		metrics.ObserveBooking("error", 0)
		return nil, fmt.Errorf("store booking: %w", err)
	}
	metrics.ObserveBooking("confirmed", b.TotalPrice)

	detail := &model.BookingDetail{
		ID:         b.ID,
		UserID:     b.UserID,
		Property:   prop.Summary(),
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if u, err := s.users.GetByID(ctx, in.UserID); err == nil {
		detail.User = u.Summary()
	} else {
		s.logger.Warn("booking user lookup failed", "user_id", in.UserID.Hex(), "error", err)
	}

	s.publish(b, prop, nights)
	return detail, nil
}

func validateRequest(prop *model.Property, in CreateBookingInput) error {
	if !prop.Available {
		return invalid("Property is not available")
	}
	if in.Guests < 1 {
		return invalid("At least 1 guest is required")
	}
	if in.Guests > prop.MaxGuests {
		return invalid("Property can accommodate maximum %d guests", prop.MaxGuests)
	}
	if Nights(in.CheckIn, in.CheckOut) < 1 {
		return invalid("Check-out date must be after check-in date")
	}
	return nil
}

// ListForUser returns the caller's bookings, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ListAll returns every booking, newest first.  Callers must have checked
// the admin role.
func (s *BookingService) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	return s.bookings.ListAll(ctx)
}

// publish emits booking.confirmed in the background.  Failures are logged
// and counted; the booking itself is already stored.
func (s *BookingService) publish(b *model.Booking, prop *model.Property, nights int) {
	if s.events == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		EventID:       uuid.NewString(),
		BookingID:     b.ID.Hex(),
		UserID:        b.UserID.Hex(),
		PropertyID:    prop.ID.Hex(),
		PropertyTitle: prop.Title,
		Location:      prop.Location,
		CheckIn:       b.CheckIn.Format(time.DateOnly),
		CheckOut:      b.CheckOut.Format(time.DateOnly),
		Nights:        nights,
		Guests:        b.Guests,
		TotalPrice:    b.TotalPrice,
		ConfirmedAt:   s.now().UTC().Format(time.RFC3339),
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()
		if err := s.events.PublishBookingConfirmed(ctx, ev); err != nil {
			metrics.ObserveEventPublish("error")
			s.logger.Warn("booking.confirmed publish failed", "booking_id", ev.BookingID, "error", err)
			return
		}
		metrics.ObserveEventPublish("ok")
	}()
}

// Wait blocks until background event publishes have finished.
func (s *BookingService) Wait() {
	s.inflight.Wait()
}
