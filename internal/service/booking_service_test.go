package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staywise/booking-api/internal/model"
	"github.com/staywise/booking-api/internal/queue"
	"github.com/staywise/booking-api/internal/repository"
)

type stubProperties struct {
	byID map[primitive.ObjectID]*model.Property
}

func (s *stubProperties) GetByID(_ context.Context, id primitive.ObjectID) (*model.Property, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	return p, nil
}

type stubBookings struct {
	created   []*model.Booking
	createErr error
	details   []model.BookingDetail
	listedFor primitive.ObjectID
}

func (s *stubBookings) Create(_ context.Context, b *model.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now().UTC()
	s.created = append(s.created, b)
	return nil
}

func (s *stubBookings) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	s.listedFor = userID
	return s.details, nil
}

func (s *stubBookings) ListAll(context.Context) ([]model.BookingDetail, error) {
	return s.details, nil
}

type stubUsers struct{ user *model.User }

func (s *stubUsers) GetByID(context.Context, primitive.ObjectID) (*model.User, error) {
	if s.user == nil {
		return nil, repository.ErrUserNotFound
	}
	return s.user, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fixture struct {
	svc      *BookingService
	bookings *stubBookings
	events   *recordingPublisher
	property *model.Property
	user     *model.User
	unlisted *model.Property
}

func newTestService(t *testing.T) *fixture {
	t.Helper()
	prop := &model.Property{
		ID:        primitive.NewObjectID(),
		Title:     "Modern City Apartment",
		Location:  "Mumbai",
		Price:     5000,
		Images:    []string{"a.jpg"},
		MaxGuests: 4,
		Available: true,
	}
	unlisted := &model.Property{ID: primitive.NewObjectID(), Price: 4000, MaxGuests: 2, Available: false}
	user := &model.User{ID: primitive.NewObjectID(), Name: "Test User", Email: "user@test.com", Role: model.RoleUser}

	f := &fixture{
		bookings: &stubBookings{},
		events:   &recordingPublisher{},
		property: prop,
		user:     user,
		unlisted: unlisted,
	}
	f.svc = NewBookingService(
		&stubProperties{byID: map[primitive.ObjectID]*model.Property{prop.ID: prop, unlisted.ID: unlisted}},
		f.bookings,
		&stubUsers{user: user},
		f.events,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	f.svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return f
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) input(in, out string, guests int) CreateBookingInput {
	return CreateBookingInput{
		PropertyID: f.property.ID,
		UserID:     f.user.ID,
		CheckIn:    day(in),
		CheckOut:   day(out),
		Guests:     guests,
	}
}

func TestNights(t *testing.T) {
	base := day("2024-06-01")
	cases := []struct {
		name string
		out  time.Time
		want int
	}{
		{"three days", day("2024-06-04"), 3},
		{"partial day rounds up", base.Add(36 * time.Hour), 2},
		{"one hour is one night", base.Add(time.Hour), 1},
		{"same instant", base, 0},
		{"reversed", day("2024-05-30"), -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Nights(base, tc.out))
		})
	}
}

func TestCreateConfirmsAndPrices(t *testing.T) {
	f := newTestService(t)

	got, err := f.svc.Create(context.Background(), f.input("2024-06-01", "2024-06-04", 2))
	require.NoError(t, err)

	assert.Equal(t, 15000.0, got.TotalPrice)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Equal(t, 2, got.Guests)
	require.NotNil(t, got.Property)
	assert.Equal(t, "Modern City Apartment", got.Property.Title)
	assert.Empty(t, got.Property.PropertyType)
	require.NotNil(t, got.User)
	assert.Equal(t, "user@test.com", got.User.Email)

	require.Len(t, f.bookings.created, 1)
	stored := f.bookings.created[0]
	assert.Equal(t, f.user.ID, stored.UserID)
	assert.Equal(t, f.property.ID, stored.PropertyID)
	assert.Equal(t, 15000.0, stored.TotalPrice)
}

func TestCreatePublishesEvent(t *testing.T) {
	f := newTestService(t)

	got, err := f.svc.Create(context.Background(), f.input("2024-06-01", "2024-06-04", 2))
	require.NoError(t, err)
	f.svc.Wait()

	require.Len(t, f.events.events, 1)
	ev := f.events.events[0]
	assert.NotEmpty(t, ev.EventID)
	assert.Equal(t, got.ID.Hex(), ev.BookingID)
	assert.Equal(t, "2024-06-01", ev.CheckIn)
	assert.Equal(t, "2024-06-04", ev.CheckOut)
	assert.Equal(t, 3, ev.Nights)
	assert.Equal(t, "2024-05-01T09:00:00Z", ev.ConfirmedAt)
}

func TestCreateSucceedsWhenPublishFails(t *testing.T) {
	f := newTestService(t)
	f.events.err = errors.New("broker down")

	_, err := f.svc.Create(context.Background(), f.input("2024-06-01", "2024-06-02", 1))
	f.svc.Wait()

	require.NoError(t, err)
	assert.Len(t, f.bookings.created, 1)
}

func TestCreateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(f *fixture, in *CreateBookingInput)
		message string
	}{
		{
			name:    "too many guests",
			mutate:  func(_ *fixture, in *CreateBookingInput) { in.Guests = 6 },
			message: "Property can accommodate maximum 4 guests",
		},
		{
			name:    "unavailable property",
			mutate:  func(f *fixture, in *CreateBookingInput) { in.PropertyID = f.unlisted.ID },
			message: "Property is not available",
		},
		{
			name:    "check-out equals check-in",
			mutate:  func(_ *fixture, in *CreateBookingInput) { in.CheckOut = in.CheckIn },
			message: "Check-out date must be after check-in date",
		},
		{
			name:    "check-out before check-in",
			mutate:  func(_ *fixture, in *CreateBookingInput) { in.CheckOut = in.CheckIn.Add(-48 * time.Hour) },
			message: "Check-out date must be after check-in date",
		},
		{
			name:    "zero guests",
			mutate:  func(_ *fixture, in *CreateBookingInput) { in.Guests = 0 },
			message: "At least 1 guest is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTestService(t)
			in := f.input("2024-06-01", "2024-06-04", 2)
			tc.mutate(f, &in)

			_, err := f.svc.Create(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.message, ve.Message)
			assert.Empty(t, f.bookings.created)
			assert.Empty(t, f.events.events)
		})
	}
}

func TestCreateUnknownProperty(t *testing.T) {
	f := newTestService(t)
	in := f.input("2024-06-01", "2024-06-04", 2)
	in.PropertyID = primitive.NewObjectID()

	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, repository.ErrPropertyNotFound)
	assert.Empty(t, f.bookings.created)
}

func TestCreateStoreFailure(t *testing.T) {
	f := newTestService(t)
	f.bookings.createErr = errors.New("write concern")

	_, err := f.svc.Create(context.Background(), f.input("2024-06-01", "2024-06-04", 2))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Empty(t, f.events.events)
}

func TestListForUserScopesToCaller(t *testing.T) {
	f := newTestService(t)
	f.bookings.details = []model.BookingDetail{{ID: primitive.NewObjectID()}}

	got, err := f.svc.ListForUser(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, f.user.ID, f.bookings.listedFor)
}
