package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses.  New bookings are confirmed immediately; the others
// are accepted by the store but never produced by the API.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking is a reservation of one property by one user as stored in the
// `bookings` collection.  TotalPrice is fixed when the booking is created.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID     primitive.ObjectID `bson:"user" json:"user"`
	PropertyID primitive.ObjectID `bson:"property" json:"property"`
	CheckIn    time.Time          `bson:"checkIn" json:"checkIn"`
	CheckOut   time.Time          `bson:"checkOut" json:"checkOut"`
	Guests     int                `bson:"guests" json:"guests"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BookingDetail is a booking with its property (and optionally its user)
// expanded into summaries.  A nil Property means the referenced listing no
// longer exists.  When User is not expanded the JSON "user" field carries
// the bare user id.
type BookingDetail struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	UserID     primitive.ObjectID `bson:"user" json:"-"`
	User       *UserSummary       `bson:"userDoc,omitempty" json:"-"`
	Property   *PropertySummary   `bson:"property,omitempty" json:"property"`
	CheckIn    time.Time          `bson:"checkIn" json:"checkIn"`
	CheckOut   time.Time          `bson:"checkOut" json:"checkOut"`
	Guests     int                `bson:"guests" json:"guests"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b BookingDetail) MarshalJSON() ([]byte, error) {
	type plain BookingDetail
	var user any = b.UserID
	if b.User != nil {
		user = b.User
	}
	return json.Marshal(struct {
		plain
		User any `json:"user"`
	}{plain(b), user})
}
