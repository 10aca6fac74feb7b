// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// BookingConfirmedQueue is the durable queue carrying BookingConfirmedEvent.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking has been stored.  It
// carries enough information for downstream consumers to log or notify
// without querying the document store.  Dates are YYYY-MM-DD and
// ConfirmedAt is RFC 3339 in UTC.
type BookingConfirmedEvent struct {
	EventID       string  `json:"event_id"`
	BookingID     string  `json:"booking_id"`
	UserID        string  `json:"user_id"`
	PropertyID    string  `json:"property_id"`
	PropertyTitle string  `json:"property_title"`
	Location      string  `json:"location"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	Guests        int     `json:"guests"`
	TotalPrice    float64 `json:"total_price"`
	ConfirmedAt   string  `json:"confirmed_at"`
}
