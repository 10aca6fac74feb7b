package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/staywise/booking-api/internal/queue"
)

// RabbitPublisher publishes booking events to RabbitMQ.  Each publish
// dials its own connection so a broker outage never leaves a stale
// channel behind; errors are logged and returned to the caller.
type RabbitPublisher struct {
	url    string
	logger *slog.Logger
}

func NewRabbitPublisher(url string, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{url: url, logger: logger.With("component", "rabbitmq-publisher")}
}

// PublishBookingConfirmed sends ev to the durable booking.confirmed queue
// as a persistent JSON message.
func (p *RabbitPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		p.logger.Warn("dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Warn("channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		p.logger.Warn("queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.EventID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.BookingConfirmedQueue, false, false, pub); err != nil {
		p.logger.Warn("publish failed", "error", err, "booking_id", ev.BookingID)
		return err
	}
	p.logger.Debug("booking event published", "booking_id", ev.BookingID)
	return nil
}
