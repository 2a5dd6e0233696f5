package events

import (
	"context"

	"innkeeper/pkg/kafka"
	kafkaconfig "innkeeper/pkg/kafka/config"
	"innkeeper/pkg/model"
)

const sourceService = "reservations"

// Publisher emits booking lifecycle events after ledger commits. Publishing
// is best-effort: a failed publish never rolls back a committed booking.
type Publisher interface {
	BookingConfirmed(ctx context.Context, booking *model.Booking) error
	BookingCancelled(ctx context.Context, booking *model.Booking) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(cfg *kafkaconfig.Config, topic, dlqTopic string) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, topic, dlqTopic)
	if err != nil {
		return nil, err
	}
	return &kafkaPublisher{producer: producer}, nil
}

func (p *kafkaPublisher) BookingConfirmed(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, TypeBookingConfirmed, booking)
}

func (p *kafkaPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, TypeBookingCancelled, booking)
}

func (p *kafkaPublisher) publish(ctx context.Context, eventType string, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(newBookingEvent(eventType, booking)).
		WithEventID("").
		WithEventType(eventType).
		WithSource(sourceService).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher backs deployments without a broker configured.
type NoopPublisher struct{}

func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

func (NoopPublisher) BookingConfirmed(context.Context, *model.Booking) error { return nil }
func (NoopPublisher) BookingCancelled(context.Context, *model.Booking) error { return nil }
func (NoopPublisher) Close() error                                           { return nil }
