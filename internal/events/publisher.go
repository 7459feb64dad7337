package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Source identifies this service in published envelopes.
const Source = "service-booking"

// Publisher fans lifecycle events out to external subscribers.
// Best-effort, at-most-once per call, no retry, no ordering guarantee.
// Callers must never let a publish failure affect transaction outcome.
type Publisher interface {
	Publish(ctx context.Context, eventType string, bookingID *string, payload map[string]any) error
}

// Envelope is the wire format for published business events.
type Envelope struct {
	Source     string         `json:"source"`
	EventType  string         `json:"event_type"`
	BookingID  *string        `json:"booking_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// NewEnvelope wraps an event in the standard envelope.
func NewEnvelope(eventType string, bookingID *string, payload map[string]any) Envelope {
	return Envelope{
		Source:     Source,
		EventType:  eventType,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// NoopPublisher is the fallback publisher when messaging is disabled.
type NoopPublisher struct{}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event.
func (p *NoopPublisher) Publish(context.Context, string, *string, map[string]any) error {
	return nil
}

// Build selects a publisher implementation from configuration. Unknown
// modes and incomplete Kafka settings fall back to the no-op sink so a
// misconfigured bus never blocks the booking API. The returned closer is
// safe to call for either implementation.
func Build(mode string, brokers []string, topic string, log *zap.Logger) (Publisher, func() error) {
	if mode != "kafka" {
		if mode != "" && mode != "disabled" {
			log.Warn("unknown message bus mode, events disabled", zap.String("mode", mode))
		}
		return NewNoopPublisher(), func() error { return nil }
	}

	if len(brokers) == 0 || topic == "" {
		log.Warn("message bus mode is kafka but brokers or topic are not set, events disabled")
		return NewNoopPublisher(), func() error { return nil }
	}

	publisher := NewKafkaPublisher(brokers, topic, log)
	return publisher, publisher.Close
}
