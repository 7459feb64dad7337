package booking

import "time"

// Audit event types. Free-form tags, but every writer uses one of these.
const (
	EventBookingSubmitted     = "booking_submitted"
	EventStatusUpdated        = "status_updated"
	EventPaymentCaptured      = "payment_captured"
	EventStaffBookingApproved = "staff_booking_approved"
)

// AuditEvent is an immutable, append-only record of a state-affecting
// action. The auto-incrementing ID gives a total order for retrieval.
// BookingID is a loose reference, not a hard foreign key: audit rows must
// survive even if referential integrity is momentarily violated.
type AuditEvent struct {
	ID        int64
	EventType string
	BookingID *string
	Payload   map[string]any
	CreatedAt time.Time
}

// NewAuditEvent creates an audit event scoped to a booking.
func NewAuditEvent(eventType, bookingID string, payload map[string]any) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		BookingID: &bookingID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}
