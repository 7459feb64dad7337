package booking

import "context"

// ListFilter narrows and pages a booking listing. A nil Status means no
// filter; Limit <= 0 means unbounded.
type ListFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// StatusCount is one row of the admin status breakdown.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
}

// Overview aggregates bookings for the admin dashboard.
type Overview struct {
	TotalBookings   int64
	GrossValue      float64
	PaidRevenue     float64
	StatusBreakdown []StatusCount
}

// Repository defines the persistence contract for booking aggregates and
// their audit trail. Create and UpdateStatus must persist the booking
// write and the accompanying audit event in one transaction; a crash
// between them must not be possible.
type Repository interface {
	// Create persists a new booking with its items and the submission
	// audit event atomically.
	Create(ctx context.Context, bk *Booking, event *AuditEvent) error

	// FindByID retrieves a booking with its items.
	FindByID(ctx context.Context, id string) (*Booking, error)

	// List retrieves bookings ordered by creation time descending.
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)

	// StaffQueue retrieves bookings awaiting physical handling, oldest
	// first, modeling FIFO work intake.
	StaffQueue(ctx context.Context) ([]*Booking, error)

	// Overview aggregates per-status counts and monetary totals.
	Overview(ctx context.Context) (*Overview, error)

	// UpdateStatus persists a status transition with optimistic locking
	// and appends the audit event in the same transaction.
	UpdateStatus(ctx context.Context, bk *Booking, event *AuditEvent) error

	// AuditTail retrieves the most recent audit events, newest first.
	AuditTail(ctx context.Context, limit int) ([]*AuditEvent, error)
}
