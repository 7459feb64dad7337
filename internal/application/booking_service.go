package application

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hss-platform/service-booking/internal/domain"
	"github.com/hss-platform/service-booking/internal/domain/booking"
	"github.com/hss-platform/service-booking/internal/events"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID               string    `json:"id"`
	CustomerName     string    `json:"customer_name"`
	Email            string    `json:"email"`
	PickupDate       string    `json:"pickup_date"`
	PickupWindow     string    `json:"pickup_window"`
	Address          string    `json:"address"`
	DurationMonths   int       `json:"duration_months"`
	ItemCount        int       `json:"item_count"`
	MonthlySubtotal  float64   `json:"monthly_subtotal"`
	HandlingFee      float64   `json:"handling_fee"`
	Total            float64   `json:"total"`
	Status           string    `json:"status"`
	PaymentReference *string   `json:"payment_reference"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Items            []ItemDTO `json:"items,omitempty"`
}

// ItemDTO is the response representation of a booking item.
type ItemDTO struct {
	ItemType string `json:"item_type"`
	ItemName string `json:"item_name"`
	S3Key    string `json:"s3_key"`
}

// CreateResult is returned after a successful booking submission.
type CreateResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// TransitionResult is returned after a successful status transition.
type TransitionResult struct {
	BookingID        string `json:"booking_id"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// OverviewDTO aggregates bookings for the admin dashboard.
type OverviewDTO struct {
	TotalBookings   int64                 `json:"total_bookings"`
	GrossValue      float64               `json:"gross_value"`
	PaidRevenue     float64               `json:"paid_revenue"`
	StatusBreakdown []booking.StatusCount `json:"status_breakdown"`
}

// AuditEventDTO is the response representation of an audit event.
type AuditEventDTO struct {
	ID        int64          `json:"id"`
	EventType string         `json:"event_type"`
	BookingID *string        `json:"booking_id"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

// LoginResult carries the demo token issued by login.
type LoginResult struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in"`
}

// BookingService is the application service orchestrating booking use cases.
// The publisher is injected, never ambient, and is only consulted after the
// store transaction commits.
type BookingService struct {
	repo      booking.Repository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(repo booking.Repository, publisher events.Publisher, logger *zap.Logger) *BookingService {
	return &BookingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates an untyped submission payload and, if acceptable,
// persists the booking with its items and submission audit event atomically.
func (s *BookingService) CreateBooking(ctx context.Context, payload map[string]any) (*CreateResult, error) {
	if errs := booking.ValidateSubmission(payload); len(errs) > 0 {
		return nil, domain.NewValidationError("Booking payload validation failed", errs...)
	}

	sub := booking.SubmissionFromPayload(payload)
	bk, err := booking.NewBooking(sub)
	if err != nil {
		return nil, err
	}

	event := booking.NewAuditEvent(booking.EventBookingSubmitted, bk.ID(), map[string]any{
		"email": bk.Email(),
		"items": bk.ItemCount(),
	})
	if err := s.repo.Create(ctx, bk, event); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, booking.EventBookingSubmitted, bk.ID(), map[string]any{
		"email":      bk.Email(),
		"item_count": bk.ItemCount(),
		"status":     string(bk.Status()),
	})

	return &CreateResult{BookingID: bk.ID(), Status: string(bk.Status())}, nil
}

// UpdateStatus applies a generic lifecycle transition. Legality comes from
// the transition table alone; a self-transition succeeds as a no-op and
// still appends one audit event for retry visibility.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, target booking.Status) (*TransitionResult, error) {
	bk, _, err := s.transition(ctx, bookingID, target, "", booking.EventStatusUpdated,
		func(o booking.TransitionOutcome) map[string]any {
			return map[string]any{"from": string(o.From), "to": string(o.To)}
		})
	if err != nil {
		return nil, err
	}
	return &TransitionResult{BookingID: bk.ID(), Status: string(bk.Status())}, nil
}

// ApproveBooking moves a booking to approved on behalf of staff. The
// operation is idempotent for already-approved bookings.
func (s *BookingService) ApproveBooking(ctx context.Context, bookingID string, actor booking.Role) (*TransitionResult, error) {
	if !actor.CanApprove() {
		return nil, domain.NewForbiddenError("Insufficient permissions",
			string(booking.RoleStaff), string(booking.RoleAdmin))
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.Status().OneOf(booking.StatusSubmitted, booking.StatusApproved) {
		return nil, domain.NewConflictError("Only submitted bookings can be approved")
	}

	bk, _, err = s.transition(ctx, bookingID, booking.StatusApproved, "", booking.EventStaffBookingApproved,
		func(o booking.TransitionOutcome) map[string]any {
			return map[string]any{"status": string(booking.StatusApproved), "actor_role": string(actor)}
		})
	if err != nil {
		return nil, err
	}
	return &TransitionResult{BookingID: bk.ID(), Status: string(bk.Status())}, nil
}

// CapturePayment settles a booking through the same transition routine,
// parameterized by the payment method. Capture requires the booking to be
// exactly approved and stamps a fresh payment reference; repeating capture
// on an already-paid booking conflicts.
func (s *BookingService) CapturePayment(ctx context.Context, bookingID string, method booking.PaymentMethod) (*TransitionResult, error) {
	bk, outcome, err := s.transition(ctx, bookingID, booking.StatusPaid, method, booking.EventPaymentCaptured,
		func(o booking.TransitionOutcome) map[string]any {
			return map[string]any{
				"method":            string(method),
				"payment_reference": o.PaymentReference,
				"status":            string(booking.StatusPaid),
			}
		})
	if err != nil {
		return nil, err
	}
	return &TransitionResult{
		BookingID:        bk.ID(),
		Status:           string(bk.Status()),
		PaymentReference: outcome.PaymentReference,
	}, nil
}

// transition is the single code path for every lifecycle transition,
// whatever the entry point: load, apply through the state machine, persist
// status + audit event atomically, then best-effort publish.
func (s *BookingService) transition(
	ctx context.Context,
	bookingID string,
	target booking.Status,
	method booking.PaymentMethod,
	eventType string,
	payload func(booking.TransitionOutcome) map[string]any,
) (*booking.Booking, booking.TransitionOutcome, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, booking.TransitionOutcome{}, err
	}

	outcome, err := bk.ApplyTransition(target, method)
	if err != nil {
		return nil, outcome, err
	}

	bk.IncrementVersion()
	event := booking.NewAuditEvent(eventType, bk.ID(), payload(outcome))
	if err := s.repo.UpdateStatus(ctx, bk, event); err != nil {
		return nil, outcome, err
	}

	s.publish(ctx, eventType, bk.ID(), payload(outcome))
	return bk, outcome, nil
}

// GetBooking retrieves a single booking with its items.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk, true)
	return &dto, nil
}

// ListBookings retrieves bookings newest first, optionally status-filtered.
func (s *BookingService) ListBookings(ctx context.Context, status *booking.Status, limit, offset int) ([]BookingDTO, error) {
	bookings, err := s.repo.List(ctx, booking.ListFilter{Status: status, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// StaffQueue retrieves the FIFO work queue of bookings awaiting handling.
func (s *BookingService) StaffQueue(ctx context.Context) ([]BookingDTO, error) {
	bookings, err := s.repo.StaffQueue(ctx)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// AdminListBookings retrieves all bookings newest first, optionally
// status-filtered and unpaginated.
func (s *BookingService) AdminListBookings(ctx context.Context, status *booking.Status) ([]BookingDTO, error) {
	bookings, err := s.repo.List(ctx, booking.ListFilter{Status: status})
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// Overview aggregates per-status counts and monetary totals (admin).
func (s *BookingService) Overview(ctx context.Context) (*OverviewDTO, error) {
	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return &OverviewDTO{
		TotalBookings:   overview.TotalBookings,
		GrossValue:      overview.GrossValue,
		PaidRevenue:     overview.PaidRevenue,
		StatusBreakdown: overview.StatusBreakdown,
	}, nil
}

// AuditTail retrieves the most recent audit events, newest first, with
// payloads deserialized.
func (s *BookingService) AuditTail(ctx context.Context, limit int) ([]AuditEventDTO, error) {
	auditEvents, err := s.repo.AuditTail(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]AuditEventDTO, len(auditEvents))
	for i, event := range auditEvents {
		dtos[i] = AuditEventDTO{
			ID:        event.ID,
			EventType: event.EventType,
			BookingID: event.BookingID,
			Payload:   event.Payload,
			CreatedAt: event.CreatedAt,
		}
	}
	return dtos, nil
}

// Login validates the email and issues a demo token for the inferred or
// requested role. The token is not a credential.
func (s *BookingService) Login(email, requestedRole string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("email is invalid")
	}

	role := booking.InferRole(email, requestedRole)
	digest := fnv.New32a()
	_, _ = digest.Write([]byte(email))
	token := fmt.Sprintf("demo-%s-%d", role, digest.Sum32()%1000000)

	return &LoginResult{Token: token, Role: string(role), ExpiresIn: 3600}, nil
}

// publish notifies subscribers of a committed transition. Failure is
// logged and swallowed; it never affects the caller.
func (s *BookingService) publish(ctx context.Context, eventType, bookingID string, payload map[string]any) {
	if err := s.publisher.Publish(ctx, eventType, &bookingID, payload); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}
}

// --- Helpers ---

func toBookingDTO(bk *booking.Booking, withItems bool) BookingDTO {
	dto := BookingDTO{
		ID:               bk.ID(),
		CustomerName:     bk.CustomerName(),
		Email:            bk.Email(),
		PickupDate:       bk.PickupDate(),
		PickupWindow:     bk.PickupWindow(),
		Address:          bk.Address(),
		DurationMonths:   bk.DurationMonths(),
		ItemCount:        bk.ItemCount(),
		MonthlySubtotal:  bk.MonthlySubtotal(),
		HandlingFee:      bk.HandlingFee(),
		Total:            bk.Total(),
		Status:           string(bk.Status()),
		PaymentReference: bk.PaymentReference(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
	if withItems {
		dto.Items = make([]ItemDTO, len(bk.Items()))
		for i, item := range bk.Items() {
			dto.Items[i] = ItemDTO{
				ItemType: string(item.Type),
				ItemName: item.Name,
				S3Key:    item.StorageKey,
			}
		}
	}
	return dto
}

func toBookingDTOs(bookings []*booking.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk, false)
	}
	return dtos
}
