package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/hss-platform/service-booking/internal/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the storage booking domain.
type Booking struct {
	id               string
	customerName     string
	email            string
	pickupDate       string
	pickupWindow     string
	address          string
	durationMonths   int
	itemCount        int
	monthlySubtotal  float64
	handlingFee      float64
	total            float64
	status           Status
	paymentReference *string
	items            []Item

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates an identifier like "HSS-XK29QA" or "PAY-M3N8RT".
func generateReference(prefix string) (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return prefix + "-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=submitted from a
// validated submission. Pricing amounts are accepted as given; the server
// never recomputes totals.
func NewBooking(sub Submission) (*Booking, error) {
	id, err := generateReference("HSS")
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(sub.Items))
	copy(items, sub.Items)

	now := time.Now().UTC()
	return &Booking{
		id:              id,
		customerName:    sub.CustomerName,
		email:           sub.Email,
		pickupDate:      sub.PickupDate,
		pickupWindow:    sub.PickupWindow,
		address:         sub.Address,
		durationMonths:  sub.DurationMonths,
		itemCount:       len(items),
		monthlySubtotal: sub.MonthlySubtotal,
		handlingFee:     sub.HandlingFee,
		total:           sub.Total,
		status:          StatusSubmitted,
		items:           items,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id string,
	customerName string,
	email string,
	pickupDate string,
	pickupWindow string,
	address string,
	durationMonths int,
	itemCount int,
	monthlySubtotal float64,
	handlingFee float64,
	total float64,
	status Status,
	paymentReference *string,
	items []Item,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		customerName:     customerName,
		email:            email,
		pickupDate:       pickupDate,
		pickupWindow:     pickupWindow,
		address:          address,
		durationMonths:   durationMonths,
		itemCount:        itemCount,
		monthlySubtotal:  monthlySubtotal,
		handlingFee:      handlingFee,
		total:            total,
		status:           status,
		paymentReference: paymentReference,
		items:            items,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's opaque identifier.
func (b *Booking) ID() string { return b.id }

// CustomerName returns the customer's name.
func (b *Booking) CustomerName() string { return b.customerName }

// Email returns the customer's email.
func (b *Booking) Email() string { return b.email }

// PickupDate returns the requested pickup date.
func (b *Booking) PickupDate() string { return b.pickupDate }

// PickupWindow returns the requested pickup window.
func (b *Booking) PickupWindow() string { return b.pickupWindow }

// Address returns the pickup address.
func (b *Booking) Address() string { return b.address }

// DurationMonths returns the storage duration in months.
func (b *Booking) DurationMonths() int { return b.durationMonths }

// ItemCount returns the number of items in the booking.
func (b *Booking) ItemCount() int { return b.itemCount }

// MonthlySubtotal returns the monthly subtotal.
func (b *Booking) MonthlySubtotal() float64 { return b.monthlySubtotal }

// HandlingFee returns the handling fee.
func (b *Booking) HandlingFee() float64 { return b.handlingFee }

// Total returns the caller-supplied total.
func (b *Booking) Total() float64 { return b.total }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// PaymentReference returns the payment reference, or nil before capture.
func (b *Booking) PaymentReference() *string { return b.paymentReference }

// Items returns the physical items within the booking.
func (b *Booking) Items() []Item { return b.items }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// TransitionOutcome describes the result of an applied transition.
type TransitionOutcome struct {
	From             Status
	To               Status
	Changed          bool
	PaymentReference string
}

// ApplyTransition moves the booking toward the target status through the
// lifecycle table. Payment capture is the same routine parameterized by a
// non-empty method: it requires the current status to be exactly approved,
// validates the method against the closed set, and stamps a fresh payment
// reference. A self-transition is accepted as an idempotent no-op.
func (b *Booking) ApplyTransition(target Status, method PaymentMethod) (TransitionOutcome, error) {
	outcome := TransitionOutcome{From: b.status, To: target}

	if method != "" {
		if !method.IsValid() {
			return outcome, domain.NewValidationError("Unsupported payment method")
		}
		if b.status != StatusApproved {
			return outcome, domain.NewConflictError("Booking must be approved before payment")
		}
		reference, err := generateReference("PAY")
		if err != nil {
			return outcome, err
		}
		b.status = StatusPaid
		b.paymentReference = &reference
		b.updatedAt = time.Now().UTC()
		outcome.To = StatusPaid
		outcome.Changed = true
		outcome.PaymentReference = reference
		return outcome, nil
	}

	if !target.IsValid() {
		return outcome, domain.NewValidationError(fmt.Sprintf("status must be one of %v", AllStatuses()))
	}
	if target == b.status {
		b.updatedAt = time.Now().UTC()
		return outcome, nil
	}
	if !b.status.CanTransitionTo(target) {
		return outcome, domain.NewConflictError(fmt.Sprintf("Invalid status transition: %s -> %s", b.status, target))
	}

	b.status = target
	b.updatedAt = time.Now().UTC()
	outcome.Changed = true
	return outcome, nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
