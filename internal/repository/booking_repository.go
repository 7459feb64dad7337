package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hss-platform/service-booking/internal/domain"
	bookingDomain "github.com/hss-platform/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID               string     `gorm:"primaryKey;size:32"`
	CustomerName     string     `gorm:"not null;size:200"`
	Email            string     `gorm:"not null;size:200;index"`
	PickupDate       string     `gorm:"not null;size:40"`
	PickupWindow     string     `gorm:"not null;size:60"`
	Address          string     `gorm:"not null;size:500"`
	DurationMonths   int        `gorm:"not null"`
	ItemCount        int        `gorm:"not null"`
	MonthlySubtotal  float64    `gorm:"not null"`
	HandlingFee      float64    `gorm:"not null"`
	Total            float64    `gorm:"not null"`
	Status           string     `gorm:"not null;size:30;index"`
	PaymentReference *string    `gorm:"size:32"`
	Version          int64      `gorm:"not null;default:1"`
	CreatedAt        time.Time  `gorm:"not null;index"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingItemModel is the GORM model for the booking_items table.
type BookingItemModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	BookingID string `gorm:"not null;size:32;index"`
	ItemType  string `gorm:"not null;size:30"`
	ItemName  string `gorm:"size:200"`
	S3Key     string `gorm:"size:500"`
}

// TableName returns the table name for the GORM model.
func (BookingItemModel) TableName() string {
	return "booking_items"
}

// AuditEventModel is the GORM model for the audit_events table. BookingID
// is deliberately not a foreign key so audit rows always survive.
type AuditEventModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	EventType string          `gorm:"not null;size:60;index"`
	BookingID *string         `gorm:"size:32;index"`
	Payload   json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AuditEventModel) TableName() string {
	return "audit_events"
}

// GormBookingRepository is the GORM-based implementation of the booking
// repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create persists a new booking, its items, and the submission audit event
// in one transaction.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking, event *bookingDomain.AuditEvent) error {
	model := toBookingModel(bk)
	items := toItemModels(bk)
	eventModel, err := toAuditEventModel(event)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to save booking items: %w", err)
			}
		}
		if err := tx.Create(eventModel).Error; err != nil {
			return fmt.Errorf("failed to append audit event: %w", err)
		}
		return nil
	})
}

// FindByID retrieves a booking with its items.
func (r *GormBookingRepository) FindByID(ctx context.Context, id string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}

	var itemModels []BookingItemModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", id).Order("id ASC").Find(&itemModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load booking items: %w", err)
	}

	return toDomainBooking(&model, itemModels), nil
}

// List retrieves bookings ordered by creation time descending, optionally
// filtered by status.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter) ([]*bookingDomain.Booking, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var models []BookingModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i], nil)
	}
	return bookings, nil
}

// StaffQueue retrieves bookings awaiting physical handling, oldest first.
func (r *GormBookingRepository) StaffQueue(ctx context.Context) ([]*bookingDomain.Booking, error) {
	statuses := make([]string, len(bookingDomain.StaffQueueStatuses))
	for i, s := range bookingDomain.StaffQueueStatuses {
		statuses[i] = string(s)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load staff queue: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i], nil)
	}
	return bookings, nil
}

// Overview aggregates per-status counts and monetary totals.
func (r *GormBookingRepository) Overview(ctx context.Context) (*bookingDomain.Overview, error) {
	type totalsRow struct {
		TotalBookings int64
		GrossValue    float64
		PaidRevenue   float64
	}
	var totals totalsRow
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("COUNT(*) AS total_bookings, " +
			"COALESCE(SUM(total), 0) AS gross_value, " +
			"COALESCE(SUM(CASE WHEN status = 'paid' THEN total ELSE 0 END), 0) AS paid_revenue").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate booking totals: %w", err)
	}

	type statusRow struct {
		Status string
		Count  int64
	}
	var rows []statusRow
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	breakdown := make([]bookingDomain.StatusCount, len(rows))
	for i, row := range rows {
		breakdown[i] = bookingDomain.StatusCount{Status: bookingDomain.Status(row.Status), Count: row.Count}
	}

	return &bookingDomain.Overview{
		TotalBookings:   totals.TotalBookings,
		GrossValue:      totals.GrossValue,
		PaidRevenue:     totals.PaidRevenue,
		StatusBreakdown: breakdown,
	}, nil
}

// UpdateStatus persists a status transition and its audit event in one
// transaction. The version compare-and-set serializes concurrent
// check-then-act sequences on the same booking; a lost race surfaces as a
// conflict.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, bk *bookingDomain.Booking, event *bookingDomain.AuditEvent) error {
	eventModel, err := toAuditEventModel(event)
	if err != nil {
		return err
	}

	// IncrementVersion was called before persisting.
	expectedVersion := bk.Version() - 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND version = ?", bk.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"status":            string(bk.Status()),
				"payment_reference": bk.PaymentReference(),
				"version":           bk.Version(),
				"updated_at":        bk.UpdatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update booking status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("booking was modified by another transaction")
		}
		if err := tx.Create(eventModel).Error; err != nil {
			return fmt.Errorf("failed to append audit event: %w", err)
		}
		return nil
	})
}

// AuditTail retrieves the most recent audit events, newest first.
func (r *GormBookingRepository) AuditTail(ctx context.Context, limit int) ([]*bookingDomain.AuditEvent, error) {
	var models []AuditEventModel
	if err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load audit events: %w", err)
	}

	events := make([]*bookingDomain.AuditEvent, len(models))
	for i := range models {
		event, err := toDomainAuditEvent(&models[i])
		if err != nil {
			return nil, err
		}
		events[i] = event
	}
	return events, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
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
		Version:          bk.Version(),
		CreatedAt:        bk.CreatedAt(),
		UpdatedAt:        bk.UpdatedAt(),
	}
}

func toItemModels(bk *bookingDomain.Booking) []BookingItemModel {
	items := make([]BookingItemModel, len(bk.Items()))
	for i, item := range bk.Items() {
		items[i] = BookingItemModel{
			BookingID: bk.ID(),
			ItemType:  string(item.Type),
			ItemName:  item.Name,
			S3Key:     item.StorageKey,
		}
	}
	return items
}

func toDomainBooking(m *BookingModel, itemModels []BookingItemModel) *bookingDomain.Booking {
	items := make([]bookingDomain.Item, len(itemModels))
	for i, im := range itemModels {
		items[i] = bookingDomain.Item{
			Type:       bookingDomain.ItemType(im.ItemType),
			Name:       im.ItemName,
			StorageKey: im.S3Key,
		}
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.CustomerName,
		m.Email,
		m.PickupDate,
		m.PickupWindow,
		m.Address,
		m.DurationMonths,
		m.ItemCount,
		m.MonthlySubtotal,
		m.HandlingFee,
		m.Total,
		bookingDomain.Status(m.Status),
		m.PaymentReference,
		items,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toAuditEventModel(event *bookingDomain.AuditEvent) (*AuditEventModel, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	return &AuditEventModel{
		EventType: event.EventType,
		BookingID: event.BookingID,
		Payload:   payload,
		CreatedAt: event.CreatedAt,
	}, nil
}

func toDomainAuditEvent(m *AuditEventModel) (*bookingDomain.AuditEvent, error) {
	var payload map[string]any
	if err := json.Unmarshal(m.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit payload: %w", err)
	}
	return &bookingDomain.AuditEvent{
		ID:        m.ID,
		EventType: m.EventType,
		BookingID: m.BookingID,
		Payload:   payload,
		CreatedAt: m.CreatedAt,
	}, nil
}
