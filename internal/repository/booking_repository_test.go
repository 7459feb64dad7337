package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hss-platform/service-booking/internal/domain"
	bookingDomain "github.com/hss-platform/service-booking/internal/domain/booking"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&BookingModel{}, &BookingItemModel{}, &AuditEventModel{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func newTestBooking(t *testing.T, total float64) *bookingDomain.Booking {
	t.Helper()
	bk, err := bookingDomain.NewBooking(bookingDomain.Submission{
		CustomerName: "Thandi M",
		Email:        "thandi@example.com",
		PickupDate:   "2026-09-15",
		PickupWindow: "08:00-12:00",
		Address:      "12 Main Rd, Cape Town",
		Items: []bookingDomain.Item{
			{Type: bookingDomain.ItemTypeBox, Name: "books"},
			{Type: bookingDomain.ItemTypeFridge, StorageKey: "uploads/fridge.jpg"},
		},
		DurationMonths:  3,
		MonthlySubtotal: 140,
		HandlingFee:     30,
		Total:           total,
	})
	require.NoError(t, err)
	return bk
}

func createBooking(t *testing.T, repo *GormBookingRepository, total float64) *bookingDomain.Booking {
	t.Helper()
	bk := newTestBooking(t, total)
	event := bookingDomain.NewAuditEvent(bookingDomain.EventBookingSubmitted, bk.ID(), map[string]any{
		"email": bk.Email(),
		"items": bk.ItemCount(),
	})
	require.NoError(t, repo.Create(context.Background(), bk, event))
	return bk
}

func transitionTo(t *testing.T, repo *GormBookingRepository, id string, target bookingDomain.Status) {
	t.Helper()
	bk, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	outcome, err := bk.ApplyTransition(target, "")
	require.NoError(t, err)
	bk.IncrementVersion()
	event := bookingDomain.NewAuditEvent(bookingDomain.EventStatusUpdated, bk.ID(), map[string]any{
		"from": string(outcome.From),
		"to":   string(outcome.To),
	})
	require.NoError(t, repo.UpdateStatus(context.Background(), bk, event))
}

func TestCreateAndFindByID(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	created := createBooking(t, repo, 450)

	found, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())
	assert.Equal(t, "Thandi M", found.CustomerName())
	assert.Equal(t, bookingDomain.StatusSubmitted, found.Status())
	assert.Equal(t, int64(1), found.Version())
	assert.Nil(t, found.PaymentReference())
	require.Len(t, found.Items(), 2)
	assert.Equal(t, bookingDomain.ItemTypeBox, found.Items()[0].Type)
	assert.Equal(t, "uploads/fridge.jpg", found.Items()[1].StorageKey)

	events, err := repo.AuditTail(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, bookingDomain.EventBookingSubmitted, events[0].EventType)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), "HSS-MISSING")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "HSS-MISSING", notFound.ID)
}

func TestUpdateStatusPersistsTransitionAndAudit(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	created := createBooking(t, repo, 450)

	transitionTo(t, repo, created.ID(), bookingDomain.StatusApproved)

	found, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusApproved, found.Status())
	assert.Equal(t, int64(2), found.Version())

	events, err := repo.AuditTail(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, bookingDomain.EventStatusUpdated, events[0].EventType)
	assert.Equal(t, map[string]any{"from": "submitted", "to": "approved"}, events[0].Payload)
}

func TestUpdateStatusVersionConflict(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	created := createBooking(t, repo, 450)

	// Two loads of the same version race; the loser's compare-and-set
	// matches zero rows.
	first, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)

	_, err = first.ApplyTransition(bookingDomain.StatusApproved, "")
	require.NoError(t, err)
	first.IncrementVersion()
	event := bookingDomain.NewAuditEvent(bookingDomain.EventStatusUpdated, first.ID(), map[string]any{})
	require.NoError(t, repo.UpdateStatus(context.Background(), first, event))

	_, err = second.ApplyTransition(bookingDomain.StatusApproved, "")
	require.NoError(t, err)
	second.IncrementVersion()
	event = bookingDomain.NewAuditEvent(bookingDomain.EventStatusUpdated, second.ID(), map[string]any{})
	err = repo.UpdateStatus(context.Background(), second, event)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	// The losing attempt must not have appended an audit event either.
	events, err := repo.AuditTail(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestUpdateStatusStoresPaymentReference(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	created := createBooking(t, repo, 450)
	transitionTo(t, repo, created.ID(), bookingDomain.StatusApproved)

	bk, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	outcome, err := bk.ApplyTransition(bookingDomain.StatusPaid, bookingDomain.PaymentMethodCard)
	require.NoError(t, err)
	bk.IncrementVersion()
	event := bookingDomain.NewAuditEvent(bookingDomain.EventPaymentCaptured, bk.ID(), map[string]any{
		"payment_reference": outcome.PaymentReference,
	})
	require.NoError(t, repo.UpdateStatus(context.Background(), bk, event))

	found, err := repo.FindByID(context.Background(), created.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusPaid, found.Status())
	require.NotNil(t, found.PaymentReference())
	assert.Equal(t, outcome.PaymentReference, *found.PaymentReference())
}

func TestListNewestFirstWithFilterAndPaging(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	first := createBooking(t, repo, 100)
	second := createBooking(t, repo, 200)
	third := createBooking(t, repo, 300)
	transitionTo(t, repo, second.ID(), bookingDomain.StatusApproved)

	all, err := repo.List(context.Background(), bookingDomain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID(), all[0].ID())
	assert.Equal(t, second.ID(), all[1].ID())
	assert.Equal(t, first.ID(), all[2].ID())
	assert.Empty(t, all[0].Items(), "listings do not load items")

	approved := bookingDomain.StatusApproved
	filtered, err := repo.List(context.Background(), bookingDomain.ListFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID(), filtered[0].ID())

	page, err := repo.List(context.Background(), bookingDomain.ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, second.ID(), page[0].ID())
}

func TestStaffQueueOldestFirstExcludesSettled(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	first := createBooking(t, repo, 100)
	second := createBooking(t, repo, 200)
	third := createBooking(t, repo, 300)

	transitionTo(t, repo, second.ID(), bookingDomain.StatusApproved)
	transitionTo(t, repo, second.ID(), bookingDomain.StatusPaid)
	for _, target := range []bookingDomain.Status{
		bookingDomain.StatusApproved,
		bookingDomain.StatusCollected,
		bookingDomain.StatusInStorage,
		bookingDomain.StatusReturned,
	} {
		transitionTo(t, repo, third.ID(), target)
	}

	queue, err := repo.StaffQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, first.ID(), queue[0].ID())
}

func TestOverviewAggregates(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	createBooking(t, repo, 100)
	paid := createBooking(t, repo, 200)
	createBooking(t, repo, 300)

	transitionTo(t, repo, paid.ID(), bookingDomain.StatusApproved)
	transitionTo(t, repo, paid.ID(), bookingDomain.StatusPaid)

	overview, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.TotalBookings)
	assert.Equal(t, 600.0, overview.GrossValue)
	assert.Equal(t, 200.0, overview.PaidRevenue)
	assert.Equal(t, []bookingDomain.StatusCount{
		{Status: bookingDomain.StatusPaid, Count: 1},
		{Status: bookingDomain.StatusSubmitted, Count: 2},
	}, overview.StatusBreakdown)
}

func TestOverviewEmptyDatabase(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))

	overview, err := repo.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), overview.TotalBookings)
	assert.Equal(t, 0.0, overview.GrossValue)
	assert.Equal(t, 0.0, overview.PaidRevenue)
	assert.Empty(t, overview.StatusBreakdown)
}

func TestAuditTailNewestFirstAndLimited(t *testing.T) {
	repo := NewGormBookingRepository(setupTestDB(t))
	bk := createBooking(t, repo, 450)
	transitionTo(t, repo, bk.ID(), bookingDomain.StatusApproved)
	transitionTo(t, repo, bk.ID(), bookingDomain.StatusCollected)

	events, err := repo.AuditTail(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, map[string]any{"from": "approved", "to": "collected"}, events[0].Payload)
	assert.Equal(t, map[string]any{"from": "submitted", "to": "approved"}, events[1].Payload)
	assert.Greater(t, events[0].ID, events[1].ID)
}
