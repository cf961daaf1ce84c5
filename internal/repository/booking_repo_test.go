package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"homebound/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, userID string, status string, bookingType string, createdAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	m := bookingModel{
		ID:          id,
		UserID:      userID,
		BookingType: bookingType,
		ReferenceID: uuid.NewString(),
		Status:      status,
		BookingDate: createdAt,
		StartDate:   createdAt.AddDate(0, 1, 0),
		Guests:      2,
		TotalPrice:  100,
		Currency:    "USD",
		Metadata:    domain.Metadata{"source": "test"},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&m).Error)
	return id
}

func TestBookingRepository_OwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	owner := uuid.NewString()
	stranger := uuid.NewString()
	id := seedBooking(t, db, owner, "confirmed", "flight", time.Now().UTC())

	b, err := repo.GetByIDForUser(ctx, id, owner)
	assert.NoError(t, err)
	assert.Equal(t, owner, b.UserID)
	assert.Equal(t, domain.Metadata{"source": "test"}, b.Metadata)

	// Someone else's booking must be indistinguishable from a missing one.
	_, err = repo.GetByIDForUser(ctx, id, stranger)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_ListFiltersAndOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	owner := uuid.NewString()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := seedBooking(t, db, owner, "confirmed", "flight", base)
	middle := seedBooking(t, db, owner, "pending", "event", base.Add(24*time.Hour))
	newest := seedBooking(t, db, owner, "confirmed", "event", base.Add(48*time.Hour))
	seedBooking(t, db, uuid.NewString(), "confirmed", "event", base.Add(72*time.Hour)) // other user

	rows, total, err := repo.ListByUser(ctx, owner, BookingFilter{Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	// Newest first.
	assert.Equal(t, []string{newest, middle, oldest}, []string{rows[0].ID, rows[1].ID, rows[2].ID})

	rows, total, err = repo.ListByUser(ctx, owner, BookingFilter{Status: "confirmed", BookingType: "event", Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, newest, rows[0].ID)

	rows, total, err = repo.ListByUser(ctx, owner, BookingFilter{Limit: 2, Offset: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 1)
	assert.Equal(t, oldest, rows[0].ID)
}

func TestBookingRepository_UpdateMissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)

	err := repo.Update(context.Background(), uuid.NewString(), map[string]any{"status": "confirmed"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_UpdatePersistsMetadata(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	owner := uuid.NewString()
	id := seedBooking(t, db, owner, "confirmed", "event", time.Now().UTC())

	now := time.Now().UTC()
	err := repo.Update(ctx, id, map[string]any{
		"status":       "cancelled",
		"cancelled_at": now,
		"updated_at":   now,
		"metadata":     domain.Metadata{"source": "test", "cancellation_reason": "plans changed"},
	})
	assert.NoError(t, err)

	b, err := repo.GetByIDForUser(ctx, id, owner)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.NotNil(t, b.CancelledAt)
	assert.Equal(t, "plans changed", b.Metadata["cancellation_reason"])
	assert.Equal(t, "test", b.Metadata["source"])
}

func TestListingRepository_AtomicIncrements(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)
	ctx := context.Background()

	eventID := uuid.NewString()
	require.NoError(t, db.Create(&eventListingModel{
		ID:             eventID,
		Title:          "Homecoming Festival",
		Location:       "Accra",
		StartsAt:       time.Now().UTC().AddDate(0, 2, 0),
		AvailableSpots: 5,
	}).Error)

	assert.NoError(t, repo.AddEventSpots(ctx, eventID, 3))

	ev, err := repo.GetEvent(ctx, eventID)
	assert.NoError(t, err)
	assert.Equal(t, 8, ev.AvailableSpots)

	transportID := uuid.NewString()
	require.NoError(t, db.Create(&transportOptionModel{
		ID:             transportID,
		Route:          "Airport - Osu",
		DepartsAt:      time.Now().UTC().AddDate(0, 0, 7),
		AvailableSeats: 10,
	}).Error)

	assert.NoError(t, repo.AddTransportSeats(ctx, transportID, 2))

	tr, err := repo.GetTransport(ctx, transportID)
	assert.NoError(t, err)
	assert.Equal(t, 12, tr.AvailableSeats)
}

func TestListingRepository_MissingListing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewListingRepository(db)

	err := repo.AddEventSpots(context.Background(), uuid.NewString(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.AddTransportSeats(context.Background(), uuid.NewString(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSafetyReportRepository_OwnerScopedCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSafetyReportRepository(db)
	ctx := context.Background()

	owner := uuid.NewString()
	stranger := uuid.NewString()

	report := &domain.SafetyReport{
		ID:          uuid.NewString(),
		UserID:      owner,
		Location:    "Lagos Island",
		Category:    "scam",
		Description: "Overcharged at a currency exchange kiosk",
		Severity:    domain.SeverityModerate,
		Status:      domain.ReportPending,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, report))

	_, err := repo.GetByIDForUser(ctx, report.ID, stranger)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Update(ctx, report.ID, stranger, map[string]any{"location": "elsewhere"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Update(ctx, report.ID, owner, map[string]any{"severity": "high", "updated_at": time.Now().UTC()})
	assert.NoError(t, err)

	got, err := repo.GetByIDForUser(ctx, report.ID, owner)
	assert.NoError(t, err)
	assert.Equal(t, domain.SeverityHigh, got.Severity)

	err = repo.Delete(ctx, report.ID, stranger)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, repo.Delete(ctx, report.ID, owner))

	_, err = repo.GetByIDForUser(ctx, report.ID, owner)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
