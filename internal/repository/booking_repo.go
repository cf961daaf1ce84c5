package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"homebound/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              string          `gorm:"column:id;primaryKey"`
	UserID          string          `gorm:"column:user_id;index"`
	BookingType     string          `gorm:"column:booking_type"`
	ReferenceID     string          `gorm:"column:reference_id"`
	Status          string          `gorm:"column:status"`
	BookingDate     time.Time       `gorm:"column:booking_date"`
	StartDate       time.Time       `gorm:"column:start_date"`
	EndDate         *time.Time      `gorm:"column:end_date"`
	Guests          int             `gorm:"column:guests"`
	TotalPrice      float64         `gorm:"column:total_price"`
	Currency        string          `gorm:"column:currency"`
	PaymentStatus   string          `gorm:"column:payment_status"`
	SpecialRequests *string         `gorm:"column:special_requests"`
	Metadata        domain.Metadata `gorm:"column:metadata;type:jsonb"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
	CancelledAt     *time.Time      `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var requests string
	if m.SpecialRequests != nil {
		requests = *m.SpecialRequests
	}

	return &domain.Booking{
		ID:              m.ID,
		UserID:          m.UserID,
		BookingType:     domain.BookingType(m.BookingType),
		ReferenceID:     m.ReferenceID,
		Status:          domain.BookingStatus(m.Status),
		BookingDate:     m.BookingDate,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		Guests:          m.Guests,
		TotalPrice:      m.TotalPrice,
		Currency:        m.Currency,
		PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
		SpecialRequests: requests,
		Metadata:        m.Metadata,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		CancelledAt:     m.CancelledAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var requests *string
	if b.SpecialRequests != "" {
		v := b.SpecialRequests
		requests = &v
	}

	return bookingModel{
		ID:              b.ID,
		UserID:          b.UserID,
		BookingType:     string(b.BookingType),
		ReferenceID:     b.ReferenceID,
		Status:          string(b.Status),
		BookingDate:     b.BookingDate,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Guests:          b.Guests,
		TotalPrice:      b.TotalPrice,
		Currency:        b.Currency,
		PaymentStatus:   string(b.PaymentStatus),
		SpecialRequests: requests,
		Metadata:        b.Metadata,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		CancelledAt:     b.CancelledAt,
	}
}

// BookingFilter holds the conjunctive predicates for listing a user's
// bookings. Zero values mean "not filtered".
type BookingFilter struct {
	Status      string
	BookingType string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*b = *toDomainBooking(m)
	return nil
}

// GetByIDForUser fetches a booking scoped to its owner. An absent row
// and a row owned by someone else are indistinguishable to the caller.
func (r *BookingRepository) GetByIDForUser(ctx context.Context, id, userID string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// GetByID fetches without owner scoping, for administrative overrides.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// ListByUser returns one page of a user's bookings, newest first, plus
// the total row count for the filter.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string, f BookingFilter) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{}).Where("user_id = ?", userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.BookingType != "" {
		q = q.Where("booking_type = ?", f.BookingType)
	}
	if f.StartDate != nil {
		q = q.Where("start_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("start_date <= ?", *f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []bookingModel
	if err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, total, nil
}

// Update applies a partial field update to a single row.
func (r *BookingRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
