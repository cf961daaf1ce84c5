package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"homebound/internal/domain"
)

// ListingRepository owns the counted inventory for events and
// transport options. Increments are single UPDATE statements so two
// concurrent cancellations cannot under-restore the counter.
type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type eventListingModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Title          string    `gorm:"column:title"`
	Location       string    `gorm:"column:location"`
	StartsAt       time.Time `gorm:"column:starts_at"`
	AvailableSpots int       `gorm:"column:available_spots"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (eventListingModel) TableName() string { return "event_listings" }

type transportOptionModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Route          string    `gorm:"column:route"`
	DepartsAt      time.Time `gorm:"column:departs_at"`
	AvailableSeats int       `gorm:"column:available_seats"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (transportOptionModel) TableName() string { return "transport_options" }

func (r *ListingRepository) AddEventSpots(ctx context.Context, eventID string, n int) error {
	tx := r.db.WithContext(ctx).Model(&eventListingModel{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"available_spots": gorm.Expr("available_spots + ?", n),
			"updated_at":      time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ListingRepository) AddTransportSeats(ctx context.Context, transportID string, n int) error {
	tx := r.db.WithContext(ctx).Model(&transportOptionModel{}).
		Where("id = ?", transportID).
		Updates(map[string]any{
			"available_seats": gorm.Expr("available_seats + ?", n),
			"updated_at":      time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ListingRepository) GetEvent(ctx context.Context, id string) (*domain.EventListing, error) {
	var m eventListingModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.EventListing{
		ID:             m.ID,
		Title:          m.Title,
		Location:       m.Location,
		StartsAt:       m.StartsAt,
		AvailableSpots: m.AvailableSpots,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func (r *ListingRepository) GetTransport(ctx context.Context, id string) (*domain.TransportOption, error) {
	var m transportOptionModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.TransportOption{
		ID:             m.ID,
		Route:          m.Route,
		DepartsAt:      m.DepartsAt,
		AvailableSeats: m.AvailableSeats,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
