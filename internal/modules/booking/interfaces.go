package booking

import (
	"context"

	"homebound/internal/domain"
	"homebound/internal/realtime"
	"homebound/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByIDForUser(ctx context.Context, id, userID string) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, f repository.BookingFilter) ([]domain.Booking, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// CapacityRestorer puts cancelled guests back into counted inventory.
type CapacityRestorer interface {
	AddEventSpots(ctx context.Context, eventID string, n int) error
	AddTransportSeats(ctx context.Context, transportID string, n int) error
}

// ChangePublisher pushes row changes to the realtime feed.
type ChangePublisher interface {
	Publish(evt realtime.ChangeEvent)
}
