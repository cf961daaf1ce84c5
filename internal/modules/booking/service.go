package booking

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"homebound/internal/domain"
	"homebound/internal/pkg/apperror"
	"homebound/internal/realtime"
	"homebound/internal/repository"
)

const bookingsTable = "bookings"

type Service struct {
	bookings BookingRepository
	listings CapacityRestorer
	feed     ChangePublisher
}

func NewService(bookings BookingRepository, listings CapacityRestorer, feed ChangePublisher) *Service {
	return &Service{
		bookings: bookings,
		listings: listings,
		feed:     feed,
	}
}

func (s *Service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*domain.Booking, error) {
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	now := time.Now().UTC()
	b := &domain.Booking{
		ID:              uuid.NewString(),
		UserID:          userID,
		BookingType:     domain.BookingType(req.BookingType),
		ReferenceID:     req.ReferenceID,
		Status:          domain.BookingPending,
		BookingDate:     now,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Guests:          req.Guests,
		TotalPrice:      req.TotalPrice,
		Currency:        req.Currency,
		PaymentStatus:   domain.PaymentPending,
		SpecialRequests: req.SpecialRequests,
		Metadata:        req.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventInsert, bookingsTable, b, nil))
	}

	return b, nil
}

// GetBooking fetches a booking scoped to its owner. "Doesn't exist"
// and "not yours" are deliberately the same answer.
func (s *Service) GetBooking(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) GetUserBookings(ctx context.Context, userID string, f ListFilters) (*BookingPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}

	rows, total, err := s.bookings.ListByUser(ctx, userID, repository.BookingFilter{
		Status:      f.Status,
		BookingType: f.BookingType,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		Limit:       f.Limit,
		Offset:      (f.Page - 1) * f.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &BookingPage{
		Bookings:   rows,
		Pagination: NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *Service) UpdateBooking(ctx context.Context, bookingID, userID string, req UpdateBookingRequest) (*domain.Booking, error) {
	existing, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if existing.Terminal() {
		return nil, ErrCannotModify
	}

	if req.StartDate != nil && req.EndDate != nil && !req.EndDate.After(*req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	fields := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if req.StartDate != nil {
		fields["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["end_date"] = *req.EndDate
	}
	if req.Guests != nil {
		fields["guests"] = *req.Guests
	}
	if req.TotalPrice != nil {
		fields["total_price"] = *req.TotalPrice
	}
	if req.PaymentStatus != nil {
		fields["payment_status"] = *req.PaymentStatus
	}
	if req.SpecialRequests != nil {
		fields["special_requests"] = *req.SpecialRequests
	}

	if err := s.bookings.Update(ctx, bookingID, fields); err != nil {
		return nil, ErrUpdateFailed
	}

	updated, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventUpdate, bookingsTable, updated, existing))
	}

	return updated, nil
}

// CancelBooking moves a booking to cancelled and restores counted
// capacity. Cancellation is NOT idempotent: a second cancel fails with
// ErrAlreadyCancelled rather than succeeding as a no-op, and never
// re-stamps cancelled_at.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID, reason string) (*domain.Booking, error) {
	existing, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if existing.Status == domain.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}
	if existing.Status == domain.BookingCompleted {
		return nil, ErrCannotCancel
	}

	now := time.Now().UTC()
	fields := map[string]any{
		"status":       string(domain.BookingCancelled),
		"cancelled_at": now,
		"updated_at":   now,
	}
	if reason != "" {
		meta := domain.Metadata{}
		for k, v := range existing.Metadata {
			meta[k] = v
		}
		meta["cancellation_reason"] = reason
		fields["metadata"] = meta
	}

	if err := s.bookings.Update(ctx, bookingID, fields); err != nil {
		return nil, ErrUpdateFailed
	}

	// Restoration is best-effort: the booking row is the source of
	// truth and counter drift is recoverable, so failures are logged
	// and swallowed rather than failing the cancellation.
	s.restoreCapacity(ctx, existing)

	updated, err := s.bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventUpdate, bookingsTable, updated, existing))
	}

	return updated, nil
}

func (s *Service) restoreCapacity(ctx context.Context, b *domain.Booking) {
	if s.listings == nil || !b.RestoresCapacity() {
		return
	}

	var err error
	switch b.BookingType {
	case domain.BookingEvent:
		err = s.listings.AddEventSpots(ctx, b.ReferenceID, b.Guests)
	case domain.BookingTransport:
		err = s.listings.AddTransportSeats(ctx, b.ReferenceID, b.Guests)
	}
	if err != nil {
		log.Printf("capacity_restore_failed booking_id=%s booking_type=%s reference_id=%s guests=%d error=%q",
			b.ID, b.BookingType, b.ReferenceID, b.Guests, err)
	}
}

// ChangeBookingStatus overwrites the status without transition checks.
// It exists for administrative correction, which is why actorRole must
// be admin; owner scoping applies only when userID is supplied.
func (s *Service) ChangeBookingStatus(ctx context.Context, bookingID, newStatus, actorRole, userID string) (*domain.Booking, error) {
	if actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	var existing *domain.Booking
	var err error
	if userID != "" {
		existing, err = s.bookings.GetByIDForUser(ctx, bookingID, userID)
	} else {
		existing, err = s.bookings.GetByID(ctx, bookingID)
	}
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]any{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}
	if err := s.bookings.Update(ctx, bookingID, fields); err != nil {
		return nil, ErrUpdateFailed
	}

	updated, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.feed != nil {
		s.feed.Publish(realtime.NewChange(realtime.EventUpdate, bookingsTable, updated, existing))
	}

	return updated, nil
}
