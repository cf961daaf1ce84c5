package booking

import (
	"math"
	"time"

	"homebound/internal/domain"
)

type CreateBookingRequest struct {
	BookingType     string          `json:"booking_type" validate:"required,oneof=dining accommodation flight event transport"`
	ReferenceID     string          `json:"reference_id" validate:"required,uuid"`
	StartDate       time.Time       `json:"start_date" validate:"required"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	Guests          int             `json:"guests" validate:"required,gte=1"`
	TotalPrice      float64         `json:"total_price" validate:"gte=0"`
	Currency        string          `json:"currency" validate:"required,len=3"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	Metadata        domain.Metadata `json:"metadata,omitempty"`
}

// UpdateBookingRequest is a partial update; id, user_id and created_at
// are system-controlled and not accepted here.
type UpdateBookingRequest struct {
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Guests          *int       `json:"guests,omitempty" validate:"omitempty,gte=1"`
	TotalPrice      *float64   `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	PaymentStatus   *string    `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid refunded failed"`
	SpecialRequests *string    `json:"special_requests,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	UserID string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

// ListFilters are the query-string filters for a user's booking list.
type ListFilters struct {
	Page        int
	Limit       int
	Status      string
	BookingType string
	StartDate   *time.Time
	EndDate     *time.Time
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

type BookingPage struct {
	Bookings   []domain.Booking `json:"bookings"`
	Pagination Pagination       `json:"pagination"`
}
