package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type BookingType string

const (
	BookingDining        BookingType = "dining"
	BookingAccommodation BookingType = "accommodation"
	BookingFlight        BookingType = "flight"
	BookingEvent         BookingType = "event"
	BookingTransport     BookingType = "transport"
)

var BookingTypes = []string{
	string(BookingDining),
	string(BookingAccommodation),
	string(BookingFlight),
	string(BookingEvent),
	string(BookingTransport),
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var BookingStatuses = []string{
	string(BookingPending),
	string(BookingConfirmed),
	string(BookingCancelled),
	string(BookingCompleted),
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

var PaymentStatuses = []string{
	string(PaymentPending),
	string(PaymentPaid),
	string(PaymentRefunded),
	string(PaymentFailed),
}

// Metadata is a free-form key/value bag stored as a JSON column.
// The cancellation flow records cancellation_reason here.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("metadata: unsupported scan source")
	}
}

type Booking struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id" validate:"required"`
	BookingType     BookingType   `json:"booking_type" validate:"required"`
	ReferenceID     string        `json:"reference_id" validate:"required"`
	Status          BookingStatus `json:"status"`
	BookingDate     time.Time     `json:"booking_date"`
	StartDate       time.Time     `json:"start_date" validate:"required"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
	Guests          int           `json:"guests" validate:"required,gte=1"`
	TotalPrice      float64       `json:"total_price" validate:"gte=0"`
	Currency        string        `json:"currency"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	Metadata        Metadata      `json:"metadata,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
}

// Terminal reports whether the booking can no longer be modified.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

// RestoresCapacity reports whether cancelling this booking must put
// its guests back into the referenced listing's counter. Accommodation,
// dining and flight availability is computed from bookings, not counted.
func (b *Booking) RestoresCapacity() bool {
	return b.BookingType == BookingEvent || b.BookingType == BookingTransport
}
