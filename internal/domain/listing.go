package domain

import "time"

// EventListing and TransportOption carry the only counted inventory in
// the catalog. Bookings decrement the counters at creation time and the
// cancellation flow puts guests back.

type EventListing struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	StartsAt       time.Time `json:"starts_at"`
	AvailableSpots int       `json:"available_spots"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TransportOption struct {
	ID             string    `json:"id"`
	Route          string    `json:"route"`
	DepartsAt      time.Time `json:"departs_at"`
	AvailableSeats int       `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
