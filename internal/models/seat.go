package models

import "time"

// SeatStatus represents the availability state of a seat position
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatOccupied  SeatStatus = "occupied"
)

// DriverSeatNumber is the seat position permanently reserved for the driver
// (first seat of the front row). It is never selectable.
const DriverSeatNumber = 1

// Seat is a derived position on a bus for a travel date, not a persisted entity
type Seat struct {
	Number int        `json:"number"`
	Status SeatStatus `json:"status"`
}

// SeatMap is the availability state of every seat on a bus for one travel date
type SeatMap struct {
	BusID      string    `json:"bus_id"`
	TravelDate time.Time `json:"travel_date"`
	TotalSeats int       `json:"total_seats"`
	Seats      []Seat    `json:"seats"`
}

// AvailableCount returns the number of selectable seats
func (m *SeatMap) AvailableCount() int {
	n := 0
	for _, s := range m.Seats {
		if s.Status == SeatAvailable {
			n++
		}
	}
	return n
}

// FareQuote is the computed fare breakdown for a seat selection
type FareQuote struct {
	Base  float64 `json:"base"`
	Tax   float64 `json:"tax"`
	Fee   float64 `json:"fee"`
	Total float64 `json:"total"`
}

// QuoteFareRequest represents the request for a fare quote
type QuoteFareRequest struct {
	SeatNumbers []int    `json:"seat_numbers" binding:"required"`
	FarePerSeat *float64 `json:"fare_per_seat,omitempty"`
	BusID       *string  `json:"bus_id,omitempty"`
}
