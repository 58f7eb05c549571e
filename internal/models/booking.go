package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Gender is the enumerated passenger gender
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// MaxPassengerAge bounds the plausible human age range accepted on a manifest
const MaxPassengerAge = 120

// Passenger is one entry of a booking's passenger manifest. Manifest order is
// seat assignment order and is never reordered.
type Passenger struct {
	ID         string    `json:"id" db:"id"`
	BookingID  string    `json:"booking_id" db:"booking_id"`
	Name       string    `json:"name" db:"name"`
	Age        int       `json:"age" db:"age"`
	Gender     Gender    `json:"gender" db:"gender"`
	SeatNumber int       `json:"seat_number" db:"seat_number"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Booking represents a seat reservation on a bus for a travel date, together
// with its passenger manifest
type Booking struct {
	ID               string        `json:"id" db:"id"`
	BookingReference string        `json:"booking_reference" db:"booking_reference"`
	UserID           string        `json:"user_id" db:"user_id"`
	BusID            string        `json:"bus_id" db:"bus_id"`
	TravelDate       time.Time     `json:"travel_date" db:"travel_date"`
	BaseFare         float64       `json:"base_fare" db:"base_fare"`
	Tax              float64       `json:"tax" db:"tax"`
	BookingFee       float64       `json:"booking_fee" db:"booking_fee"`
	TotalFare        float64       `json:"total_fare" db:"total_fare"`
	Status           BookingStatus `json:"status" db:"status"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`

	Passengers []Passenger `json:"passengers" db:"-"`
}

// PassengerRequest is one passenger entry on a create-booking request
type PassengerRequest struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	BusID       string             `json:"bus_id" binding:"required"`
	TravelDate  string             `json:"travel_date" binding:"required"` // YYYY-MM-DD
	SeatNumbers []int              `json:"seat_numbers" binding:"required"`
	Passengers  []PassengerRequest `json:"passengers" binding:"required"`
}

// Validate validates the create booking request fields. Seat availability is
// checked separately against the seat map.
func (req *CreateBookingRequest) Validate() error {
	if len(req.SeatNumbers) == 0 {
		return errors.New("seat_numbers must not be empty")
	}
	if len(req.Passengers) != len(req.SeatNumbers) {
		return fmt.Errorf("passenger count (%d) must equal seat count (%d)",
			len(req.Passengers), len(req.SeatNumbers))
	}
	for i, p := range req.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("passenger %d: name must not be empty", i+1)
		}
		if p.Age <= 0 || p.Age > MaxPassengerAge {
			return fmt.Errorf("passenger %d: age must be between 1 and %d", i+1, MaxPassengerAge)
		}
		switch Gender(p.Gender) {
		case GenderMale, GenderFemale, GenderOther:
		default:
			return fmt.Errorf("passenger %d: gender must be male, female, or other", i+1)
		}
	}
	return nil
}

// SeatNumbers returns the seats held by the booking in manifest order
func (b *Booking) SeatNumbers() []int {
	seats := make([]int, len(b.Passengers))
	for i, p := range b.Passengers {
		seats[i] = p.SeatNumber
	}
	return seats
}

// CanBeCancelled checks if the booking is in a non-terminal state
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPending
}

// Cancel transitions the booking to cancelled. Cancelled is terminal.
func (b *Booking) Cancel() error {
	if !b.CanBeCancelled() {
		return errors.New("booking cannot be cancelled")
	}

	now := time.Now()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now

	return nil
}
