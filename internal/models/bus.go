package models

import (
	"errors"
	"time"
)

// BusType represents the type/category of bus
type BusType string

const (
	BusTypeNormal      BusType = "normal"
	BusTypeLuxury      BusType = "luxury"
	BusTypeSemiLuxury  BusType = "semi_luxury"
	BusTypeSuperLuxury BusType = "super_luxury"
)

// BusStatus represents the current operational status of a bus
type BusStatus string

const (
	BusStatusActive      BusStatus = "active"
	BusStatusMaintenance BusStatus = "maintenance"
	BusStatusInactive    BusStatus = "inactive"
)

// Bus represents a bus operating on a route
type Bus struct {
	ID          string    `json:"id" db:"id"`
	BusNumber   string    `json:"bus_number" db:"bus_number"`
	BusType     BusType   `json:"bus_type" db:"bus_type"`
	TotalSeats  int       `json:"total_seats" db:"total_seats"`
	FarePerSeat float64   `json:"fare_per_seat" db:"fare_per_seat"`
	Status      BusStatus `json:"status" db:"status"`
	RouteID     string    `json:"route_id" db:"route_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// BusWithRoute is a bus joined with its route's cities, as returned by search
type BusWithRoute struct {
	Bus
	SourceCity      string `json:"source_city" db:"source_city"`
	DestinationCity string `json:"destination_city" db:"destination_city"`
}

// CreateBusRequest represents the request to create a new bus
type CreateBusRequest struct {
	BusNumber   string  `json:"bus_number" binding:"required"`
	BusType     string  `json:"bus_type" binding:"required"`
	TotalSeats  int     `json:"total_seats" binding:"required,gt=0"`
	FarePerSeat float64 `json:"fare_per_seat" binding:"required"`
	RouteID     string  `json:"route_id" binding:"required"`
	Status      *string `json:"status,omitempty"`
}

// UpdateBusRequest represents the request to update bus information
type UpdateBusRequest struct {
	BusNumber   *string  `json:"bus_number,omitempty"`
	BusType     *string  `json:"bus_type,omitempty"`
	TotalSeats  *int     `json:"total_seats,omitempty"`
	FarePerSeat *float64 `json:"fare_per_seat,omitempty"`
	RouteID     *string  `json:"route_id,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

func validBusType(t string) bool {
	switch BusType(t) {
	case BusTypeNormal, BusTypeLuxury, BusTypeSemiLuxury, BusTypeSuperLuxury:
		return true
	}
	return false
}

func validBusStatus(s string) bool {
	switch BusStatus(s) {
	case BusStatusActive, BusStatusMaintenance, BusStatusInactive:
		return true
	}
	return false
}

// Validate validates the CreateBusRequest
func (req *CreateBusRequest) Validate() error {
	if !validBusType(req.BusType) {
		return errors.New("invalid bus_type: must be normal, luxury, semi_luxury, or super_luxury")
	}
	if req.TotalSeats <= 1 {
		return errors.New("total_seats must leave at least one bookable seat")
	}
	if req.FarePerSeat < 0 {
		return errors.New("fare_per_seat must not be negative")
	}
	if req.Status != nil && !validBusStatus(*req.Status) {
		return errors.New("invalid status: must be active, maintenance, or inactive")
	}
	return nil
}

// Validate validates the UpdateBusRequest
func (req *UpdateBusRequest) Validate() error {
	if req.BusType != nil && !validBusType(*req.BusType) {
		return errors.New("invalid bus_type: must be normal, luxury, semi_luxury, or super_luxury")
	}
	if req.TotalSeats != nil && *req.TotalSeats <= 1 {
		return errors.New("total_seats must leave at least one bookable seat")
	}
	if req.FarePerSeat != nil && *req.FarePerSeat < 0 {
		return errors.New("fare_per_seat must not be negative")
	}
	if req.Status != nil && !validBusStatus(*req.Status) {
		return errors.New("invalid status: must be active, maintenance, or inactive")
	}
	return nil
}

// IsBookable checks whether the bus can accept new bookings
func (b *Bus) IsBookable() bool {
	return b.Status == BusStatusActive
}
