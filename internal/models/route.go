package models

import (
	"errors"
	"time"
)

// Route represents a connection between two cities that buses are assigned to
type Route struct {
	ID              string    `json:"id" db:"id"`
	SourceCity      string    `json:"source_city" db:"source_city"`
	DestinationCity string    `json:"destination_city" db:"destination_city"`
	DistanceKm      float64   `json:"distance_km" db:"distance_km"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Price           float64   `json:"price" db:"price"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest represents the request to create a new route
type CreateRouteRequest struct {
	SourceCity      string  `json:"source_city" binding:"required"`
	DestinationCity string  `json:"destination_city" binding:"required"`
	DistanceKm      float64 `json:"distance_km" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required"`
	Price           float64 `json:"price" binding:"required"`
}

// UpdateRouteRequest represents the request to update route information
type UpdateRouteRequest struct {
	SourceCity      *string  `json:"source_city,omitempty"`
	DestinationCity *string  `json:"destination_city,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Price           *float64 `json:"price,omitempty"`
}

// Validate validates the CreateRouteRequest
func (req *CreateRouteRequest) Validate() error {
	if req.SourceCity == req.DestinationCity {
		return errors.New("source_city and destination_city must differ")
	}
	if req.DistanceKm <= 0 {
		return errors.New("distance_km must be greater than 0")
	}
	if req.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be greater than 0")
	}
	if req.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

// Validate validates the UpdateRouteRequest
func (req *UpdateRouteRequest) Validate() error {
	if req.DistanceKm != nil && *req.DistanceKm <= 0 {
		return errors.New("distance_km must be greater than 0")
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return errors.New("duration_minutes must be greater than 0")
	}
	if req.Price != nil && *req.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}
