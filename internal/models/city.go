package models

import "time"

// City represents a city served by the network. Reference data only; cities
// are read-only to the booking workflow.
type City struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
