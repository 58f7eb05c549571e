package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements are applied in order at startup. All statements are
// idempotent; in production a dedicated migration tool would own these.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cities (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS routes (
		id UUID PRIMARY KEY,
		source_city TEXT NOT NULL,
		destination_city TEXT NOT NULL,
		distance_km NUMERIC(8,2) NOT NULL,
		duration_minutes INT NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS buses (
		id UUID PRIMARY KEY,
		bus_number TEXT NOT NULL UNIQUE,
		bus_type TEXT NOT NULL,
		total_seats INT NOT NULL CHECK (total_seats > 1),
		fare_per_seat NUMERIC(10,2) NOT NULL CHECK (fare_per_seat >= 0),
		status TEXT NOT NULL DEFAULT 'active',
		route_id UUID NOT NULL REFERENCES routes(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		booking_reference TEXT NOT NULL UNIQUE,
		user_id UUID NOT NULL REFERENCES users(id),
		bus_id UUID NOT NULL REFERENCES buses(id),
		travel_date DATE NOT NULL,
		base_fare NUMERIC(10,2) NOT NULL CHECK (base_fare >= 0),
		tax NUMERIC(10,2) NOT NULL CHECK (tax >= 0),
		booking_fee NUMERIC(10,2) NOT NULL CHECK (booking_fee >= 0),
		total_fare NUMERIC(10,2) NOT NULL CHECK (total_fare >= 0),
		status TEXT NOT NULL DEFAULT 'confirmed',
		cancelled_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// bus_id, travel_date and is_active are denormalized from the booking
	// header so the seat uniqueness index and seat-map query need no join.
	// Cancelling a booking clears is_active on its rows in the same
	// transaction that updates the header status.
	`CREATE TABLE IF NOT EXISTS booking_passengers (
		id UUID PRIMARY KEY,
		booking_id UUID NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		bus_id UUID NOT NULL REFERENCES buses(id),
		travel_date DATE NOT NULL,
		seat_number INT NOT NULL CHECK (seat_number > 0),
		name TEXT NOT NULL,
		age INT NOT NULL CHECK (age > 0 AND age <= 120),
		gender TEXT NOT NULL CHECK (gender IN ('male', 'female', 'other')),
		manifest_order INT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (booking_id, seat_number)
	)`,

	// The one invariant the database must own: no two active bookings may
	// hold the same seat on the same bus and date. Concurrent creates race
	// to this index; the loser gets a unique violation at commit time.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_booking_passengers_active_seat
		ON booking_passengers (bus_id, travel_date, seat_number)
		WHERE is_active`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_booking_passengers_booking ON booking_passengers (booking_id, manifest_order)`,
}

// ApplySchema ensures all required tables and indexes exist
func ApplySchema(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
