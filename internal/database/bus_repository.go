package database

import (
	"database/sql"
	"fmt"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/google/uuid"
)

// BusRepository handles database operations for buses
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create creates a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}
	if bus.Status == "" {
		bus.Status = models.BusStatusActive
	}

	query := `
		INSERT INTO buses (id, bus_number, bus_type, total_seats, fare_per_seat, status, route_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		bus.ID, bus.BusNumber, bus.BusType, bus.TotalSeats,
		bus.FarePerSeat, bus.Status, bus.RouteID,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(busID string) (*models.Bus, error) {
	query := `
		SELECT id, bus_number, bus_type, total_seats, fare_per_seat, status, route_id,
		       created_at, updated_at
		FROM buses
		WHERE id = $1
	`

	bus := &models.Bus{}
	err := r.db.QueryRow(query, busID).Scan(
		&bus.ID, &bus.BusNumber, &bus.BusType, &bus.TotalSeats,
		&bus.FarePerSeat, &bus.Status, &bus.RouteID,
		&bus.CreatedAt, &bus.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "bus", ID: busID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bus: %w", err)
	}

	return bus, nil
}

// GetAll retrieves all buses
func (r *BusRepository) GetAll() ([]models.Bus, error) {
	query := `
		SELECT id, bus_number, bus_type, total_seats, fare_per_seat, status, route_id,
		       created_at, updated_at
		FROM buses
		ORDER BY bus_number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch buses: %w", err)
	}
	defer rows.Close()

	return r.scanBuses(rows)
}

// Search finds active buses running between two cities
func (r *BusRepository) Search(from, to string) ([]models.BusWithRoute, error) {
	query := `
		SELECT b.id, b.bus_number, b.bus_type, b.total_seats, b.fare_per_seat,
		       b.status, b.route_id, b.created_at, b.updated_at,
		       r.source_city, r.destination_city
		FROM buses b
		JOIN routes r ON b.route_id = r.id
		WHERE r.source_city = $1 AND r.destination_city = $2 AND b.status = 'active'
		ORDER BY b.bus_number
	`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to search buses: %w", err)
	}
	defer rows.Close()

	buses := []models.BusWithRoute{}
	for rows.Next() {
		var bus models.BusWithRoute
		err := rows.Scan(
			&bus.ID, &bus.BusNumber, &bus.BusType, &bus.TotalSeats, &bus.FarePerSeat,
			&bus.Status, &bus.RouteID, &bus.CreatedAt, &bus.UpdatedAt,
			&bus.SourceCity, &bus.DestinationCity,
		)
		if err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}

	return buses, rows.Err()
}

// Update updates bus fields that are set in the request
func (r *BusRepository) Update(busID string, req *models.UpdateBusRequest) (*models.Bus, error) {
	bus, err := r.GetByID(busID)
	if err != nil {
		return nil, err
	}

	if req.BusNumber != nil {
		bus.BusNumber = *req.BusNumber
	}
	if req.BusType != nil {
		bus.BusType = models.BusType(*req.BusType)
	}
	if req.TotalSeats != nil {
		bus.TotalSeats = *req.TotalSeats
	}
	if req.FarePerSeat != nil {
		bus.FarePerSeat = *req.FarePerSeat
	}
	if req.RouteID != nil {
		bus.RouteID = *req.RouteID
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}

	query := `
		UPDATE buses
		SET bus_number = $2, bus_type = $3, total_seats = $4, fare_per_seat = $5,
		    status = $6, route_id = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		query,
		bus.ID, bus.BusNumber, bus.BusType, bus.TotalSeats,
		bus.FarePerSeat, bus.Status, bus.RouteID,
	).Scan(&bus.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}

	return bus, nil
}

// Delete deletes a bus. A bus with active bookings cannot be deleted.
func (r *BusRepository) Delete(busID string) error {
	var activeBookings int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE bus_id = $1 AND status != 'cancelled'
	`, busID).Scan(&activeBookings)
	if err != nil {
		return fmt.Errorf("failed to check bus bookings: %w", err)
	}
	if activeBookings > 0 {
		return &models.ValidationError{Reason: fmt.Sprintf("bus has %d active booking(s) and cannot be deleted", activeBookings)}
	}

	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, busID)
	if err != nil {
		return fmt.Errorf("failed to delete bus: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "bus", ID: busID}
	}

	return nil
}

func (r *BusRepository) scanBuses(rows *sql.Rows) ([]models.Bus, error) {
	buses := []models.Bus{}
	for rows.Next() {
		var bus models.Bus
		err := rows.Scan(
			&bus.ID, &bus.BusNumber, &bus.BusType, &bus.TotalSeats,
			&bus.FarePerSeat, &bus.Status, &bus.RouteID,
			&bus.CreatedAt, &bus.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}
	return buses, rows.Err()
}
