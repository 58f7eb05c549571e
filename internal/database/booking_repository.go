package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// BookingRepository handles database operations for bookings. Unlike the
// other repositories it holds *sqlx.DB directly because booking creation
// and cancellation run inside explicit transactions.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// GenerateBookingReference generates a unique booking reference in the
// format BT-YYYYMMDD-XXXXXX
func GenerateBookingReference() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}

	date := time.Now().Format("20060102")
	suffix := strings.ToUpper(hex.EncodeToString(bytes))

	return fmt.Sprintf("BT-%s-%s", date, suffix), nil
}

// Create persists a booking header together with its passenger manifest in
// one transaction. Seat availability is re-checked inside the transaction,
// and the partial unique index on active seats is the final arbiter: if a
// concurrent booking wins the race, the insert fails with a unique
// violation and a ConflictError is returned. Either every row is written
// or none are.
func (r *BookingRepository) Create(booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return &models.PersistenceError{Op: "begin booking transaction", Err: err}
	}
	defer tx.Rollback()

	taken, err := activeSeatsAmong(tx, booking.BusID, booking.TravelDate, booking.SeatNumbers())
	if err != nil {
		return &models.PersistenceError{Op: "check seat availability", Err: err}
	}
	if len(taken) > 0 {
		return &models.ConflictError{TakenSeats: taken}
	}

	query := `
		INSERT INTO bookings (id, booking_reference, user_id, bus_id, travel_date,
		                      base_fare, tax, booking_fee, total_fare, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(
		query,
		booking.ID, booking.BookingReference, booking.UserID, booking.BusID,
		booking.TravelDate, booking.BaseFare, booking.Tax, booking.BookingFee,
		booking.TotalFare, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return &models.PersistenceError{Op: "insert booking", Err: err}
	}

	passengerQuery := `
		INSERT INTO booking_passengers (id, booking_id, bus_id, travel_date,
		                                seat_number, name, age, gender, manifest_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.BookingID = booking.ID

		err = tx.QueryRow(
			passengerQuery,
			p.ID, p.BookingID, booking.BusID, booking.TravelDate,
			p.SeatNumber, p.Name, p.Age, p.Gender, i,
		).Scan(&p.CreatedAt)
		if err != nil {
			if isActiveSeatViolation(err) {
				return &models.ConflictError{TakenSeats: []int{p.SeatNumber}}
			}
			return &models.PersistenceError{Op: "insert passenger", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		if isActiveSeatViolation(err) {
			return &models.ConflictError{TakenSeats: booking.SeatNumbers()}
		}
		return &models.PersistenceError{Op: "commit booking", Err: err}
	}

	return nil
}

// GetByID retrieves a booking with its passenger manifest
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := `
		SELECT id, booking_reference, user_id, bus_id, travel_date,
		       base_fare, tax, booking_fee, total_fare, status, cancelled_at,
		       created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	booking := &models.Booking{}
	err := r.db.Get(booking, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "booking", ID: bookingID}
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "fetch booking", Err: err}
	}

	if err := r.loadPassengers(booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByReference retrieves a booking by its booking reference
func (r *BookingRepository) GetByReference(reference string) (*models.Booking, error) {
	query := `
		SELECT id, booking_reference, user_id, bus_id, travel_date,
		       base_fare, tax, booking_fee, total_fare, status, cancelled_at,
		       created_at, updated_at
		FROM bookings
		WHERE booking_reference = $1
	`

	booking := &models.Booking{}
	err := r.db.Get(booking, query, reference)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "booking", ID: reference}
	}
	if err != nil {
		return nil, &models.PersistenceError{Op: "fetch booking", Err: err}
	}

	if err := r.loadPassengers(booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByUserID retrieves all bookings for a user, newest first. Manifests
// are loaded per booking; user booking lists are short.
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := `
		SELECT id, booking_reference, user_id, bus_id, travel_date,
		       base_fare, tax, booking_fee, total_fare, status, cancelled_at,
		       created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, &models.PersistenceError{Op: "fetch user bookings", Err: err}
	}

	for i := range bookings {
		if err := r.loadPassengers(&bookings[i]); err != nil {
			return nil, err
		}
	}

	return bookings, nil
}

// GetAll retrieves every booking, newest first. Operator dashboard view;
// manifests are loaded per booking.
func (r *BookingRepository) GetAll() ([]models.Booking, error) {
	query := `
		SELECT id, booking_reference, user_id, bus_id, travel_date,
		       base_fare, tax, booking_fee, total_fare, status, cancelled_at,
		       created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
	`

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query); err != nil {
		return nil, &models.PersistenceError{Op: "fetch bookings", Err: err}
	}

	for i := range bookings {
		if err := r.loadPassengers(&bookings[i]); err != nil {
			return nil, err
		}
	}

	return bookings, nil
}

// ActiveSeatNumbers returns the seats held by non-cancelled bookings on a
// bus for a travel date
func (r *BookingRepository) ActiveSeatNumbers(busID string, travelDate time.Time) ([]int, error) {
	query := `
		SELECT seat_number
		FROM booking_passengers
		WHERE bus_id = $1 AND travel_date = $2 AND is_active
		ORDER BY seat_number
	`

	seats := []int{}
	if err := r.db.Select(&seats, query, busID, travelDate); err != nil {
		return nil, &models.PersistenceError{Op: "fetch occupied seats", Err: err}
	}

	return seats, nil
}

// Cancel marks a booking cancelled and releases its seats. The header
// update and the manifest deactivation happen in one transaction so the
// seats become available exactly when the cancellation is durable.
func (r *BookingRepository) Cancel(booking *models.Booking) error {
	if err := booking.Cancel(); err != nil {
		return &models.ValidationError{Reason: err.Error()}
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return &models.PersistenceError{Op: "begin cancel transaction", Err: err}
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE bookings
		SET status = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1 AND status != 'cancelled'
	`, booking.ID, booking.Status, booking.CancelledAt)
	if err != nil {
		return &models.PersistenceError{Op: "cancel booking", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &models.PersistenceError{Op: "cancel booking", Err: err}
	}
	if rows == 0 {
		// The guarded UPDATE matched nothing: either the booking is gone
		// or a concurrent cancel already flipped it.
		var status models.BookingStatus
		err := tx.Get(&status, `SELECT status FROM bookings WHERE id = $1`, booking.ID)
		if err == sql.ErrNoRows {
			return &models.NotFoundError{Resource: "booking", ID: booking.ID}
		}
		if err != nil {
			return &models.PersistenceError{Op: "cancel booking", Err: err}
		}
		return &models.ValidationError{Reason: "booking is already cancelled"}
	}

	if _, err := tx.Exec(`
		UPDATE booking_passengers
		SET is_active = false
		WHERE booking_id = $1
	`, booking.ID); err != nil {
		return &models.PersistenceError{Op: "release seats", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &models.PersistenceError{Op: "commit cancellation", Err: err}
	}

	return nil
}

func (r *BookingRepository) loadPassengers(booking *models.Booking) error {
	query := `
		SELECT id, booking_id, name, age, gender, seat_number, created_at
		FROM booking_passengers
		WHERE booking_id = $1
		ORDER BY manifest_order
	`

	passengers := []models.Passenger{}
	if err := r.db.Select(&passengers, query, booking.ID); err != nil {
		return &models.PersistenceError{Op: "fetch passengers", Err: err}
	}

	booking.Passengers = passengers
	return nil
}

func activeSeatsAmong(tx *sqlx.Tx, busID string, travelDate time.Time, seats []int) ([]int, error) {
	query := `
		SELECT seat_number
		FROM booking_passengers
		WHERE bus_id = $1 AND travel_date = $2 AND is_active
		  AND seat_number = ANY($3)
		ORDER BY seat_number
	`

	taken := []int{}
	if err := tx.Select(&taken, query, busID, travelDate, pq.Array(seats)); err != nil {
		return nil, err
	}

	return taken, nil
}

// isActiveSeatViolation reports whether err is a unique violation on the
// active-seat index, i.e. another booking holds the seat.
func isActiveSeatViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == "uq_booking_passengers_active_seat"
}
