package services

import (
	"math"
	"time"

	"github.com/bustrak/reservation-backend/internal/config"
	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SeatMapService answers seat availability and fare questions. It only
// reads persisted state; bookings are written by BookingService.
type SeatMapService struct {
	busRepo     *database.BusRepository
	bookingRepo *database.BookingRepository
	booking     config.BookingConfig
	logger      *logrus.Logger
}

// NewSeatMapService creates a new SeatMapService
func NewSeatMapService(
	busRepo *database.BusRepository,
	bookingRepo *database.BookingRepository,
	booking config.BookingConfig,
	logger *logrus.Logger,
) *SeatMapService {
	return &SeatMapService{
		busRepo:     busRepo,
		bookingRepo: bookingRepo,
		booking:     booking,
		logger:      logger,
	}
}

// GetSeatMap returns the availability of every seat on a bus for a travel
// date. Seat 1 is the driver's seat and is always occupied.
func (s *SeatMapService) GetSeatMap(busID string, travelDate time.Time) (*models.SeatMap, error) {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return nil, err
	}

	occupied, err := s.bookingRepo.ActiveSeatNumbers(bus.ID, travelDate)
	if err != nil {
		return nil, err
	}

	return BuildSeatMap(bus.ID, travelDate, bus.TotalSeats, occupied), nil
}

// QuoteFare computes the fare breakdown for a seat selection. The fare per
// seat comes from the request or, when a bus ID is given instead, from the
// bus record.
func (s *SeatMapService) QuoteFare(req *models.QuoteFareRequest) (*models.FareQuote, error) {
	if len(req.SeatNumbers) == 0 {
		return nil, &models.ValidationError{Reason: "seat_numbers must not be empty"}
	}
	if dup := firstDuplicate(req.SeatNumbers); dup != 0 {
		return nil, models.NewValidationError("duplicate seat number %d", dup)
	}

	farePerSeat, err := s.resolveFarePerSeat(req)
	if err != nil {
		return nil, err
	}

	quote := ComputeFare(len(req.SeatNumbers), farePerSeat, s.booking.TaxRate, s.booking.BookingFee)
	return &quote, nil
}

// ValidateSelection checks that a seat selection could be booked right now.
// It is advisory: availability can change before the booking commits, so
// the same checks run again inside the booking transaction.
func (s *SeatMapService) ValidateSelection(busID string, travelDate time.Time, seatNumbers []int) error {
	bus, err := s.busRepo.GetByID(busID)
	if err != nil {
		return err
	}

	occupied, err := s.bookingRepo.ActiveSeatNumbers(bus.ID, travelDate)
	if err != nil {
		return err
	}

	if len(seatNumbers) > s.booking.MaxSeatsPerBooking {
		return models.NewValidationError("at most %d seats per booking", s.booking.MaxSeatsPerBooking)
	}

	return ValidateSelection(bus.TotalSeats, occupied, seatNumbers)
}

// BuildSeatMap derives the seat map for a bus and date from the set of
// occupied seat numbers
func BuildSeatMap(busID string, travelDate time.Time, totalSeats int, occupied []int) *models.SeatMap {
	occupiedSet := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		occupiedSet[n] = true
	}

	seats := make([]models.Seat, totalSeats)
	for i := range seats {
		number := i + 1
		status := models.SeatAvailable
		if number == models.DriverSeatNumber || occupiedSet[number] {
			status = models.SeatOccupied
		}
		seats[i] = models.Seat{Number: number, Status: status}
	}

	return &models.SeatMap{
		BusID:      busID,
		TravelDate: travelDate,
		TotalSeats: totalSeats,
		Seats:      seats,
	}
}

// ComputeFare computes the fare breakdown for n seats. Tax is rounded to
// the nearest whole unit the way the fare schedule defines it.
func ComputeFare(n int, farePerSeat, taxRate, bookingFee float64) models.FareQuote {
	base := farePerSeat * float64(n)
	tax := math.Round(base * taxRate)

	return models.FareQuote{
		Base:  base,
		Tax:   tax,
		Fee:   bookingFee,
		Total: base + tax + bookingFee,
	}
}

// ValidateSelection checks a seat selection against the bus layout and the
// occupied seats. Occupied seats produce a ConflictError listing every
// clashing seat; structural problems produce a ValidationError.
func ValidateSelection(totalSeats int, occupied []int, seatNumbers []int) error {
	if len(seatNumbers) == 0 {
		return &models.ValidationError{Reason: "seat_numbers must not be empty"}
	}
	if dup := firstDuplicate(seatNumbers); dup != 0 {
		return models.NewValidationError("duplicate seat number %d", dup)
	}

	for _, n := range seatNumbers {
		if n == models.DriverSeatNumber {
			return models.NewValidationError("seat %d is reserved for the driver", n)
		}
		if n < 1 || n > totalSeats {
			return models.NewValidationError("seat %d is outside the bus layout (1-%d)", n, totalSeats)
		}
	}

	occupiedSet := make(map[int]bool, len(occupied))
	for _, n := range occupied {
		occupiedSet[n] = true
	}

	var taken []int
	for _, n := range seatNumbers {
		if occupiedSet[n] {
			taken = append(taken, n)
		}
	}
	if len(taken) > 0 {
		return &models.ConflictError{TakenSeats: taken}
	}

	return nil
}

func (s *SeatMapService) resolveFarePerSeat(req *models.QuoteFareRequest) (float64, error) {
	if req.FarePerSeat != nil {
		if *req.FarePerSeat < 0 {
			return 0, &models.ValidationError{Reason: "fare_per_seat must not be negative"}
		}
		return *req.FarePerSeat, nil
	}

	if req.BusID != nil {
		bus, err := s.busRepo.GetByID(*req.BusID)
		if err != nil {
			return 0, err
		}
		return bus.FarePerSeat, nil
	}

	return 0, &models.ValidationError{Reason: "either fare_per_seat or bus_id is required"}
}

func firstDuplicate(seats []int) int {
	seen := make(map[int]bool, len(seats))
	for _, n := range seats {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return 0
}
