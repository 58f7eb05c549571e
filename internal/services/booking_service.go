package services

import (
	"time"

	"github.com/bustrak/reservation-backend/internal/config"
	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// travelDateLayout is the wire format for travel dates
const travelDateLayout = "2006-01-02"

// BookingService owns the booking lifecycle: creation, lookup and
// cancellation. All writes go through BookingRepository transactions.
type BookingService struct {
	bookingRepo *database.BookingRepository
	busRepo     *database.BusRepository
	seatMaps    *SeatMapService
	booking     config.BookingConfig
	logger      *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	busRepo *database.BusRepository,
	seatMaps *SeatMapService,
	booking config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		busRepo:     busRepo,
		seatMaps:    seatMaps,
		booking:     booking,
		logger:      logger,
	}
}

// CreateBooking validates the request, prices the selection and persists
// the booking with its passenger manifest atomically. The availability
// check here is advisory; the repository re-checks inside the insert
// transaction and the database index settles races.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, &models.ValidationError{Reason: err.Error()}
	}

	travelDate, err := parseTravelDate(req.TravelDate)
	if err != nil {
		return nil, err
	}

	bus, err := s.busRepo.GetByID(req.BusID)
	if err != nil {
		return nil, err
	}
	if !bus.IsBookable() {
		return nil, models.NewValidationError("bus %s is not accepting bookings", bus.BusNumber)
	}

	if err := s.seatMaps.ValidateSelection(bus.ID, travelDate, req.SeatNumbers); err != nil {
		return nil, err
	}

	quote := ComputeFare(len(req.SeatNumbers), bus.FarePerSeat, s.booking.TaxRate, s.booking.BookingFee)

	reference, err := database.GenerateBookingReference()
	if err != nil {
		return nil, &models.PersistenceError{Op: "generate booking reference", Err: err}
	}

	booking := &models.Booking{
		BookingReference: reference,
		UserID:           userID,
		BusID:            bus.ID,
		TravelDate:       travelDate,
		BaseFare:         quote.Base,
		Tax:              quote.Tax,
		BookingFee:       quote.Fee,
		TotalFare:        quote.Total,
		Status:           models.BookingStatusConfirmed,
		Passengers:       buildManifest(req),
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"user_id":           userID,
		"bus_id":            bus.ID,
		"travel_date":       req.TravelDate,
		"seats":             req.SeatNumbers,
		"total_fare":        booking.TotalFare,
	}).Info("Booking created")

	return booking, nil
}

// GetBooking retrieves a booking. Customers can only see their own
// bookings; operators can see any.
func (s *BookingService) GetBooking(bookingID, requesterID string, isOperator bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID && !isOperator {
		return nil, &models.ForbiddenError{Reason: "booking belongs to another user"}
	}

	return booking, nil
}

// GetBookingByReference retrieves a booking by its human booking
// reference, the lookup the confirmation page uses. Same visibility rule
// as GetBooking.
func (s *BookingService) GetBookingByReference(reference, requesterID string, isOperator bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(reference)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID && !isOperator {
		return nil, &models.ForbiddenError{Reason: "booking belongs to another user"}
	}

	return booking, nil
}

// GetAllBookings retrieves every booking, newest first. Operator only;
// the handler enforces the role.
func (s *BookingService) GetAllBookings() ([]models.Booking, error) {
	return s.bookingRepo.GetAll()
}

// GetUserBookings retrieves all bookings made by a user, newest first
func (s *BookingService) GetUserBookings(userID string) ([]models.Booking, error) {
	return s.bookingRepo.GetByUserID(userID)
}

// CancelBooking cancels a booking and releases its seats. Only the owner
// or an operator may cancel, and cancelled is terminal.
func (s *BookingService) CancelBooking(bookingID, requesterID string, isOperator bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != requesterID && !isOperator {
		return nil, &models.ForbiddenError{Reason: "booking belongs to another user"}
	}

	if err := s.bookingRepo.Cancel(booking); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"cancelled_by":      requesterID,
	}).Info("Booking cancelled")

	return booking, nil
}

// buildManifest pairs passengers with seats in request order. Request
// order is manifest order.
func buildManifest(req *models.CreateBookingRequest) []models.Passenger {
	passengers := make([]models.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = models.Passenger{
			Name:       p.Name,
			Age:        p.Age,
			Gender:     models.Gender(p.Gender),
			SeatNumber: req.SeatNumbers[i],
		}
	}
	return passengers
}

func parseTravelDate(value string) (time.Time, error) {
	travelDate, err := time.Parse(travelDateLayout, value)
	if err != nil {
		return time.Time{}, models.NewValidationError("travel_date must be in YYYY-MM-DD format")
	}

	today, _ := time.Parse(travelDateLayout, time.Now().UTC().Format(travelDateLayout))
	if travelDate.Before(today) {
		return time.Time{}, models.NewValidationError("travel_date must not be in the past")
	}

	return travelDate, nil
}
