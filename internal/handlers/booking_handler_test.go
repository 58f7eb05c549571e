package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bustrak/reservation-backend/internal/config"
	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/middleware"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/bustrak/reservation-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) (*BusHandler, *BookingHandler, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	pgDB := &database.PostgresDB{DB: sqlxDB}

	busRepo := database.NewBusRepository(pgDB)
	bookingRepo := database.NewBookingRepository(sqlxDB)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := config.BookingConfig{BookingFee: 20, TaxRate: 0.05, MaxSeatsPerBooking: 10}
	seatMaps := services.NewSeatMapService(busRepo, bookingRepo, cfg, logger)
	bookings := services.NewBookingService(bookingRepo, busRepo, seatMaps, cfg, logger)

	return NewBusHandler(busRepo, seatMaps), NewBookingHandler(bookings), mock
}

func busRow(busID, routeID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "bus_number", "bus_type", "total_seats", "fare_per_seat",
		"status", "route_id", "created_at", "updated_at",
	}).AddRow(busID, "NB-4521", "luxury", 40, 1200.0, "active", routeID, now, now)
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// fakeAuth injects a user context the way AuthMiddleware would
func fakeAuth(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID: userID,
			Email:  "amara@example.com",
			Role:   role,
		})
		c.Next()
	}
}

func TestQuoteFareEndpoint(t *testing.T) {
	busHandler, _, _ := newTestHandlers(t)

	router := gin.New()
	router.POST("/api/v1/fare/quote", busHandler.QuoteFare)

	t.Run("Explicit Fare", func(t *testing.T) {
		fare := 1200.0
		w := postJSON(router, "/api/v1/fare/quote", models.QuoteFareRequest{
			SeatNumbers: []int{3, 4},
			FarePerSeat: &fare,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var quote models.FareQuote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
		assert.Equal(t, 2400.0, quote.Base)
		assert.Equal(t, 120.0, quote.Tax)
		assert.Equal(t, 20.0, quote.Fee)
		assert.Equal(t, 2540.0, quote.Total)
	})

	t.Run("Empty Selection", func(t *testing.T) {
		fare := 1200.0
		w := postJSON(router, "/api/v1/fare/quote", models.QuoteFareRequest{
			SeatNumbers: []int{},
			FarePerSeat: &fare,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("No Fare Source", func(t *testing.T) {
		w := postJSON(router, "/api/v1/fare/quote", models.QuoteFareRequest{
			SeatNumbers: []int{3},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "fare_per_seat or bus_id")
	})
}

func TestGetSeatMapEndpoint(t *testing.T) {
	busHandler, _, _ := newTestHandlers(t)

	router := gin.New()
	router.GET("/api/v1/buses/:id/seat-map", busHandler.GetSeatMap)

	t.Run("Missing Date", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/buses/"+uuid.New().String()+"/seat-map", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "date")
	})

	t.Run("Bad Date", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/buses/"+uuid.New().String()+"/seat-map?date=01-10-2026", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown Bus", func(t *testing.T) {
		busHandler, _, mock := newTestHandlers(t)
		busID := uuid.New().String()

		router := gin.New()
		router.GET("/api/v1/buses/:id/seat-map", busHandler.GetSeatMap)

		mock.ExpectQuery(`SELECT (.+) FROM buses`).
			WithArgs(busID).
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest("GET", "/api/v1/buses/"+busID+"/seat-map?date=2026-10-01", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetBookingByReferenceEndpoint(t *testing.T) {
	reference := "BT-20261001-A1B2C3"
	bookingID := uuid.New().String()
	ownerID := uuid.New()

	expectFetch := func(mock sqlmock.Sqlmock) {
		now := time.Now()
		mock.ExpectQuery(`SELECT (.+) FROM bookings`).
			WithArgs(reference).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "booking_reference", "user_id", "bus_id", "travel_date",
				"base_fare", "tax", "booking_fee", "total_fare", "status", "cancelled_at",
				"created_at", "updated_at",
			}).AddRow(
				bookingID, reference, ownerID.String(), uuid.New().String(),
				time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
				2400.0, 120.0, 20.0, 2540.0, "confirmed", nil, now, now,
			))
		mock.ExpectQuery(`SELECT (.+) FROM booking_passengers`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "name", "age", "gender", "seat_number", "created_at"}).
				AddRow(uuid.New().String(), bookingID, "Amara Silva", 34, "female", 3, now))
	}

	t.Run("Owner", func(t *testing.T) {
		_, bookingHandler, mock := newTestHandlers(t)
		expectFetch(mock)

		router := gin.New()
		router.GET("/api/v1/bookings/reference/:ref", fakeAuth(ownerID, "customer"), bookingHandler.GetBookingByReference)

		req := httptest.NewRequest("GET", "/api/v1/bookings/reference/"+reference, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stranger Gets 403", func(t *testing.T) {
		_, bookingHandler, mock := newTestHandlers(t)
		expectFetch(mock)

		router := gin.New()
		router.GET("/api/v1/bookings/reference/:ref", fakeAuth(uuid.New(), "customer"), bookingHandler.GetBookingByReference)

		req := httptest.NewRequest("GET", "/api/v1/bookings/reference/"+reference, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateBookingEndpoint(t *testing.T) {
	t.Run("No Auth Context", func(t *testing.T) {
		_, bookingHandler, _ := newTestHandlers(t)

		router := gin.New()
		router.POST("/api/v1/bookings", bookingHandler.CreateBooking)

		w := postJSON(router, "/api/v1/bookings", models.CreateBookingRequest{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		_, bookingHandler, _ := newTestHandlers(t)

		router := gin.New()
		router.POST("/api/v1/bookings", fakeAuth(uuid.New(), "customer"), bookingHandler.CreateBooking)

		w := postJSON(router, "/api/v1/bookings", gin.H{"bus_id": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Seat Conflict Maps To 409", func(t *testing.T) {
		_, bookingHandler, mock := newTestHandlers(t)
		busID := uuid.New().String()
		routeID := uuid.New().String()

		router := gin.New()
		router.POST("/api/v1/bookings", fakeAuth(uuid.New(), "customer"), bookingHandler.CreateBooking)

		mock.ExpectQuery(`SELECT (.+) FROM buses`).WithArgs(busID).WillReturnRows(busRow(busID, routeID))
		mock.ExpectQuery(`SELECT (.+) FROM buses`).WithArgs(busID).WillReturnRows(busRow(busID, routeID))
		mock.ExpectQuery(`SELECT seat_number`).
			WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow(3))

		w := postJSON(router, "/api/v1/bookings", models.CreateBookingRequest{
			BusID:       busID,
			TravelDate:  "2030-01-01",
			SeatNumbers: []int{3},
			Passengers:  []models.PassengerRequest{{Name: "Amara Silva", Age: 34, Gender: "female"}},
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "taken_seats")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
