package services

import (
	"testing"
	"time"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSeatMap(t *testing.T) {
	travelDate := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Empty Bus", func(t *testing.T) {
		seatMap := BuildSeatMap("bus-1", travelDate, 40, nil)

		assert.Equal(t, 40, seatMap.TotalSeats)
		require.Len(t, seatMap.Seats, 40)

		// Driver seat is never available
		assert.Equal(t, models.SeatOccupied, seatMap.Seats[0].Status)
		assert.Equal(t, 39, seatMap.AvailableCount())
	})

	t.Run("Occupied Seats", func(t *testing.T) {
		seatMap := BuildSeatMap("bus-1", travelDate, 40, []int{3, 4, 17})

		occupied := 0
		for _, seat := range seatMap.Seats {
			switch seat.Number {
			case models.DriverSeatNumber, 3, 4, 17:
				assert.Equal(t, models.SeatOccupied, seat.Status, "seat %d", seat.Number)
				occupied++
			default:
				assert.Equal(t, models.SeatAvailable, seat.Status, "seat %d", seat.Number)
			}
		}
		assert.Equal(t, 4, occupied)
		assert.Equal(t, 36, seatMap.AvailableCount())
	})

	t.Run("Seat Numbers Cover Layout", func(t *testing.T) {
		seatMap := BuildSeatMap("bus-1", travelDate, 12, nil)
		for i, seat := range seatMap.Seats {
			assert.Equal(t, i+1, seat.Number)
		}
	})
}

func TestComputeFare(t *testing.T) {
	t.Run("Two Seats At 1200", func(t *testing.T) {
		quote := ComputeFare(2, 1200, 0.05, 20)

		assert.Equal(t, 2400.0, quote.Base)
		assert.Equal(t, 120.0, quote.Tax)
		assert.Equal(t, 20.0, quote.Fee)
		assert.Equal(t, 2540.0, quote.Total)
	})

	t.Run("Tax Rounds To Whole Units", func(t *testing.T) {
		// 3 seats at 333: base 999, raw tax 49.95
		quote := ComputeFare(3, 333, 0.05, 20)
		assert.Equal(t, 50.0, quote.Tax)
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := ComputeFare(4, 850, 0.05, 20)
		second := ComputeFare(4, 850, 0.05, 20)
		assert.Equal(t, first, second)
	})

	t.Run("Monotonic In Seat Count", func(t *testing.T) {
		prev := ComputeFare(1, 1200, 0.05, 20)
		for n := 2; n <= 10; n++ {
			quote := ComputeFare(n, 1200, 0.05, 20)
			assert.Greater(t, quote.Total, prev.Total, "total must grow with %d seats", n)
			prev = quote
		}
	})

	t.Run("Total Is Sum Of Parts", func(t *testing.T) {
		quote := ComputeFare(5, 975, 0.05, 20)
		assert.Equal(t, quote.Base+quote.Tax+quote.Fee, quote.Total)
	})
}

func TestValidateSelection(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateSelection(40, []int{7, 8}, []int{3, 4}))
	})

	t.Run("Empty", func(t *testing.T) {
		err := ValidateSelection(40, nil, nil)
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := ValidateSelection(40, nil, []int{3, 4, 3})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Reason, "duplicate")
	})

	t.Run("Driver Seat", func(t *testing.T) {
		err := ValidateSelection(40, nil, []int{1})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Reason, "driver")
	})

	t.Run("Out Of Range", func(t *testing.T) {
		for _, seat := range []int{0, -3, 41} {
			err := ValidateSelection(40, nil, []int{seat})
			var validationErr *models.ValidationError
			require.ErrorAs(t, err, &validationErr, "seat %d", seat)
		}
	})

	t.Run("Occupied", func(t *testing.T) {
		err := ValidateSelection(40, []int{3, 9, 14}, []int{2, 3, 14})
		var conflictErr *models.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, []int{3, 14}, conflictErr.TakenSeats)
	})

	t.Run("Structural Errors Before Conflicts", func(t *testing.T) {
		// A duplicate in the request is the caller's bug even when the
		// seat is also occupied
		err := ValidateSelection(40, []int{3}, []int{3, 3})
		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}
