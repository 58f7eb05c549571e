package handlers

import (
	"net/http"
	"time"

	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/bustrak/reservation-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// BusHandler serves bus catalog reads, search and seat maps plus
// operator-only bus management
type BusHandler struct {
	busRepo  *database.BusRepository
	seatMaps *services.SeatMapService
}

// NewBusHandler creates a new BusHandler
func NewBusHandler(busRepo *database.BusRepository, seatMaps *services.SeatMapService) *BusHandler {
	return &BusHandler{busRepo: busRepo, seatMaps: seatMaps}
}

// SearchBuses finds active buses between two cities
// GET /api/v1/buses/search?from=&to=
func (h *BusHandler) SearchBuses(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "from and to query parameters are required"})
		return
	}

	buses, err := h.busRepo.Search(from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// GetBusByID retrieves a specific bus
// GET /api/v1/buses/:id
func (h *BusHandler) GetBusByID(c *gin.Context) {
	bus, err := h.busRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// GetSeatMap returns the seat availability for a bus on a travel date
// GET /api/v1/buses/:id/seat-map?date=YYYY-MM-DD
func (h *BusHandler) GetSeatMap(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "date query parameter is required"})
		return
	}

	travelDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "date must be in YYYY-MM-DD format"})
		return
	}

	seatMap, err := h.seatMaps.GetSeatMap(c.Param("id"), travelDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seatMap)
}

// QuoteFare computes a fare breakdown for a seat selection
// POST /api/v1/fare/quote
func (h *BusHandler) QuoteFare(c *gin.Context) {
	var req models.QuoteFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	quote, err := h.seatMaps.QuoteFare(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// CreateBus creates a new bus (operator only)
// POST /api/v1/buses
func (h *BusHandler) CreateBus(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, &models.ValidationError{Reason: err.Error()})
		return
	}

	bus := &models.Bus{
		BusNumber:   req.BusNumber,
		BusType:     models.BusType(req.BusType),
		TotalSeats:  req.TotalSeats,
		FarePerSeat: req.FarePerSeat,
		RouteID:     req.RouteID,
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}

	if err := h.busRepo.Create(bus); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// UpdateBus updates bus fields (operator only)
// PUT /api/v1/buses/:id
func (h *BusHandler) UpdateBus(c *gin.Context) {
	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, &models.ValidationError{Reason: err.Error()})
		return
	}

	bus, err := h.busRepo.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// DeleteBus deletes a bus with no active bookings (operator only)
// DELETE /api/v1/buses/:id
func (h *BusHandler) DeleteBus(c *gin.Context) {
	if err := h.busRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}
