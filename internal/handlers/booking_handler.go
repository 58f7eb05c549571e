package handlers

import (
	"net/http"

	"github.com/bustrak/reservation-backend/internal/middleware"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/bustrak/reservation-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// BookingHandler serves the booking lifecycle endpoints. All routes sit
// behind AuthMiddleware; ownership checks live in BookingService.
type BookingHandler struct {
	bookings *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBooking books seats on a bus for the authenticated user
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	booking, err := h.bookings.CreateBooking(userCtx.UserID.String(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBooking retrieves a booking with its passenger manifest
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookings.GetBooking(c.Param("id"), userCtx.UserID.String(), userCtx.IsOperator())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingByReference retrieves a booking by its booking reference, for
// the confirmation page
// GET /api/v1/bookings/reference/:ref
func (h *BookingHandler) GetBookingByReference(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookings.GetBookingByReference(c.Param("ref"), userCtx.UserID.String(), userCtx.IsOperator())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetAllBookings retrieves every booking (operator only)
// GET /api/v1/bookings/all
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	bookings, err := h.bookings.GetAllBookings()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetMyBookings retrieves all bookings made by the authenticated user
// GET /api/v1/bookings
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookings.GetUserBookings(userCtx.UserID.String())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBooking cancels a booking and releases its seats
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := h.bookings.CancelBooking(c.Param("id"), userCtx.UserID.String(), userCtx.IsOperator())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}
