package handlers

import (
	"net/http"

	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RouteHandler serves route catalog management (operator only except reads)
type RouteHandler struct {
	routeRepo *database.RouteRepository
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routeRepo *database.RouteRepository) *RouteHandler {
	return &RouteHandler{routeRepo: routeRepo}
}

// GetRoutes retrieves all routes
// GET /api/v1/routes
func (h *RouteHandler) GetRoutes(c *gin.Context) {
	routes, err := h.routeRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GetRouteByID retrieves a specific route
// GET /api/v1/routes/:id
func (h *RouteHandler) GetRouteByID(c *gin.Context) {
	route, err := h.routeRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// CreateRoute creates a new route
// POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, &models.ValidationError{Reason: err.Error()})
		return
	}

	route := &models.Route{
		SourceCity:      req.SourceCity,
		DestinationCity: req.DestinationCity,
		DistanceKm:      req.DistanceKm,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	}

	if err := h.routeRepo.Create(route); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// UpdateRoute updates route fields
// PUT /api/v1/routes/:id
func (h *RouteHandler) UpdateRoute(c *gin.Context) {
	var req models.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, &models.ValidationError{Reason: err.Error()})
		return
	}

	route, err := h.routeRepo.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

// DeleteRoute deletes a route with no buses assigned to it
// DELETE /api/v1/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.routeRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted"})
}
