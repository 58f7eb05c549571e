package handlers

import (
	"net/http"

	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/gin-gonic/gin"
)

// CityHandler serves the city reference data
type CityHandler struct {
	cityRepo *database.CityRepository
}

// NewCityHandler creates a new CityHandler
func NewCityHandler(cityRepo *database.CityRepository) *CityHandler {
	return &CityHandler{cityRepo: cityRepo}
}

// GetCities retrieves all cities
// GET /api/v1/cities
func (h *CityHandler) GetCities(c *gin.Context) {
	cities, err := h.cityRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// CreateCity adds a city to the reference data (operator only)
// POST /api/v1/cities
func (h *CityHandler) CreateCity(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	city, err := h.cityRepo.Create(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, city)
}
