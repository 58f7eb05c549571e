package handlers

import (
	"errors"
	"net/http"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP responses. Repository and
// service errors reach handlers typed; anything unrecognized is a 500.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"message": validationErr.Reason,
		})
		return
	}

	var conflictErr *models.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "seat_conflict",
			"message":     conflictErr.Error(),
			"taken_seats": conflictErr.TakenSeats,
		})
		return
	}

	var notFoundErr *models.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": notFoundErr.Error(),
		})
		return
	}

	var forbiddenErr *models.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": forbiddenErr.Reason,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Something went wrong. Please try again.",
	})
}
