package handlers

import (
	"net/http"

	"github.com/bustrak/reservation-backend/internal/database"
	"github.com/bustrak/reservation-backend/internal/middleware"
	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserHandler serves operator-only user management
type UserHandler struct {
	userRepo *database.UserRepository
	logger   *logrus.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo *database.UserRepository, logger *logrus.Logger) *UserHandler {
	return &UserHandler{userRepo: userRepo, logger: logger}
}

// GetUsers retrieves all user accounts
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateUserRole changes a user's role
// PUT /api/v1/users/:id/role
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &models.ValidationError{Reason: "invalid user id"})
		return
	}

	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, &models.ValidationError{Reason: err.Error()})
		return
	}

	user, err := h.userRepo.UpdateRole(userID, models.UserRole(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	userCtx, _ := middleware.GetUserContext(c)
	h.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"role":       user.Role,
		"changed_by": userCtx.UserID,
	}).Info("User role updated")

	c.JSON(http.StatusOK, user)
}

// DeleteUser deletes a user account with no bookings on record
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, &models.ValidationError{Reason: "invalid user id"})
		return
	}

	userCtx, exists := middleware.GetUserContext(c)
	if exists && userCtx.UserID == userID {
		respondError(c, &models.ValidationError{Reason: "you cannot delete your own account"})
		return
	}

	if err := h.userRepo.Delete(userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
