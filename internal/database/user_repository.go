package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user account
func (r *UserRepository) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &models.ValidationError{Reason: "email is already registered"}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetAll retrieves all users, newest first
func (r *UserRepository) GetAll() ([]models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash,
			&user.Role, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(userID uuid.UUID, role models.UserRole) (*models.User, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := r.db.QueryRow(query, userID, role).Scan(&user.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	user.Role = role
	return user, nil
}

// Delete deletes a user account. A user with bookings on record cannot be
// deleted; bookings keep their history.
func (r *UserRepository) Delete(userID uuid.UUID) error {
	var bookingCount int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&bookingCount)
	if err != nil {
		return fmt.Errorf("failed to check user bookings: %w", err)
	}
	if bookingCount > 0 {
		return &models.ValidationError{Reason: fmt.Sprintf("user has %d booking(s) on record and cannot be deleted", bookingCount)}
	}

	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "user", ID: userID.String()}
	}

	return nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	return r.scanUser(r.db.QueryRow(query, strings.ToLower(strings.TrimSpace(email))), email)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRow(query, userID), userID.String())
}

func (r *UserRepository) scanUser(row scanner, id string) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "user", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}
