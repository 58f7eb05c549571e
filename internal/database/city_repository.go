package database

import (
	"fmt"
	"time"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/google/uuid"
)

// CityRepository handles database operations for cities
type CityRepository struct {
	db DB
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(db DB) *CityRepository {
	return &CityRepository{db: db}
}

// GetAll retrieves all cities ordered by name
func (r *CityRepository) GetAll() ([]models.City, error) {
	query := `SELECT id, name, created_at FROM cities ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cities: %w", err)
	}
	defer rows.Close()

	cities := []models.City{}
	for rows.Next() {
		var city models.City
		if err := rows.Scan(&city.ID, &city.Name, &city.CreatedAt); err != nil {
			return nil, err
		}
		cities = append(cities, city)
	}

	return cities, rows.Err()
}

// Create creates a new city
func (r *CityRepository) Create(name string) (*models.City, error) {
	city := &models.City{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	query := `INSERT INTO cities (id, name, created_at) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(query, city.ID, city.Name, city.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create city: %w", err)
	}

	return city, nil
}
