package database

import (
	"database/sql"
	"fmt"

	"github.com/bustrak/reservation-backend/internal/models"
	"github.com/google/uuid"
)

// RouteRepository handles database operations for routes
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create creates a new route
func (r *RouteRepository) Create(route *models.Route) error {
	if route.ID == "" {
		route.ID = uuid.New().String()
	}

	query := `
		INSERT INTO routes (id, source_city, destination_city, distance_km, duration_minutes, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		route.ID, route.SourceCity, route.DestinationCity,
		route.DistanceKm, route.DurationMinutes, route.Price,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT id, source_city, destination_city, distance_km, duration_minutes, price,
		       created_at, updated_at
		FROM routes
		WHERE id = $1
	`

	return r.scanRoute(r.db.QueryRow(query, routeID))
}

// GetAll retrieves all routes
func (r *RouteRepository) GetAll() ([]models.Route, error) {
	query := `
		SELECT id, source_city, destination_city, distance_km, duration_minutes, price,
		       created_at, updated_at
		FROM routes
		ORDER BY source_city, destination_city
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch routes: %w", err)
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		route, err := r.scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, *route)
	}

	return routes, rows.Err()
}

// Update updates route fields that are set in the request
func (r *RouteRepository) Update(routeID string, req *models.UpdateRouteRequest) (*models.Route, error) {
	route, err := r.GetByID(routeID)
	if err != nil {
		return nil, err
	}

	if req.SourceCity != nil {
		route.SourceCity = *req.SourceCity
	}
	if req.DestinationCity != nil {
		route.DestinationCity = *req.DestinationCity
	}
	if req.DistanceKm != nil {
		route.DistanceKm = *req.DistanceKm
	}
	if req.DurationMinutes != nil {
		route.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		route.Price = *req.Price
	}

	query := `
		UPDATE routes
		SET source_city = $2, destination_city = $3, distance_km = $4,
		    duration_minutes = $5, price = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		query,
		route.ID, route.SourceCity, route.DestinationCity,
		route.DistanceKm, route.DurationMinutes, route.Price,
	).Scan(&route.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update route: %w", err)
	}

	return route, nil
}

// Delete deletes a route. A route in use by any bus cannot be deleted.
func (r *RouteRepository) Delete(routeID string) error {
	var busCount int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM buses WHERE route_id = $1`, routeID).Scan(&busCount)
	if err != nil {
		return fmt.Errorf("failed to check route usage: %w", err)
	}
	if busCount > 0 {
		return &models.ValidationError{Reason: fmt.Sprintf("route is assigned to %d bus(es) and cannot be deleted", busCount)}
	}

	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, routeID)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return &models.NotFoundError{Resource: "route", ID: routeID}
	}

	return nil
}

func (r *RouteRepository) scanRoute(row scanner) (*models.Route, error) {
	route := &models.Route{}
	err := row.Scan(
		&route.ID, &route.SourceCity, &route.DestinationCity,
		&route.DistanceKm, &route.DurationMinutes, &route.Price,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Resource: "route", ID: ""}
	}
	if err != nil {
		return nil, err
	}
	return route, nil
}
