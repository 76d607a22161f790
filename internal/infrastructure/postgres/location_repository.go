package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rfid-presence-api/internal/domain"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
// device_id lleva constraint único: un lector custodia a lo sumo una ubicación.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación. ErrDuplicate si el código o el device ya existen.
func (r *LocationRepo) Create(ctx context.Context, loc *entity.LocationEntry) error {
	query := `
		INSERT INTO locations (location_code, device_id, name, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, loc.LocationCode, loc.DeviceID, loc.Name, loc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByDevice obtiene la ubicación custodiada por un lector. (nil, nil) si no hay.
func (r *LocationRepo) GetByDevice(ctx context.Context, deviceID string) (*entity.LocationEntry, error) {
	query := `
		SELECT location_code, device_id, name, created_at
		FROM locations WHERE device_id = $1`
	return r.scanOne(ctx, query, deviceID)
}

// GetByCode obtiene una ubicación por su código. (nil, nil) si no existe.
func (r *LocationRepo) GetByCode(ctx context.Context, locationCode string) (*entity.LocationEntry, error) {
	query := `
		SELECT location_code, device_id, name, created_at
		FROM locations WHERE location_code = $1`
	return r.scanOne(ctx, query, locationCode)
}

func (r *LocationRepo) scanOne(ctx context.Context, query, arg string) (*entity.LocationEntry, error) {
	var l entity.LocationEntry
	err := r.q.QueryRow(ctx, query, arg).Scan(&l.LocationCode, &l.DeviceID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// List devuelve todas las ubicaciones ordenadas por código.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.LocationEntry, error) {
	query := `
		SELECT location_code, device_id, name, created_at
		FROM locations ORDER BY location_code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.LocationEntry
	for rows.Next() {
		var l entity.LocationEntry
		if err := rows.Scan(&l.LocationCode, &l.DeviceID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}
