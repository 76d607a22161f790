package repository

import (
	"context"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia de ubicaciones.
// La unicidad device->ubicación la garantiza la capa de datos (constraint
// único sobre device_id); Create devuelve domain.ErrDuplicate al violarla.
type LocationRepository interface {
	Create(ctx context.Context, loc *entity.LocationEntry) error
	GetByDevice(ctx context.Context, deviceID string) (*entity.LocationEntry, error)
	GetByCode(ctx context.Context, locationCode string) (*entity.LocationEntry, error)
	List(ctx context.Context) ([]*entity.LocationEntry, error)
}
