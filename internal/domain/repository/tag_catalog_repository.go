package repository

import (
	"context"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// TagCatalogRepository define el puerto de persistencia del catálogo hex/EPC.
// GetByHex devuelve (nil, nil) si el código no existe: para el motor de
// escaneo un tag no registrado es un resultado negativo normal, no un error.
type TagCatalogRepository interface {
	Create(ctx context.Context, entry *entity.TagCatalogEntry) error
	GetByHex(ctx context.Context, hexCode string) (*entity.TagCatalogEntry, error)
	List(ctx context.Context, limit, offset int) ([]*entity.TagCatalogEntry, error)
}
