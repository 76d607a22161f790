package repository

import (
	"context"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// PresenceRepository define el puerto para el estado de presencia por clave.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE): toda decisión de toggle
// corre dentro de una transacción con la fila bloqueada, de modo que dos
// escaneos concurrentes de la misma clave quedan serializados por la DB.
type PresenceRepository interface {
	Get(ctx context.Context, key entity.PresenceKey) (*entity.PresenceRecord, error)
	// GetForUpdate devuelve (nil, nil) si la clave aún no tiene registro.
	GetForUpdate(ctx context.Context, key entity.PresenceKey) (*entity.PresenceRecord, error)
	Upsert(ctx context.Context, rec *entity.PresenceRecord) error
	ListByEPC(ctx context.Context, epc string) ([]*entity.PresenceRecord, error)
	// Aggregate recorre todos los registros y devuelve los netos por
	// (ítem, lote, PO): las claves "in" aportan su cantidad, las "out"
	// netean 0. Camino de recuperación del agregador de stock.
	Aggregate(ctx context.Context) ([]*entity.AggregateStockEntry, error)
}
