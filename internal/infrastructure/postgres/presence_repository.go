package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

var _ repository.PresenceRepository = (*PresenceRepo)(nil)

// PresenceRepo implementación de PresenceRepository sobre PostgreSQL
// (usable con pool o tx). La tabla presence_records tiene PK compuesta
// (epc, location_code, po_number, item_number): a lo sumo una fila por clave.
type PresenceRepo struct {
	q Querier
}

// NewPresenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPresenceRepository(q Querier) *PresenceRepo {
	return &PresenceRepo{q: q}
}

const presenceColumns = `epc, location_code, po_number, item_number, status, quantity, last_transition_at, created_at`

// Get obtiene el registro de presencia de una clave. (nil, nil) si no existe.
func (r *PresenceRepo) Get(ctx context.Context, key entity.PresenceKey) (*entity.PresenceRecord, error) {
	query := `
		SELECT ` + presenceColumns + `
		FROM presence_records
		WHERE epc = $1 AND location_code = $2 AND po_number = $3 AND item_number = $4`
	return r.scanOne(ctx, query, key)
}

// GetForUpdate obtiene el registro y bloquea la fila (SELECT FOR UPDATE).
// El bloqueo serializa los escaneos concurrentes de una misma clave: el
// segundo queda esperando y re-evalúa contra el estado ya commiteado.
func (r *PresenceRepo) GetForUpdate(ctx context.Context, key entity.PresenceKey) (*entity.PresenceRecord, error) {
	query := `
		SELECT ` + presenceColumns + `
		FROM presence_records
		WHERE epc = $1 AND location_code = $2 AND po_number = $3 AND item_number = $4
		FOR UPDATE`
	return r.scanOne(ctx, query, key)
}

func (r *PresenceRepo) scanOne(ctx context.Context, query string, key entity.PresenceKey) (*entity.PresenceRecord, error) {
	var rec entity.PresenceRecord
	err := r.q.QueryRow(ctx, query, key.EPC, key.LocationCode, key.PONumber, key.ItemNumber).Scan(
		&rec.Key.EPC, &rec.Key.LocationCode, &rec.Key.PONumber, &rec.Key.ItemNumber,
		&rec.Status, &rec.Quantity, &rec.LastTransitionAt, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presence: %w", err)
	}
	return &rec, nil
}

// Upsert inserta o actualiza el registro de presencia de la clave.
func (r *PresenceRepo) Upsert(ctx context.Context, rec *entity.PresenceRecord) error {
	query := `
		INSERT INTO presence_records (epc, location_code, po_number, item_number, status, quantity, last_transition_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (epc, location_code, po_number, item_number)
		DO UPDATE SET status = EXCLUDED.status, quantity = EXCLUDED.quantity, last_transition_at = EXCLUDED.last_transition_at`
	_, err := r.q.Exec(ctx, query,
		rec.Key.EPC, rec.Key.LocationCode, rec.Key.PONumber, rec.Key.ItemNumber,
		rec.Status, rec.Quantity, rec.LastTransitionAt, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

// ListByEPC devuelve todos los registros de presencia de un tag.
func (r *PresenceRepo) ListByEPC(ctx context.Context, epc string) ([]*entity.PresenceRecord, error) {
	query := `
		SELECT ` + presenceColumns + `
		FROM presence_records
		WHERE epc = $1
		ORDER BY last_transition_at DESC`
	rows, err := r.q.Query(ctx, query, epc)
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}
	defer rows.Close()

	var out []*entity.PresenceRecord
	for rows.Next() {
		var rec entity.PresenceRecord
		if err := rows.Scan(
			&rec.Key.EPC, &rec.Key.LocationCode, &rec.Key.PONumber, &rec.Key.ItemNumber,
			&rec.Status, &rec.Quantity, &rec.LastTransitionAt, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan presence: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// Aggregate recorre todos los registros y devuelve el neto por (ítem, lote,
// PO): suma de cantidades de las claves actualmente "in". Una clave "out" ya
// entró y salió — su neto es 0, nunca negativo; es la misma convención que el
// agregador incremental (in suma, out revierte lo sumado).
// El lote sale del catálogo; filas sin entrada de catálogo agrupan con lote vacío.
func (r *PresenceRepo) Aggregate(ctx context.Context) ([]*entity.AggregateStockEntry, error) {
	query := `
		SELECT p.item_number,
		       COALESCE(t.lot_number, ''),
		       p.po_number,
		       SUM(CASE WHEN p.status = 'in' THEN p.quantity ELSE 0 END),
		       MAX(p.last_transition_at)
		FROM presence_records p
		LEFT JOIN tag_catalog t ON t.hex_code = p.epc
		GROUP BY p.item_number, COALESCE(t.lot_number, ''), p.po_number
		ORDER BY p.item_number`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregate presence: %w", err)
	}
	defer rows.Close()

	var out []*entity.AggregateStockEntry
	for rows.Next() {
		var e entity.AggregateStockEntry
		if err := rows.Scan(&e.ItemNumber, &e.LotNumber, &e.PONumber, &e.NetQuantity, &e.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
