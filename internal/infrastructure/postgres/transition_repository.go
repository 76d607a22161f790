package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

var _ repository.TransitionRepository = (*TransitionRepo)(nil)

// TransitionRepo histórico de transiciones aceptadas sobre PostgreSQL
// (usable con pool o tx).
type TransitionRepo struct {
	q Querier
}

// NewTransitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransitionRepository(q Querier) *TransitionRepo {
	return &TransitionRepo{q: q}
}

// Create persiste una transición aceptada (misma tx que el upsert de presencia).
func (r *TransitionRepo) Create(ctx context.Context, ev *entity.TransitionEvent) error {
	query := `
		INSERT INTO transition_events (id, epc, location_code, po_number, item_number, lot_number, status, quantity, occurred_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.Key.EPC, ev.Key.LocationCode, ev.Key.PONumber, ev.Key.ItemNumber,
		ev.LotNumber, ev.Status, ev.Quantity, ev.OccurredAt, ev.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert transition: %w", err)
	}
	return nil
}

// ListByKey devuelve las últimas transiciones de una clave, más reciente primero.
func (r *TransitionRepo) ListByKey(ctx context.Context, key entity.PresenceKey, limit int) ([]*entity.TransitionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, epc, location_code, po_number, item_number, lot_number, status, quantity, occurred_at, created_by
		FROM transition_events
		WHERE epc = $1 AND location_code = $2 AND po_number = $3 AND item_number = $4
		ORDER BY occurred_at DESC
		LIMIT $5`
	rows, err := r.q.Query(ctx, query, key.EPC, key.LocationCode, key.PONumber, key.ItemNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var out []*entity.TransitionEvent
	for rows.Next() {
		var ev entity.TransitionEvent
		if err := rows.Scan(
			&ev.ID, &ev.Key.EPC, &ev.Key.LocationCode, &ev.Key.PONumber, &ev.Key.ItemNumber,
			&ev.LotNumber, &ev.Status, &ev.Quantity, &ev.OccurredAt, &ev.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
