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

var _ repository.TagCatalogRepository = (*TagCatalogRepo)(nil)

// TagCatalogRepo implementación de TagCatalogRepository sobre PostgreSQL.
type TagCatalogRepo struct {
	q Querier
}

// NewTagCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTagCatalogRepository(q Querier) *TagCatalogRepo {
	return &TagCatalogRepo{q: q}
}

// Create persiste una entrada del catálogo. ErrDuplicate si el hex ya existe.
func (r *TagCatalogRepo) Create(ctx context.Context, entry *entity.TagCatalogEntry) error {
	query := `
		INSERT INTO tag_catalog (hex_code, po_number, lot_number, item_number, quantity, unit_of_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		entry.HexCode, entry.PONumber, entry.LotNumber, entry.ItemNumber,
		entry.Quantity, entry.UnitOfMeasure, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// GetByHex obtiene una entrada por código hex (match exacto). (nil, nil) si no existe.
func (r *TagCatalogRepo) GetByHex(ctx context.Context, hexCode string) (*entity.TagCatalogEntry, error) {
	query := `
		SELECT hex_code, po_number, lot_number, item_number, quantity, unit_of_measure, created_at, updated_at
		FROM tag_catalog WHERE hex_code = $1`
	var e entity.TagCatalogEntry
	err := r.q.QueryRow(ctx, query, hexCode).Scan(
		&e.HexCode, &e.PONumber, &e.LotNumber, &e.ItemNumber,
		&e.Quantity, &e.UnitOfMeasure, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &e, nil
}

// List devuelve una página del catálogo ordenada por fecha de alta.
func (r *TagCatalogRepo) List(ctx context.Context, limit, offset int) ([]*entity.TagCatalogEntry, error) {
	query := `
		SELECT hex_code, po_number, lot_number, item_number, quantity, unit_of_measure, created_at, updated_at
		FROM tag_catalog
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []*entity.TagCatalogEntry
	for rows.Next() {
		var e entity.TagCatalogEntry
		if err := rows.Scan(
			&e.HexCode, &e.PONumber, &e.LotNumber, &e.ItemNumber,
			&e.Quantity, &e.UnitOfMeasure, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
