package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

// Ensure TxRunner implements scan.TxRunner.
var _ scan.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El motor
// de toggle lo usa para que GetForUpdate + Upsert + Create del histórico
// sean atómicos y la fila de presencia quede bloqueada durante la decisión.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	presenceRepo repository.PresenceRepository,
	transitionRepo repository.TransitionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	presenceRepo := NewPresenceRepository(tx)
	transitionRepo := NewTransitionRepository(tx)

	if err := fn(presenceRepo, transitionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
