package repository

import (
	"context"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// TransitionRepository define el puerto del histórico de transiciones
// aceptadas. Se escribe en la misma transacción que el PresenceRecord.
type TransitionRepository interface {
	Create(ctx context.Context, ev *entity.TransitionEvent) error
	ListByKey(ctx context.Context, key entity.PresenceKey, limit int) ([]*entity.TransitionEvent, error)
}
