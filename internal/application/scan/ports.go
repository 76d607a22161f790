package scan

import (
	"context"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La fila de presencia se bloquea dentro de fn
// (SELECT FOR UPDATE), así la DB serializa los escaneos de una misma clave.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		presenceRepo repository.PresenceRepository,
		transitionRepo repository.TransitionRepository,
	) error) error
}

// EventSink recibe las transiciones aceptadas (persistencia ya hecha).
// Es best-effort: un sink caído se loguea y nunca bloquea ni revierte el
// toggle; el estado de presencia es la fuente de verdad.
type EventSink interface {
	Publish(ctx context.Context, ev *entity.TransitionEvent) error
}

// StockApplier recibe las transiciones aceptadas para mantener los totales
// incrementales (implementado por stock.Aggregator).
type StockApplier interface {
	Apply(ev *entity.TransitionEvent)
}
