// Package sink implementa los consumidores downstream de transiciones
// aceptadas. Todos son best-effort: la fuente de verdad es el estado de
// presencia ya persistido, la notificación tiene su propio retry.
package sink

import (
	"context"

	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/pkg/logger"
)

// Fanout reparte cada transición a todos los sinks registrados. Un sink que
// falla no corta el fan-out; se devuelve el último error para que el caller
// lo loguee.
type Fanout struct {
	sinks []scan.EventSink
}

// NewFanout construye el fan-out.
func NewFanout(sinks ...scan.EventSink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Publish entrega el evento a cada sink en orden.
func (f *Fanout) Publish(ctx context.Context, ev *entity.TransitionEvent) error {
	var last error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			last = err
		}
	}
	return last
}

// LogSink escribe cada transición aceptada al log estructurado. Sirve de
// sink por defecto cuando no hay broker configurado.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink de log.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.Module("sink")}
}

// Publish loguea la transición.
func (s *LogSink) Publish(_ context.Context, ev *entity.TransitionEvent) error {
	s.log.Info().
		Str("transition_id", ev.ID).
		Str("epc", ev.Key.EPC).
		Str("location", ev.Key.LocationCode).
		Str("po", ev.Key.PONumber).
		Str("item", ev.Key.ItemNumber).
		Str("status", ev.Status).
		Str("quantity", ev.Quantity.String()).
		Time("occurred_at", ev.OccurredAt).
		Msg("transición de presencia")
	return nil
}
