package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// NATSSink publica cada transición aceptada como JSON en un subject NATS,
// para que dashboards y notificadores en tiempo real se suscriban sin
// acoplarse al motor.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// transitionMessage payload publicado en el subject.
type transitionMessage struct {
	ID           string    `json:"id"`
	EPC          string    `json:"epc"`
	LocationCode string    `json:"location_code"`
	PONumber     string    `json:"po_number"`
	ItemNumber   string    `json:"item_number"`
	LotNumber    string    `json:"lot_number,omitempty"`
	Status       string    `json:"status"`
	Quantity     string    `json:"quantity"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewNATSSink conecta al broker y construye el sink.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar NATS: %w", err)
	}
	return &NATSSink{conn: conn, subject: subject}, nil
}

// Publish serializa y publica la transición.
func (s *NATSSink) Publish(_ context.Context, ev *entity.TransitionEvent) error {
	msg := transitionMessage{
		ID:           ev.ID,
		EPC:          ev.Key.EPC,
		LocationCode: ev.Key.LocationCode,
		PONumber:     ev.Key.PONumber,
		ItemNumber:   ev.Key.ItemNumber,
		LotNumber:    ev.LotNumber,
		Status:       ev.Status,
		Quantity:     ev.Quantity.String(),
		OccurredAt:   ev.OccurredAt,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serializar transición: %w", err)
	}
	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("publicar en %s: %w", s.subject, err)
	}
	return nil
}

// Close drena y cierra la conexión.
func (s *NATSSink) Close() {
	_ = s.conn.Drain()
}
