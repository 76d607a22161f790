package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de presencia de un tag en una ubicación.
const (
	StatusIn  = "in"  // el tag entró por el gate
	StatusOut = "out" // el tag salió por el gate
)

// PresenceKey identifica el estado de presencia: un registro por combinación
// (epc, ubicación, orden de compra, ítem).
type PresenceKey struct {
	EPC          string
	LocationCode string
	PONumber     string
	ItemNumber   string
}

// String devuelve la forma canónica de la clave (también usada como dedup key).
func (k PresenceKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%s", k.EPC, k.LocationCode, k.PONumber, k.ItemNumber)
}

// PresenceRecord estado in/out por clave. Existe a lo sumo un registro por
// clave; lo crea el primer escaneo aceptado (status = in) y solo lo muta el
// motor de toggle, exactamente una mutación por escaneo aceptado.
type PresenceRecord struct {
	Key              PresenceKey
	Status           string          // StatusIn | StatusOut
	Quantity         decimal.Decimal // cantidad capturada en el primer "in"; el "out" la revierte tal cual
	LastTransitionAt time.Time
	CreatedAt        time.Time
}

// Flip alterna el estado in<->out y actualiza el instante de transición.
func (r *PresenceRecord) Flip(now time.Time) {
	if r.Status == StatusIn {
		r.Status = StatusOut
	} else {
		r.Status = StatusIn
	}
	r.LastTransitionAt = now
}

// TransitionEvent transición aceptada, emitida al Event Sink y al agregador
// de stock. Es el registro histórico; PresenceRecord es solo el estado actual.
type TransitionEvent struct {
	ID         string
	Key        PresenceKey
	LotNumber  string
	Status     string          // estado resultante tras el flip
	Quantity   decimal.Decimal // positiva hacia "in", el agregador la firma según Status
	OccurredAt time.Time
	CreatedBy  string // user/operador que disparó el escaneo ("" para lectores fijos)
}
