package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScanRequest body para POST /api/scans. Camino normal: TagID + DeviceID
// (el motor resuelve ubicación y catálogo). Camino alterno: TagID +
// LocationCode + PONumber + ItemNumber ya resueltos por el caller, sin
// pasar por el resolver de dispositivos.
type ScanRequest struct {
	TagID        string           `json:"tag_id" validate:"required"`
	DeviceID     string           `json:"device_id,omitempty"`
	LocationCode string           `json:"location_code,omitempty"`
	PONumber     string           `json:"po_number,omitempty"`
	ItemNumber   string           `json:"item_number,omitempty"`
	RSSI         string           `json:"rssi,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	ReadCount    int              `json:"read_count,omitempty" validate:"omitempty,min=1"`
	Timestamp    int64            `json:"timestamp,omitempty"` // epoch ms del reloj del dispositivo
}

// ScanDetails datos de la clave afectada, para que el caller pueda mostrar
// el estado actual aunque el escaneo haya sido ignorado.
type ScanDetails struct {
	EPC              string          `json:"epc"`
	LocationCode     string          `json:"location_code"`
	LocationName     string          `json:"location_name,omitempty"`
	PONumber         string          `json:"po_number"`
	ItemNumber       string          `json:"item_number"`
	LotNumber        string          `json:"lot_number,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	LastTransitionAt time.Time       `json:"last_transition_at"`
}

// ScanResponse resultado de un escaneo. Outcome es un enum etiquetado en el
// camino de éxito: "toggled" | "ignored_cooldown" | "duplicate_suppressed";
// los errores de resolución/persistencia viajan por el canal de error. En el
// detalle por registro de un lote aparecen además "resolution_error" y
// "persistence_error", porque ahí el fallo individual no aborta el lote.
type ScanResponse struct {
	Accepted bool         `json:"accepted"`
	Outcome  string       `json:"outcome"`
	Status   string       `json:"status,omitempty"` // "in" | "out"
	Message  string       `json:"message"`
	Details  *ScanDetails `json:"details,omitempty"`
}

// TransitionRow una transición aceptada del histórico de una clave.
type TransitionRow struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	LotNumber  string          `json:"lot_number,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedBy  string          `json:"created_by,omitempty"`
}

// TransitionHistoryResponse histórico de GET /api/transitions, de la más
// reciente a la más antigua.
type TransitionHistoryResponse struct {
	EPC          string          `json:"epc"`
	LocationCode string          `json:"location_code"`
	PONumber     string          `json:"po_number"`
	ItemNumber   string          `json:"item_number"`
	Transitions  []TransitionRow `json:"transitions"`
}

// BulkScanRequest body para POST /api/scans/bulk: lote ordenado de lecturas.
type BulkScanRequest struct {
	SessionID string        `json:"session_id,omitempty"`
	Scans     []ScanRequest `json:"scans" validate:"required,min=1"`
}

// BulkScanResponse resumen del lote más el detalle por registro.
type BulkScanResponse struct {
	Created       int            `json:"created"`
	Duplicates    int            `json:"duplicates"`
	Errors        int            `json:"errors"`
	DuplicateTags []string       `json:"duplicate_tags"`
	Results       []ScanResponse `json:"results"`
}
