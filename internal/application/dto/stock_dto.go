package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummaryRow fila del resumen de stock por (ítem, lote, PO).
type StockSummaryRow struct {
	ItemNumber  string          `json:"item_number"`
	LotNumber   string          `json:"lot_number"`
	PONumber    string          `json:"po_number"`
	NetQuantity decimal.Decimal `json:"net_quantity"`
}

// StockStatsDTO totales globales del dashboard.
type StockStatsDTO struct {
	DistinctItems int             `json:"distinct_items"`
	DistinctPOs   int             `json:"distinct_pos"`
	TotalOnHand   decimal.Decimal `json:"total_on_hand"`
}

// StockSnapshotDTO respuesta de GET /api/stock: vista consistente de los
// totales en el instante de la consulta.
type StockSnapshotDTO struct {
	Stats       StockStatsDTO     `json:"stats"`
	Summary     []StockSummaryRow `json:"summary"`
	LastUpdated time.Time         `json:"last_updated"`
}

// PresenceRowDTO estado actual de una clave para GET /api/presence/:epc.
type PresenceRowDTO struct {
	EPC              string          `json:"epc"`
	LocationCode     string          `json:"location_code"`
	PONumber         string          `json:"po_number"`
	ItemNumber       string          `json:"item_number"`
	Status           string          `json:"status"`
	Quantity         decimal.Decimal `json:"quantity"`
	LastTransitionAt time.Time       `json:"last_transition_at"`
}
