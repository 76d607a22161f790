package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregateStockEntry total neto por bucket (ítem, lote, orden de compra):
// suma de cantidades de las claves actualmente "in"; una clave "out" ya
// entró y salió, neto 0. Vista derivada, siempre recomputable desde el
// conjunto de PresenceRecords.
type AggregateStockEntry struct {
	ItemNumber  string
	LotNumber   string
	PONumber    string
	NetQuantity decimal.Decimal
	LastUpdated time.Time
}

// StockStats totales globales para el dashboard.
type StockStats struct {
	DistinctItems int
	DistinctPOs   int
	TotalOnHand   decimal.Decimal
}
