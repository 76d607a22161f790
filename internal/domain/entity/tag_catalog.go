package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TagCatalogEntry correlaciona un código hex/EPC grabado en un tag RFID con
// la línea de orden de compra que representa. Inmutable salvo corrección
// administrativa; el motor de escaneo solo la lee.
type TagCatalogEntry struct {
	HexCode       string // clave única, match exacto case-sensitive
	PONumber      string
	LotNumber     string
	ItemNumber    string
	Quantity      decimal.Decimal // cantidad ordenada asociada al tag
	UnitOfMeasure string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
