package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScanEvent lectura cruda de un lector RFID (fijo o handheld). Efímera: se
// consume y descarta tras producir cero o una transición, nunca se persiste
// tal cual.
type ScanEvent struct {
	ID           int64  // snowflake asignado en la ingesta
	TagID        string // EPC o hex generado
	DeviceID     string
	RSSI         string // potencia de señal reportada por el lector, opcional
	ReadCount    int    // lecturas agrupadas por el lector en este reporte (>= 1)
	Quantity     *decimal.Decimal
	DeviceTime   time.Time // reloj del dispositivo, informativo
	IngestedAt   time.Time // reloj del servidor; manda para ventanas de tiempo
	LocationCode string    // camino alterno: ubicación ya resuelta por el caller
	PONumber     string
	ItemNumber   string
}
