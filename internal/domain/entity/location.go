package entity

import "time"

// LocationEntry representa una ubicación de bodega custodiada por un lector
// RFID fijo. Un device puede guardar a lo sumo una ubicación (DeviceID único).
type LocationEntry struct {
	LocationCode string // clave única
	DeviceID     string // clave única: a lo sumo una ubicación por lector
	Name         string
	CreatedAt    time.Time
}
