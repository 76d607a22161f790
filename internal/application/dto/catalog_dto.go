package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTagRequest body para POST /api/tags.
type CreateTagRequest struct {
	HexCode       string          `json:"hex_code" validate:"required"`
	PONumber      string          `json:"po_number" validate:"required"`
	LotNumber     string          `json:"lot_number,omitempty"`
	ItemNumber    string          `json:"item_number" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
}

// TagResponse entrada del catálogo en respuestas.
type TagResponse struct {
	HexCode       string          `json:"hex_code"`
	PONumber      string          `json:"po_number"`
	LotNumber     string          `json:"lot_number,omitempty"`
	ItemNumber    string          `json:"item_number"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ImportTagsResponse resumen del import masivo desde Excel.
type ImportTagsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	LocationCode string `json:"location_code" validate:"required"`
	DeviceID     string `json:"device_id" validate:"required"`
	Name         string `json:"name,omitempty"`
}

// LocationResponse ubicación en respuestas.
type LocationResponse struct {
	LocationCode string    `json:"location_code"`
	DeviceID     string    `json:"device_id"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
