package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
)

// StockExcel arma el workbook XLSX del snapshot de stock: una hoja con los
// stats globales arriba y la tabla de netos por (ítem, lote, PO) debajo.
func StockExcel(snapshot dto.StockSnapshotDTO) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	cells := [][]interface{}{
		{"Stock on hand", ""},
		{"Última actualización", snapshot.LastUpdated.Format("2006-01-02 15:04:05")},
		{"Ítems distintos", snapshot.Stats.DistinctItems},
		{"POs distintas", snapshot.Stats.DistinctPOs},
		{"Total on hand", snapshot.Stats.TotalOnHand.String()},
		{},
		{"Ítem", "Lote", "Orden de compra", "Cantidad neta"},
	}
	for i, rowCells := range cells {
		for j, v := range rowCells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("xlsx: celda: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: escribir celda: %w", err)
			}
		}
	}

	base := len(cells) + 1
	for i, r := range snapshot.Summary {
		qty, _ := r.NetQuantity.Float64()
		values := []interface{}{r.ItemNumber, r.LotNumber, r.PONumber, qty}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, base+i)
			if err != nil {
				return nil, fmt.Errorf("xlsx: celda: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: escribir celda: %w", err)
			}
		}
	}
	return f, nil
}

// ParseTagImport lee el workbook subido para el import masivo del catálogo.
// Formato esperado: header en la fila 1 y columnas
// hex_code | po_number | lot_number | item_number | quantity | unit_of_measure.
func ParseTagImport(r io.Reader) ([]dto.CreateTagRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("xlsx: abrir archivo: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("xlsx: leer filas: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("xlsx: se requiere header y al menos una fila de datos")
	}

	out := make([]dto.CreateTagRequest, 0, len(rows)-1)
	for _, cols := range rows[1:] {
		get := func(i int) string {
			if i < len(cols) {
				return cols[i]
			}
			return ""
		}
		qty := decimal.Zero
		if s := get(4); s != "" {
			if qty, err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("xlsx: cantidad inválida %q: %w", s, err)
			}
		}
		out = append(out, dto.CreateTagRequest{
			HexCode:       get(0),
			PONumber:      get(1),
			LotNumber:     get(2),
			ItemNumber:    get(3),
			Quantity:      qty,
			UnitOfMeasure: get(5),
		})
	}
	return out, nil
}
