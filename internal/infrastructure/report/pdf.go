// Package report genera los exports del resumen de stock para los
// consumidores de dashboard: PDF imprimible y XLSX para planillas.
package report

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// StockPDFGenerator genera el reporte PDF del stock-on-hand usando Maroto v2.
type StockPDFGenerator struct{}

// NewStockPDFGenerator construye el generador.
func NewStockPDFGenerator() *StockPDFGenerator { return &StockPDFGenerator{} }

// Generate genera el PDF del snapshot y devuelve sus bytes.
func (g *StockPDFGenerator) Generate(snapshot dto.StockSnapshotDTO, appName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock on hand", true).
		WithAuthor(appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(snapshot, appName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statsRow(snapshot.Stats))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range snapshot.Summary {
		m.AddRows(summaryRow(r))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la app (izq) y fecha del snapshot (der).
func headerRow(snapshot dto.StockSnapshotDTO, appName string) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("Stock on hand", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(appName, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(snapshot.LastUpdated.Format("02/01/2006 15:04:05"), props.Text{
				Size: 9, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New(fmt.Sprintf("generado %s", time.Now().Format("02/01/2006 15:04")), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func statsRow(stats dto.StockStatsDTO) core.Row {
	return row.New(8).Add(
		col.New(4).Add(text.New(fmt.Sprintf("Ítems distintos: %d", stats.DistinctItems), props.Text{Size: 9})),
		col.New(4).Add(text.New(fmt.Sprintf("POs distintas: %d", stats.DistinctPOs), props.Text{Size: 9})),
		col.New(4).Add(text.New("Total on hand: "+stats.TotalOnHand.String(), props.Text{Size: 9, Style: fontstyle.Bold})),
	)
}

func tableHeaderRow() core.Row {
	bold := props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary}
	return row.New(7).Add(
		col.New(4).Add(text.New("Ítem", bold)),
		col.New(3).Add(text.New("Lote", bold)),
		col.New(3).Add(text.New("Orden de compra", bold)),
		col.New(2).Add(text.New("Neto", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Align: align.Right})),
	)
}

func summaryRow(r dto.StockSummaryRow) core.Row {
	return row.New(6).Add(
		col.New(4).Add(text.New(r.ItemNumber, props.Text{Size: 8})),
		col.New(3).Add(text.New(r.LotNumber, props.Text{Size: 8})),
		col.New(3).Add(text.New(r.PONumber, props.Text{Size: 8})),
		col.New(2).Add(text.New(r.NetQuantity.String(), props.Text{Size: 8, Align: align.Right})),
	)
}
