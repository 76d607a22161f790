package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/application/stock"
	"github.com/jhoicas/rfid-presence-api/internal/infrastructure/report"
)

// StockHandler expone el snapshot del agregador y sus exports.
type StockHandler struct {
	aggregator *stock.Aggregator
	pdf        *report.StockPDFGenerator
	appName    string
}

// NewStockHandler construye el handler.
func NewStockHandler(aggregator *stock.Aggregator, pdf *report.StockPDFGenerator, appName string) *StockHandler {
	return &StockHandler{aggregator: aggregator, pdf: pdf, appName: appName}
}

// Snapshot godoc
// @Summary      Stock on hand actual
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSnapshotDTO
// @Router       /api/stock [get]
func (h *StockHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.aggregator.Snapshot())
}

// Recompute godoc
// @Summary      Reconstruir totales desde los registros de presencia
// @Description  Camino de recuperación: full scan de presence_records y swap
//               atómico de los totales incrementales.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockSnapshotDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/recompute [post]
func (h *StockHandler) Recompute(c *fiber.Ctx) error {
	snapshot, err := h.aggregator.Recompute(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(snapshot)
}

// ExportExcel descarga el snapshot como workbook XLSX.
func (h *StockHandler) ExportExcel(c *fiber.Ctx) error {
	f, err := report.StockExcel(h.aggregator.Snapshot())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.xlsx"`)
	return c.Send(buf.Bytes())
}

// ExportPDF descarga el snapshot como reporte PDF imprimible.
func (h *StockHandler) ExportPDF(c *fiber.Ctx) error {
	data, err := h.pdf.Generate(h.aggregator.Snapshot(), h.appName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.pdf"`)
	return c.Send(data)
}
