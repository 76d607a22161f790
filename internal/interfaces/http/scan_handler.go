package http

import (
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/domain"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// ScanHandler maneja la ingesta de lecturas RFID (protegido).
type ScanHandler struct {
	uc       *scan.UseCase
	validate *validator.Validate
}

// NewScanHandler construye el handler.
func NewScanHandler(uc *scan.UseCase) *ScanHandler {
	return &ScanHandler{uc: uc, validate: validator.New()}
}

// Submit godoc
// @Summary      Procesar un escaneo RFID
// @Description  Resuelve el tag y el device, deduplica y decide el toggle de
//               presencia. Ignorado y suprimido son outcomes normales (200),
//               no errores.
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanRequest  true  "tag_id + device_id, o tag_id + location_code + po_number + item_number"
// @Success      200   {object}  dto.ScanResponse
// @Success      201   {object}  dto.ScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/scans [post]
func (h *ScanHandler) Submit(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	res, err := h.uc.ProcessScan(c.Context(), GetUserID(c), in)
	if err != nil {
		return scanError(c, err)
	}

	status := fiber.StatusOK
	if res.Outcome == scan.OutcomeToggled && res.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(scan.ToResponse(res))
}

// SubmitBulk godoc
// @Summary      Procesar un lote ordenado de escaneos
// @Tags         scans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkScanRequest  true  "session_id opcional + scans en orden"
// @Success      200   {object}  dto.BulkScanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/scans/bulk [post]
func (h *ScanHandler) SubmitBulk(c *fiber.Ctx) error {
	var in dto.BulkScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Scans) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "scans no puede estar vacío"})
	}
	return c.JSON(h.uc.ProcessBatch(c.Context(), GetUserID(c), in))
}

// Presence godoc
// @Summary      Estado de presencia actual de un EPC
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Param        epc  path  string  true  "código hex/EPC"
// @Success      200  {array}  dto.PresenceRowDTO
// @Router       /api/presence/{epc} [get]
func (h *ScanHandler) Presence(c *fiber.Ctx) error {
	records, err := h.uc.CurrentPresence(c.Context(), c.Params("epc"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "epc requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PresenceRowDTO, 0, len(records))
	for _, r := range records {
		out = append(out, dto.PresenceRowDTO{
			EPC:              r.Key.EPC,
			LocationCode:     r.Key.LocationCode,
			PONumber:         r.Key.PONumber,
			ItemNumber:       r.Key.ItemNumber,
			Status:           r.Status,
			Quantity:         r.Quantity,
			LastTransitionAt: r.LastTransitionAt,
		})
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Histórico de transiciones de una clave de presencia
// @Description  Transiciones aceptadas de la clave (epc, location_code,
//               po_number, item_number), de la más reciente a la más antigua.
// @Tags         scans
// @Security     Bearer
// @Produce      json
// @Param        epc            query  string  true   "código hex/EPC"
// @Param        location_code  query  string  true   "código de ubicación"
// @Param        po_number      query  string  true   "orden de compra"
// @Param        item_number    query  string  true   "número de ítem"
// @Param        limit          query  int     false  "máximo de filas (default 100)"
// @Success      200  {object}  dto.TransitionHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transitions [get]
func (h *ScanHandler) History(c *fiber.Ctx) error {
	key := entity.PresenceKey{
		EPC:          c.Query("epc"),
		LocationCode: c.Query("location_code"),
		PONumber:     c.Query("po_number"),
		ItemNumber:   c.Query("item_number"),
	}
	events, err := h.uc.TransitionHistory(c.Context(), key, c.QueryInt("limit"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "epc, location_code, po_number e item_number son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.TransitionHistoryResponse{
		EPC:          key.EPC,
		LocationCode: key.LocationCode,
		PONumber:     key.PONumber,
		ItemNumber:   key.ItemNumber,
		Transitions:  make([]dto.TransitionRow, 0, len(events)),
	}
	for _, ev := range events {
		out.Transitions = append(out.Transitions, dto.TransitionRow{
			ID:         ev.ID,
			Status:     ev.Status,
			LotNumber:  ev.LotNumber,
			Quantity:   ev.Quantity,
			OccurredAt: ev.OccurredAt,
			CreatedBy:  ev.CreatedBy,
		})
	}
	return c.JSON(out)
}

// scanError mapea errores del motor a HTTP: 404 para resolución (device o
// tag desconocidos, con diagnóstico), 400 para entrada inválida, 500 para
// persistencia — el caller debe saber que el escaneo NO quedó registrado.
func scanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "LOCATION_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrTagNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "TAG_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "el escaneo no fue registrado, reintentar: " + err.Error()})
	}
}
