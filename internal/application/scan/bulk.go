package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/domain"
)

// ProcessBatch procesa un lote ordenado de lecturas (ej. upload diferido de
// un handheld). Cada registro pasa por el pipeline completo de forma
// independiente; un fallo por registro no aborta el lote. Un tag que aparece
// por segunda vez dentro del mismo lote es un duplicado contra su primera
// aparición, evaluado en orden.
func (uc *UseCase) ProcessBatch(ctx context.Context, userID string, in dto.BulkScanRequest) *dto.BulkScanResponse {
	out := &dto.BulkScanResponse{
		DuplicateTags: []string{},
		Results:       make([]dto.ScanResponse, 0, len(in.Scans)),
	}
	seen := make(map[string]bool, len(in.Scans))

	for _, req := range in.Scans {
		if seen[req.TagID] {
			out.Duplicates++
			out.DuplicateTags = append(out.DuplicateTags, req.TagID)
			out.Results = append(out.Results, dto.ScanResponse{
				Accepted: false,
				Outcome:  OutcomeDuplicateSuppressed,
				Message:  fmt.Sprintf("tag %q duplicado dentro del lote", req.TagID),
			})
			continue
		}
		seen[req.TagID] = true

		res, err := uc.ProcessScan(ctx, userID, req)
		if err != nil {
			out.Errors++
			out.Results = append(out.Results, errorScanResponse(err))
			continue
		}
		switch res.Outcome {
		case OutcomeDuplicateSuppressed:
			out.Duplicates++
			out.DuplicateTags = append(out.DuplicateTags, req.TagID)
		default:
			// toggled e ignored_cooldown cuentan como procesados: el escaneo
			// llegó al motor y fue reconocido.
			out.Created++
		}
		out.Results = append(out.Results, ToResponse(res))
	}

	if in.SessionID != "" {
		uc.log.Info().
			Str("session_id", in.SessionID).
			Int("created", out.Created).
			Int("duplicates", out.Duplicates).
			Int("errors", out.Errors).
			Msg("lote de escaneos procesado")
	}
	return out
}

// ToResponse arma la respuesta HTTP de un Result.
func ToResponse(res *Result) dto.ScanResponse {
	resp := dto.ScanResponse{
		Outcome: res.Outcome,
		Status:  res.Status(),
	}
	switch res.Outcome {
	case OutcomeToggled:
		resp.Accepted = true
		if res.Created {
			resp.Message = "primer escaneo registrado, tag marcado como in"
		} else {
			resp.Message = fmt.Sprintf("estado alternado a %s", res.Status())
		}
	case OutcomeIgnoredCooldown:
		resp.Accepted = true // reconocido, sin cambio de estado
		resp.Message = "escaneo registrado pero ignorado: cooldown de toggle vigente"
	case OutcomeDuplicateSuppressed:
		resp.Message = "lectura duplicada dentro de la ventana de supresión"
	}
	if res.Record != nil {
		resp.Details = &dto.ScanDetails{
			EPC:              res.Record.Key.EPC,
			LocationCode:     res.Record.Key.LocationCode,
			LocationName:     res.LocationName,
			PONumber:         res.Record.Key.PONumber,
			ItemNumber:       res.Record.Key.ItemNumber,
			LotNumber:        res.LotNumber,
			Quantity:         res.Record.Quantity,
			LastTransitionAt: res.Record.LastTransitionAt,
		}
	}
	return resp
}

// errorScanResponse distingue resolución de persistencia en el detalle del
// lote: una falla de persistencia significa que el escaneo NO quedó
// registrado y el operador debe reintentar, no corregir configuración.
func errorScanResponse(err error) dto.ScanResponse {
	if errors.Is(err, domain.ErrLocationNotFound) ||
		errors.Is(err, domain.ErrTagNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) {
		return dto.ScanResponse{Outcome: OutcomeResolutionError, Message: err.Error()}
	}
	return dto.ScanResponse{
		Outcome: OutcomePersistenceError,
		Message: "error de persistencia, el escaneo no fue registrado",
	}
}
