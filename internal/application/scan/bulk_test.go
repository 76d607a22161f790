package scan

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Lotes: upload diferido de un handheld. Cada registro pasa por el pipeline
// completo y un fallo individual nunca aborta el lote.
// ──────────────────────────────────────────────────────────────────────────────

func seedTags(t *testing.T, eng *testEngine, hexes ...string) {
	t.Helper()
	for i, hex := range hexes {
		require.NoError(t, eng.tags.Create(context.Background(), &entity.TagCatalogEntry{
			HexCode:    hex,
			PONumber:   "PO-9000",
			ItemNumber: "ITEM-1",
			LotNumber:  "L-1",
			Quantity:   decimal.NewFromInt(int64(i + 1)),
		}))
	}
}

func TestProcessBatch_DuplicadoDentroDelLote(t *testing.T) {
	eng := newTestEngine(t, 3*time.Second)
	seedTags(t, eng, "T1", "T2", "T3")

	// T1 aparece dos veces: la segunda aparición es duplicado contra la
	// primera, evaluada en orden.
	out := eng.uc.ProcessBatch(context.Background(), "user-1", dto.BulkScanRequest{
		SessionID: "sesion-42",
		Scans: []dto.ScanRequest{
			{TagID: "T1", DeviceID: testDevice},
			{TagID: "T2", DeviceID: testDevice},
			{TagID: "T3", DeviceID: testDevice},
			{TagID: "T1", DeviceID: testDevice},
		},
	})

	assert.Equal(t, 3, out.Created)
	assert.Equal(t, 1, out.Duplicates)
	assert.Equal(t, 0, out.Errors)
	assert.Equal(t, []string{"T1"}, out.DuplicateTags)
	require.Len(t, out.Results, 4, "cada registro del lote tiene su resultado")
	assert.Equal(t, OutcomeDuplicateSuppressed, out.Results[3].Outcome)
	assert.False(t, out.Results[3].Accepted)

	// Los tres tags distintos quedaron en "in".
	assert.Equal(t, 3, eng.presence.count())
	assert.Equal(t, 3, eng.transitions.count())
}

func TestProcessBatch_ErrorPorRegistroNoAbortaElLote(t *testing.T) {
	eng := newTestEngine(t, 3*time.Second)
	seedTags(t, eng, "T1", "T2")

	out := eng.uc.ProcessBatch(context.Background(), "user-1", dto.BulkScanRequest{
		Scans: []dto.ScanRequest{
			{TagID: "T1", DeviceID: testDevice},
			{TagID: "T-FANTASMA", DeviceID: testDevice}, // sin catálogo → error de resolución
			{TagID: "T2", DeviceID: testDevice},
		},
	})

	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 0, out.Duplicates)
	assert.Equal(t, 1, out.Errors)
	require.Len(t, out.Results, 3)
	assert.Equal(t, OutcomeResolutionError, out.Results[1].Outcome)
	assert.Contains(t, out.Results[1].Message, "T-FANTASMA",
		"los errores de resolución conservan su diagnóstico")
}

func TestProcessBatch_CooldownCuentaComoProcesado(t *testing.T) {
	eng := newTestEngine(t, 0) // filtro desactivado: el re-escaneo cae directo al cooldown
	seedTags(t, eng, "T1")

	out := eng.uc.ProcessBatch(context.Background(), "user-1", dto.BulkScanRequest{
		Scans: []dto.ScanRequest{{TagID: "T1", DeviceID: testDevice}},
	})
	require.Equal(t, 1, out.Created)

	// Segundo lote de inmediato: el tag ya no es duplicado in-batch, pero el
	// cooldown sigue vigente. El escaneo llegó al motor y fue reconocido.
	out = eng.uc.ProcessBatch(context.Background(), "user-1", dto.BulkScanRequest{
		Scans: []dto.ScanRequest{{TagID: "T1", DeviceID: testDevice}},
	})
	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 0, out.Duplicates)
	assert.Equal(t, OutcomeIgnoredCooldown, out.Results[0].Outcome)
	assert.True(t, out.Results[0].Accepted)
}

func TestProcessBatch_FallaDePersistenciaEtiquetadaDistinta(t *testing.T) {
	eng := newTestEngine(t, 3*time.Second)
	seedTags(t, eng, "T1")
	eng.uc.txRunner = failingTxRunner{}

	out := eng.uc.ProcessBatch(context.Background(), "user-1", dto.BulkScanRequest{
		Scans: []dto.ScanRequest{
			{TagID: "T1", DeviceID: testDevice},
			{TagID: "T-SIN-CATALOGO", DeviceID: testDevice},
		},
	})

	assert.Equal(t, 0, out.Created)
	assert.Equal(t, 2, out.Errors)
	require.Len(t, out.Results, 2)
	// La DB caída no es un problema de configuración: el detalle debe
	// distinguirla de la resolución para que el operador sepa reintentar.
	assert.Equal(t, OutcomePersistenceError, out.Results[0].Outcome)
	assert.Contains(t, out.Results[0].Message, "no fue registrado")
	assert.Equal(t, OutcomeResolutionError, out.Results[1].Outcome)
	assert.Contains(t, out.Results[1].Message, "T-SIN-CATALOGO")
}

// ──────────────────────────────────────────────────────────────────────────────
// ToResponse
// ──────────────────────────────────────────────────────────────────────────────

func TestToResponse_MensajesPorOutcome(t *testing.T) {
	rec := &entity.PresenceRecord{
		Key:      entity.PresenceKey{EPC: "T1", LocationCode: "BOD-01", PONumber: "PO-1", ItemNumber: "I-1"},
		Status:   entity.StatusOut,
		Quantity: decimal.NewFromInt(5),
	}

	resp := ToResponse(&Result{Outcome: OutcomeToggled, Record: rec, LotNumber: "L-1"})
	assert.True(t, resp.Accepted)
	assert.Equal(t, entity.StatusOut, resp.Status)
	require.NotNil(t, resp.Details)
	assert.Equal(t, "L-1", resp.Details.LotNumber)

	resp = ToResponse(&Result{Outcome: OutcomeIgnoredCooldown, Record: rec})
	assert.True(t, resp.Accepted, "ignorado se reconoce aunque no mute")

	resp = ToResponse(&Result{Outcome: OutcomeDuplicateSuppressed})
	assert.False(t, resp.Accepted)
	assert.Nil(t, resp.Details, "sin registro previo no hay detalles que mostrar")
}
