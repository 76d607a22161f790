package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rfid-presence-api/internal/application/stock"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakePresenceRepo implementa el puerto de presencia sobre un slice de
// entradas agregadas precalculadas: es lo único que Recompute consume.
// ──────────────────────────────────────────────────────────────────────────────

type fakePresenceRepo struct {
	aggregates []*entity.AggregateStockEntry
}

func (f *fakePresenceRepo) Get(context.Context, entity.PresenceKey) (*entity.PresenceRecord, error) {
	return nil, nil
}
func (f *fakePresenceRepo) GetForUpdate(context.Context, entity.PresenceKey) (*entity.PresenceRecord, error) {
	return nil, nil
}
func (f *fakePresenceRepo) Upsert(context.Context, *entity.PresenceRecord) error { return nil }
func (f *fakePresenceRepo) ListByEPC(context.Context, string) ([]*entity.PresenceRecord, error) {
	return nil, nil
}
func (f *fakePresenceRepo) Aggregate(context.Context) ([]*entity.AggregateStockEntry, error) {
	return f.aggregates, nil
}

func transition(item, lot, po, status string, qty int64, at time.Time) *entity.TransitionEvent {
	return &entity.TransitionEvent{
		Key:        entity.PresenceKey{EPC: "E2-" + item, LocationCode: "BOD-01", PONumber: po, ItemNumber: item},
		LotNumber:  lot,
		Status:     status,
		Quantity:   decimal.NewFromInt(qty),
		OccurredAt: at,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Incremental
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregator_ApplySumaYResta(t *testing.T) {
	a := stock.NewAggregator(&fakePresenceRepo{})
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	a.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 10, t0))
	a.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 5, t0.Add(time.Minute)))
	a.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusOut, 10, t0.Add(2*time.Minute)))
	a.Apply(transition("ITEM-2", "L-2", "PO-2", entity.StatusIn, 3, t0.Add(3*time.Minute)))

	snap := a.Snapshot()
	require.Len(t, snap.Summary, 2)

	// Filas ordenadas por ítem/lote/PO.
	assert.Equal(t, "ITEM-1", snap.Summary[0].ItemNumber)
	assert.True(t, snap.Summary[0].NetQuantity.Equal(decimal.NewFromInt(5)),
		"in(10) + in(5) - out(10) = 5")
	assert.Equal(t, "ITEM-2", snap.Summary[1].ItemNumber)
	assert.True(t, snap.Summary[1].NetQuantity.Equal(decimal.NewFromInt(3)))

	assert.Equal(t, 2, snap.Stats.DistinctItems)
	assert.Equal(t, 2, snap.Stats.DistinctPOs)
	assert.True(t, snap.Stats.TotalOnHand.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, t0.Add(3*time.Minute), snap.LastUpdated)
}

func TestAggregator_BucketsPorItemLoteYPO(t *testing.T) {
	a := stock.NewAggregator(&fakePresenceRepo{})
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	// Mismo ítem, lotes distintos: buckets separados.
	a.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 4, t0))
	a.Apply(transition("ITEM-1", "L-2", "PO-1", entity.StatusIn, 6, t0))

	snap := a.Snapshot()
	require.Len(t, snap.Summary, 2)
	assert.Equal(t, "L-1", snap.Summary[0].LotNumber)
	assert.Equal(t, "L-2", snap.Summary[1].LotNumber)
	assert.Equal(t, 1, snap.Stats.DistinctItems, "los stats colapsan por ítem")
}

func TestAggregator_ClaveQueSalioNetea0(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	// Ciclo completo in→out: incrementalmente 10-10=0.
	inc := stock.NewAggregator(&fakePresenceRepo{})
	inc.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 10, t0))
	inc.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusOut, 10, t0.Add(time.Minute)))
	require.True(t, inc.Snapshot().Stats.TotalOnHand.Equal(decimal.Zero))

	// El full scan ve una sola fila {status: out, qty: 10}; con la
	// convención del agregado esa clave netea 0, jamás -10.
	recomputed := stock.NewAggregator(&fakePresenceRepo{aggregates: []*entity.AggregateStockEntry{
		{ItemNumber: "ITEM-1", LotNumber: "L-1", PONumber: "PO-1", NetQuantity: decimal.Zero, LastUpdated: t0.Add(time.Minute)},
	}})
	snap, err := recomputed.Recompute(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Stats.TotalOnHand.Equal(decimal.Zero),
		"una clave que entró y salió no puede dejar stock negativo")
	assert.False(t, snap.Stats.TotalOnHand.IsNegative())
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante: incremental ≡ recomputado
//
// Las mismas transiciones aplicadas una a una deben dejar exactamente los
// totales que un Recompute reconstruiría desde los registros de presencia.
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregator_IncrementalCoincideConRecompute(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	// Incluye una clave que termina en "out" (ITEM-4): es el caso donde las
	// dos convenciones podrían divergir si el full scan firmara negativo.
	transitions := []*entity.TransitionEvent{
		transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 10, t0),
		transition("ITEM-2", "L-1", "PO-1", entity.StatusIn, 7, t0.Add(time.Minute)),
		transition("ITEM-1", "L-1", "PO-1", entity.StatusOut, 10, t0.Add(2*time.Minute)),
		transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 10, t0.Add(3*time.Minute)),
		transition("ITEM-3", "L-2", "PO-2", entity.StatusIn, 1, t0.Add(4*time.Minute)),
		transition("ITEM-4", "L-1", "PO-1", entity.StatusIn, 5, t0.Add(5*time.Minute)),
		transition("ITEM-4", "L-1", "PO-1", entity.StatusOut, 5, t0.Add(6*time.Minute)),
	}

	// Agregador incremental.
	inc := stock.NewAggregator(&fakePresenceRepo{})
	for _, tr := range transitions {
		inc.Apply(tr)
	}

	// Estado final de presencia por clave, como quedaría en la DB tras la
	// misma secuencia: el último status manda y la cantidad es la del in.
	type finalState struct {
		lot    string
		status string
		qty    decimal.Decimal
		at     time.Time
	}
	final := make(map[entity.PresenceKey]finalState)
	for _, tr := range transitions {
		final[tr.Key] = finalState{lot: tr.LotNumber, status: tr.Status, qty: tr.Quantity, at: tr.OccurredAt}
	}

	// Netos con la convención del full scan: "in" aporta su cantidad,
	// "out" ya entró y salió (neto 0).
	type bucket struct{ item, lot, po string }
	nets := make(map[bucket]decimal.Decimal)
	stamps := make(map[bucket]time.Time)
	for key, st := range final {
		b := bucket{item: key.ItemNumber, lot: st.lot, po: key.PONumber}
		if _, ok := nets[b]; !ok {
			nets[b] = decimal.Zero
		}
		if st.status == entity.StatusIn {
			nets[b] = nets[b].Add(st.qty)
		}
		if st.at.After(stamps[b]) {
			stamps[b] = st.at
		}
	}
	entries := make([]*entity.AggregateStockEntry, 0, len(nets))
	for b, net := range nets {
		entries = append(entries, &entity.AggregateStockEntry{
			ItemNumber: b.item, LotNumber: b.lot, PONumber: b.po,
			NetQuantity: net, LastUpdated: stamps[b],
		})
	}

	recomputed := stock.NewAggregator(&fakePresenceRepo{aggregates: entries})
	snapRecomputed, err := recomputed.Recompute(context.Background())
	require.NoError(t, err)

	snapInc := inc.Snapshot()
	require.Len(t, snapInc.Summary, len(snapRecomputed.Summary))
	for i, row := range snapInc.Summary {
		other := snapRecomputed.Summary[i]
		assert.Equal(t, other.ItemNumber, row.ItemNumber)
		assert.Equal(t, other.LotNumber, row.LotNumber)
		assert.Equal(t, other.PONumber, row.PONumber)
		assert.True(t, row.NetQuantity.Equal(other.NetQuantity),
			"neto incremental y recomputado deben coincidir en %s", row.ItemNumber)
	}
	assert.True(t, snapInc.Stats.TotalOnHand.Equal(snapRecomputed.Stats.TotalOnHand))
}

func TestAggregator_RecomputeDescartaIncrementalesPrevios(t *testing.T) {
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := &fakePresenceRepo{aggregates: []*entity.AggregateStockEntry{
		{ItemNumber: "ITEM-1", LotNumber: "L-1", PONumber: "PO-1", NetQuantity: decimal.NewFromInt(2), LastUpdated: t0},
	}}
	a := stock.NewAggregator(repo)

	// Incremental "corrupto" que el recompute debe pisar por completo.
	a.Apply(transition("ITEM-99", "L-9", "PO-9", entity.StatusIn, 500, t0))

	snap, err := a.Recompute(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Summary, 1)
	assert.Equal(t, "ITEM-1", snap.Summary[0].ItemNumber)
	assert.True(t, snap.Stats.TotalOnHand.Equal(decimal.NewFromInt(2)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: Apply y Snapshot simultáneos
// ──────────────────────────────────────────────────────────────────────────────

func TestAggregator_SnapshotConsistenteBajoConcurrencia(t *testing.T) {
	a := stock.NewAggregator(&fakePresenceRepo{})
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				a.Apply(transition("ITEM-1", "L-1", "PO-1", entity.StatusIn, 1, t0))
			}
		}()
	}
	// Lectores concurrentes: nunca deben observar totales negativos ni
	// mayores que el total final.
	maxTotal := decimal.NewFromInt(writers * perWriter)
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				snap := a.Snapshot()
				total := snap.Stats.TotalOnHand
				assert.False(t, total.IsNegative())
				assert.True(t, total.LessThanOrEqual(maxTotal))
			}
		}()
	}
	wg.Wait()

	snap := a.Snapshot()
	assert.True(t, snap.Stats.TotalOnHand.Equal(maxTotal),
		"ningún Apply debe perderse bajo concurrencia")
}
