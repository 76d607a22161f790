// Package stock mantiene los totales de stock-on-hand derivados de las
// transiciones de presencia aceptadas, para el dashboard y los reportes.
package stock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

type bucketKey struct {
	ItemNumber string
	LotNumber  string
	PONumber   string
}

// Aggregator totales firmados incrementales por (ítem, lote, PO). Solo lee
// PresenceRecords (vía Recompute); la mutación de presencia es exclusiva del
// motor de toggle, que a cambio invoca Apply por cada transición aceptada.
// Vista derivada: siempre se puede reconstruir desde cero.
type Aggregator struct {
	presence repository.PresenceRepository

	mu          sync.RWMutex
	buckets     map[bucketKey]decimal.Decimal
	lastUpdated time.Time
}

// NewAggregator construye el agregador con totales en cero. Llamar Recompute
// en el arranque para sembrarlos desde la DB.
func NewAggregator(presence repository.PresenceRepository) *Aggregator {
	return &Aggregator{
		presence: presence,
		buckets:  make(map[bucketKey]decimal.Decimal),
	}
}

// Apply incorpora una transición aceptada: suma la cantidad al pasar a "in",
// la resta al pasar a "out".
func (a *Aggregator) Apply(ev *entity.TransitionEvent) {
	k := bucketKey{ItemNumber: ev.Key.ItemNumber, LotNumber: ev.LotNumber, PONumber: ev.Key.PONumber}
	delta := ev.Quantity
	if ev.Status == entity.StatusOut {
		delta = delta.Neg()
	}

	a.mu.Lock()
	a.buckets[k] = a.buckets[k].Add(delta)
	a.lastUpdated = ev.OccurredAt
	a.mu.Unlock()
}

// Snapshot devuelve una vista consistente (copiada) de los totales: filas
// ordenadas por ítem/lote/PO y los stats globales. Seguro frente a Apply
// concurrentes; los lectores nunca ven un estado a medio actualizar.
func (a *Aggregator) Snapshot() dto.StockSnapshotDTO {
	a.mu.RLock()
	rows := make([]dto.StockSummaryRow, 0, len(a.buckets))
	for k, qty := range a.buckets {
		rows = append(rows, dto.StockSummaryRow{
			ItemNumber:  k.ItemNumber,
			LotNumber:   k.LotNumber,
			PONumber:    k.PONumber,
			NetQuantity: qty,
		})
	}
	last := a.lastUpdated
	a.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemNumber != rows[j].ItemNumber {
			return rows[i].ItemNumber < rows[j].ItemNumber
		}
		if rows[i].LotNumber != rows[j].LotNumber {
			return rows[i].LotNumber < rows[j].LotNumber
		}
		return rows[i].PONumber < rows[j].PONumber
	})

	return dto.StockSnapshotDTO{
		Stats:       statsFor(rows),
		Summary:     rows,
		LastUpdated: last,
	}
}

// Recompute reconstruye los totales con un full scan de PresenceRecords y
// los intercambia atómicamente. Camino de recuperación si se sospecha que
// los incrementales quedaron corruptos; también siembra el arranque.
func (a *Aggregator) Recompute(ctx context.Context) (dto.StockSnapshotDTO, error) {
	entries, err := a.presence.Aggregate(ctx)
	if err != nil {
		return dto.StockSnapshotDTO{}, err
	}

	fresh := make(map[bucketKey]decimal.Decimal, len(entries))
	var last time.Time
	for _, e := range entries {
		k := bucketKey{ItemNumber: e.ItemNumber, LotNumber: e.LotNumber, PONumber: e.PONumber}
		fresh[k] = e.NetQuantity
		if e.LastUpdated.After(last) {
			last = e.LastUpdated
		}
	}

	a.mu.Lock()
	a.buckets = fresh
	a.lastUpdated = last
	a.mu.Unlock()

	return a.Snapshot(), nil
}

func statsFor(rows []dto.StockSummaryRow) dto.StockStatsDTO {
	items := make(map[string]bool)
	pos := make(map[string]bool)
	total := decimal.Zero
	for _, r := range rows {
		items[r.ItemNumber] = true
		pos[r.PONumber] = true
		total = total.Add(r.NetQuantity)
	}
	return dto.StockStatsDTO{
		DistinctItems: len(items),
		DistinctPOs:   len(pos),
		TotalOnHand:   total,
	}
}
