// Package scan implementa el motor de ingesta de lecturas RFID: resolución
// hex/EPC y device→ubicación, filtro de duplicados y la máquina de estados
// de presencia in/out con cooldown de toggle.
package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/domain"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
	"github.com/jhoicas/rfid-presence-api/pkg/logger"
)

// Outcomes del camino de éxito. "Ignorado" y "suprimido" NO son errores:
// son resultados esperados que la UI debe poder explicar.
const (
	OutcomeToggled             = "toggled"
	OutcomeIgnoredCooldown     = "ignored_cooldown"
	OutcomeDuplicateSuppressed = "duplicate_suppressed"
	OutcomeResolutionError     = "resolution_error"
	OutcomePersistenceError    = "persistence_error"
)

// Result resultado de procesar un escaneo aceptado o suprimido.
type Result struct {
	Outcome      string
	Created      bool // primer escaneo de la clave (registro recién creado)
	Record       *entity.PresenceRecord
	LotNumber    string
	LocationName string
}

// Status devuelve el estado actual de la clave, "" si aún no hay registro.
func (r *Result) Status() string {
	if r.Record == nil {
		return ""
	}
	return r.Record.Status
}

// UseCase motor de escaneo. Toda decisión de toggle corre dentro de una
// transacción con la fila de presencia bloqueada (GetForUpdate): dos
// escaneos concurrentes de la misma clave nunca observan ambos el cooldown
// vencido — el perdedor se re-evalúa contra el estado ya actualizado.
type UseCase struct {
	txRunner    TxRunner
	presence    repository.PresenceRepository   // lecturas fuera de transacción
	transitions repository.TransitionRepository // histórico, solo lectura aquí
	tags        *TagResolver
	locations   *LocationResolver
	filter      *Filter
	sink        EventSink
	stock       StockApplier
	cooldown    time.Duration
	node        *snowflake.Node
	log         *logger.Logger

	locks keyedLock        // exclusión por clave, independiente del backing store
	now   func() time.Time // inyectable en tests
}

// NewUseCase construye el motor.
func NewUseCase(
	txRunner TxRunner,
	presence repository.PresenceRepository,
	transitions repository.TransitionRepository,
	tags *TagResolver,
	locations *LocationResolver,
	filter *Filter,
	sink EventSink,
	stock StockApplier,
	cooldown time.Duration,
	node *snowflake.Node,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		presence:    presence,
		transitions: transitions,
		tags:        tags,
		locations:   locations,
		filter:      filter,
		sink:        sink,
		stock:       stock,
		cooldown:    cooldown,
		node:        node,
		log:         log,
		now:         time.Now,
	}
}

// ProcessScan procesa una lectura: resuelve, deduplica y decide el toggle.
// Errores de resolución (device sin ubicación, tag sin catálogo cuando es
// obligatorio) viajan por el canal de error envueltos sobre los sentinelas
// de dominio; todo lo demás es un Result con su outcome etiquetado.
func (uc *UseCase) ProcessScan(ctx context.Context, userID string, in dto.ScanRequest) (*Result, error) {
	if in.TagID == "" {
		return nil, fmt.Errorf("tag_id requerido: %w", domain.ErrInvalidInput)
	}

	ev := &entity.ScanEvent{
		ID:         uc.node.Generate().Int64(),
		TagID:      in.TagID,
		DeviceID:   in.DeviceID,
		RSSI:       in.RSSI,
		ReadCount:  in.ReadCount,
		Quantity:   in.Quantity,
		IngestedAt: uc.now(),
	}
	if in.Timestamp > 0 {
		ev.DeviceTime = time.UnixMilli(in.Timestamp)
	}

	key, lot, locName, qty, err := uc.resolve(ctx, in, ev)
	if err != nil {
		return nil, err
	}

	// Filtro de duplicados, antes de cualquier chequeo de estado. La ventana
	// de supresión es más corta que el cooldown: dos lecturas idénticas
	// dentro de ella jamás llegan ambas al motor de toggle.
	if !uc.filter.Accept(key.String(), ev.IngestedAt) {
		rec, _ := uc.presence.Get(ctx, key) // solo para informar el estado vigente
		uc.log.Debug().Str("key", key.String()).Msg("lectura suprimida por ventana de duplicados")
		return &Result{Outcome: OutcomeDuplicateSuppressed, Record: rec, LotNumber: lot, LocationName: locName}, nil
	}

	res := &Result{LotNumber: lot, LocationName: locName}
	var transition *entity.TransitionEvent

	// Serialización por clave: dos escaneos concurrentes jamás deciden el
	// toggle desde el mismo estado previo; el perdedor re-evalúa contra el
	// estado ya actualizado (y normalmente cae en el cooldown).
	unlock := uc.locks.Lock(key.String())
	defer unlock()

	err = uc.txRunner.Run(ctx, func(
		presenceRepo repository.PresenceRepository,
		transitionRepo repository.TransitionRepository,
	) error {
		rec, err := presenceRepo.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}

		now := ev.IngestedAt
		switch {
		case rec == nil:
			// Primera observación de la clave: el tag se asume entrando.
			rec = &entity.PresenceRecord{
				Key:              key,
				Status:           entity.StatusIn,
				Quantity:         qty,
				LastTransitionAt: now,
				CreatedAt:        now,
			}
			res.Outcome = OutcomeToggled
			res.Created = true
		case now.Sub(rec.LastTransitionAt) < uc.cooldown:
			// Demasiado pronto: sin mutación, sin evento. Se reconoce al
			// caller con el estado vigente para que pueda mostrarlo.
			res.Outcome = OutcomeIgnoredCooldown
			res.Record = rec
			return nil
		default:
			rec.Flip(now)
			res.Outcome = OutcomeToggled
		}

		if err := presenceRepo.Upsert(ctx, rec); err != nil {
			return err
		}
		transition = &entity.TransitionEvent{
			ID:         uuid.New().String(),
			Key:        key,
			LotNumber:  lot,
			Status:     rec.Status,
			Quantity:   rec.Quantity,
			OccurredAt: now,
			CreatedBy:  userID,
		}
		if err := transitionRepo.Create(ctx, transition); err != nil {
			return err
		}
		res.Record = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transition != nil {
		uc.stock.Apply(transition)
		// Sink best-effort: la notificación downstream tiene su propio retry;
		// un sink caído no revierte ni bloquea el toggle ya confirmado.
		if err := uc.sink.Publish(ctx, transition); err != nil {
			uc.log.Warn().Err(err).
				Str("epc", key.EPC).
				Str("location", key.LocationCode).
				Msg("event sink no disponible, transición no notificada")
		}
		uc.log.Info().
			Int64("scan_id", ev.ID).
			Str("epc", key.EPC).
			Str("location", key.LocationCode).
			Str("status", res.Record.Status).
			Msg("transición de presencia aceptada")
	}

	return res, nil
}

// CurrentPresence devuelve los registros de presencia vigentes de un EPC.
func (uc *UseCase) CurrentPresence(ctx context.Context, epc string) ([]*entity.PresenceRecord, error) {
	if epc == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.presence.ListByEPC(ctx, epc)
}

// TransitionHistory devuelve las transiciones aceptadas de una clave de
// presencia, de la más reciente a la más antigua.
func (uc *UseCase) TransitionHistory(ctx context.Context, key entity.PresenceKey, limit int) ([]*entity.TransitionEvent, error) {
	if key.EPC == "" || key.LocationCode == "" || key.PONumber == "" || key.ItemNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.transitions.ListByKey(ctx, key, limit)
}

// resolve determina la clave de presencia del escaneo.
//
// Camino normal: device→ubicación (obligatoria) y hex→catálogo (obligatorio,
// aporta PO, ítem, lote y cantidad). Camino alterno: el caller ya trae
// location_code + po_number + item_number y el catálogo es opcional.
func (uc *UseCase) resolve(ctx context.Context, in dto.ScanRequest, ev *entity.ScanEvent) (
	key entity.PresenceKey, lot, locName string, qty decimal.Decimal, err error,
) {
	preresolved := in.LocationCode != "" && in.PONumber != "" && in.ItemNumber != ""

	if !preresolved {
		if in.DeviceID == "" {
			err = fmt.Errorf("device_id o (location_code, po_number, item_number) requeridos: %w", domain.ErrInvalidInput)
			return
		}
		loc, lerr := uc.locations.Resolve(ctx, in.DeviceID)
		if lerr != nil {
			err = fmt.Errorf("resolver ubicación: %w", lerr)
			return
		}
		if loc == nil {
			err = fmt.Errorf("dispositivo %q: %w", in.DeviceID, domain.ErrLocationNotFound)
			return
		}
		entry, terr := uc.tags.Resolve(ctx, in.TagID)
		if terr != nil {
			err = fmt.Errorf("resolver tag: %w", terr)
			return
		}
		if entry == nil {
			err = fmt.Errorf("tag %q: %w", in.TagID, domain.ErrTagNotFound)
			return
		}
		key = entity.PresenceKey{
			EPC:          in.TagID,
			LocationCode: loc.LocationCode,
			PONumber:     entry.PONumber,
			ItemNumber:   entry.ItemNumber,
		}
		lot = entry.LotNumber
		locName = loc.Name
		qty = scanQuantity(in.Quantity, entry)
		ev.LocationCode = loc.LocationCode
		ev.PONumber = entry.PONumber
		ev.ItemNumber = entry.ItemNumber
		return
	}

	key = entity.PresenceKey{
		EPC:          in.TagID,
		LocationCode: in.LocationCode,
		PONumber:     in.PONumber,
		ItemNumber:   in.ItemNumber,
	}
	// Catálogo opcional en el camino alterno; si existe, aporta lote y cantidad.
	entry, terr := uc.tags.Resolve(ctx, in.TagID)
	if terr != nil {
		err = fmt.Errorf("resolver tag: %w", terr)
		return
	}
	if entry != nil {
		lot = entry.LotNumber
	}
	qty = scanQuantity(in.Quantity, entry)
	ev.LocationCode = in.LocationCode
	ev.PONumber = in.PONumber
	ev.ItemNumber = in.ItemNumber
	return
}

// scanQuantity cantidad a registrar en el primer "in" de la clave: la del
// escaneo si viene explícita, si no la ordenada en el catálogo, si no 1
// (un tag físico = una unidad).
func scanQuantity(explicit *decimal.Decimal, entry *entity.TagCatalogEntry) decimal.Decimal {
	if explicit != nil && explicit.GreaterThan(decimal.Zero) {
		return *explicit
	}
	if entry != nil && entry.Quantity.GreaterThan(decimal.Zero) {
		return entry.Quantity
	}
	return decimal.NewFromInt(1)
}
