// Package catalog administra el catálogo hex/EPC y las ubicaciones. Son los
// stores read-mostly que el motor de escaneo consulta vía resolvers; cada
// escritura dispara la invalidación del cache correspondiente.
package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/domain"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

// TagUseCase alta y consulta de entradas del catálogo.
type TagUseCase struct {
	repo     repository.TagCatalogRepository
	resolver *scan.TagResolver
}

// NewTagUseCase construye el caso de uso.
func NewTagUseCase(repo repository.TagCatalogRepository, resolver *scan.TagResolver) *TagUseCase {
	return &TagUseCase{repo: repo, resolver: resolver}
}

// Create registra una entrada hex→línea de PO. ErrDuplicate si el hex existe.
func (uc *TagUseCase) Create(ctx context.Context, in dto.CreateTagRequest) (*dto.TagResponse, error) {
	if in.HexCode == "" || in.PONumber == "" || in.ItemNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	qty := in.Quantity
	if qty.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	entry := &entity.TagCatalogEntry{
		HexCode:       in.HexCode,
		PONumber:      in.PONumber,
		LotNumber:     in.LotNumber,
		ItemNumber:    in.ItemNumber,
		Quantity:      qty,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	// Corrección administrativa sobre un hex ya escaneado: el resolver debe
	// releer de la DB en el próximo escaneo.
	uc.resolver.Invalidate(in.HexCode)
	return toTagResponse(entry), nil
}

// GetByHex consulta una entrada. ErrNotFound si no existe.
func (uc *TagUseCase) GetByHex(ctx context.Context, hexCode string) (*dto.TagResponse, error) {
	entry, err := uc.repo.GetByHex(ctx, hexCode)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return toTagResponse(entry), nil
}

// List devuelve una página del catálogo.
func (uc *TagUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.TagResponse, error) {
	page.DefaultPage()
	entries, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TagResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toTagResponse(e))
	}
	return out, nil
}

// Import da de alta un lote de entradas (filas ya parseadas del Excel).
// Continúa ante fallos por fila; los hex duplicados se saltan.
func (uc *TagUseCase) Import(ctx context.Context, rows []dto.CreateTagRequest) *dto.ImportTagsResponse {
	out := &dto.ImportTagsResponse{}
	for _, row := range rows {
		if _, err := uc.Create(ctx, row); err != nil {
			out.Skipped++
			out.Errors = append(out.Errors, row.HexCode+": "+err.Error())
			continue
		}
		out.Imported++
	}
	return out
}

func toTagResponse(e *entity.TagCatalogEntry) *dto.TagResponse {
	return &dto.TagResponse{
		HexCode:       e.HexCode,
		PONumber:      e.PONumber,
		LotNumber:     e.LotNumber,
		ItemNumber:    e.ItemNumber,
		Quantity:      e.Quantity,
		UnitOfMeasure: e.UnitOfMeasure,
		CreatedAt:     e.CreatedAt,
	}
}

// LocationUseCase alta y consulta de ubicaciones con su lector asociado.
type LocationUseCase struct {
	repo     repository.LocationRepository
	resolver *scan.LocationResolver
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, resolver *scan.LocationResolver) *LocationUseCase {
	return &LocationUseCase{repo: repo, resolver: resolver}
}

// Create registra una ubicación. ErrDuplicate si el código de ubicación o el
// device ya están registrados (un lector custodia a lo sumo una ubicación).
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.LocationCode == "" || in.DeviceID == "" {
		return nil, domain.ErrInvalidInput
	}
	loc := &entity.LocationEntry{
		LocationCode: in.LocationCode,
		DeviceID:     in.DeviceID,
		Name:         in.Name,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	uc.resolver.Invalidate(in.DeviceID)
	return toLocationResponse(loc), nil
}

// GetByCode consulta una ubicación por su código. ErrNotFound si no existe.
func (uc *LocationUseCase) GetByCode(ctx context.Context, code string) (*dto.LocationResponse, error) {
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	loc, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// List devuelve todas las ubicaciones configuradas.
func (uc *LocationUseCase) List(ctx context.Context) ([]*dto.LocationResponse, error) {
	locs, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LocationResponse, 0, len(locs))
	for _, l := range locs {
		out = append(out, toLocationResponse(l))
	}
	return out, nil
}

func toLocationResponse(l *entity.LocationEntry) *dto.LocationResponse {
	return &dto.LocationResponse{
		LocationCode: l.LocationCode,
		DeviceID:     l.DeviceID,
		Name:         l.Name,
		CreatedAt:    l.CreatedAt,
	}
}
