package scan

import (
	"context"
	"sync"

	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/domain/repository"
)

// TagResolver resuelve un identificador de tag (hex/EPC) a su línea de orden
// de compra. Cache read-through delante del repositorio: el catálogo es
// read-mostly y cada escaneo lo consulta. La invalidación la dispara la capa
// administrativa al escribir (nada de estado global a nivel de paquete).
type TagResolver struct {
	repo repository.TagCatalogRepository

	mu    sync.RWMutex
	cache map[string]*entity.TagCatalogEntry
}

// NewTagResolver construye el resolver con cache vacío.
func NewTagResolver(repo repository.TagCatalogRepository) *TagResolver {
	return &TagResolver{repo: repo, cache: make(map[string]*entity.TagCatalogEntry)}
}

// Resolve busca la entrada del catálogo para hexCode (match exacto,
// case-sensitive). Devuelve (nil, nil) si no existe: resultado negativo
// normal, el caller decide si el tag es obligatorio.
func (r *TagResolver) Resolve(ctx context.Context, hexCode string) (*entity.TagCatalogEntry, error) {
	if hexCode == "" {
		return nil, nil
	}
	r.mu.RLock()
	entry, ok := r.cache[hexCode]
	r.mu.RUnlock()
	if ok {
		return entry, nil
	}

	entry, err := r.repo.GetByHex(ctx, hexCode)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil // no se cachean negativos: el alta del tag debe verse de inmediato
	}
	r.mu.Lock()
	r.cache[hexCode] = entry
	r.mu.Unlock()
	return entry, nil
}

// Invalidate descarta la entrada cacheada tras una corrección administrativa.
func (r *TagResolver) Invalidate(hexCode string) {
	r.mu.Lock()
	delete(r.cache, hexCode)
	r.mu.Unlock()
}

// LocationResolver resuelve un device a la ubicación que custodia. Mismo
// esquema de cache read-through que TagResolver.
type LocationResolver struct {
	repo repository.LocationRepository

	mu    sync.RWMutex
	cache map[string]*entity.LocationEntry
}

// NewLocationResolver construye el resolver con cache vacío.
func NewLocationResolver(repo repository.LocationRepository) *LocationResolver {
	return &LocationResolver{repo: repo, cache: make(map[string]*entity.LocationEntry)}
}

// Resolve busca la ubicación configurada para deviceID. Devuelve (nil, nil)
// si no hay ninguna: un lector sin ubicación es un error de configuración
// que el caller reporta con diagnóstico, nunca se descarta en silencio.
func (r *LocationResolver) Resolve(ctx context.Context, deviceID string) (*entity.LocationEntry, error) {
	if deviceID == "" {
		return nil, nil
	}
	r.mu.RLock()
	loc, ok := r.cache[deviceID]
	r.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := r.repo.GetByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}
	r.mu.Lock()
	r.cache[deviceID] = loc
	r.mu.Unlock()
	return loc, nil
}

// Invalidate descarta la entrada cacheada de un device (alta o corrección).
func (r *LocationResolver) Invalidate(deviceID string) {
	r.mu.Lock()
	delete(r.cache, deviceID)
	r.mu.Unlock()
}
