package scan

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// dedupShards fija el número de shards del filtro. Un gate RFID genera
// cientos de lecturas por segundo para un mismo pase físico; el filtro debe
// resolver en memoria sin convertirse en un lock global entre lectores.
const dedupShards = 32

type dedupShard struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// Filter filtro de duplicados de horizonte corto: suprime la re-evaluación
// de una lectura idéntica que llega dentro de la ventana de supresión.
// Corre antes e independiente del cooldown de toggle — este filtro protege
// contra el polling del lector, el cooldown contra el montacargas que se
// queda junto a la antena.
type Filter struct {
	window time.Duration
	shards [dedupShards]*dedupShard
}

// NewFilter construye el filtro con la ventana de supresión configurada.
func NewFilter(window time.Duration) *Filter {
	f := &Filter{window: window}
	for i := range f.shards {
		f.shards[i] = &dedupShard{lastSeen: make(map[string]time.Time)}
	}
	return f
}

func (f *Filter) shard(key string) *dedupShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return f.shards[h.Sum32()%dedupShards]
}

// Accept decide aceptar o suprimir la lectura con clave key en el instante
// now. Check-and-set bajo el lock del shard: si la última lectura aceptada
// está a menos de la ventana, se suprime; si no, se acepta y se registra now.
func (f *Filter) Accept(key string, now time.Time) bool {
	s := f.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if last, ok := s.lastSeen[key]; ok && now.Sub(last) < f.window {
		return false
	}
	s.lastSeen[key] = now
	return true
}

// Janitor purga periódicamente entradas más viejas que la ventana para que
// el mapa no crezca con tags que ya no circulan. Bloquea hasta cancelar ctx.
func (f *Filter) Janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			f.sweep(now)
		}
	}
}

func (f *Filter) sweep(now time.Time) {
	for _, s := range f.shards {
		s.mu.Lock()
		for key, last := range s.lastSeen {
			if now.Sub(last) >= f.window {
				delete(s.lastSeen, key)
			}
		}
		s.mu.Unlock()
	}
}
