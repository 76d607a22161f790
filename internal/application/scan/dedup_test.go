package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ──────────────────────────────────────────────────────────────────────────────
// Filtro de duplicados: check-and-set por clave dentro de la ventana.
// ──────────────────────────────────────────────────────────────────────────────

func TestFilter_SuprimeDentroDeLaVentana(t *testing.T) {
	f := NewFilter(3 * time.Second)
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	assert.True(t, f.Accept("k1", t0), "la primera lectura siempre se acepta")
	assert.False(t, f.Accept("k1", t0.Add(1*time.Second)), "dentro de la ventana se suprime")
	assert.False(t, f.Accept("k1", t0.Add(2999*time.Millisecond)))
	assert.True(t, f.Accept("k1", t0.Add(3*time.Second)), "en el borde de la ventana se acepta")
}

func TestFilter_ClavesIndependientes(t *testing.T) {
	f := NewFilter(3 * time.Second)
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	assert.True(t, f.Accept("k1", t0))
	assert.True(t, f.Accept("k2", t0), "claves distintas no se suprimen entre sí")
	assert.False(t, f.Accept("k1", t0.Add(time.Second)))
	assert.False(t, f.Accept("k2", t0.Add(time.Second)))
}

func TestFilter_SuprimidoNoExtiendeLaVentana(t *testing.T) {
	f := NewFilter(3 * time.Second)
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	assert.True(t, f.Accept("k1", t0))
	// Ráfaga continua: los suprimidos no renuevan lastSeen, así que a los
	// 3s del ÚLTIMO ACEPTADO la clave vuelve a pasar aunque el lector nunca
	// haya dejado de reportarla.
	assert.False(t, f.Accept("k1", t0.Add(1*time.Second)))
	assert.False(t, f.Accept("k1", t0.Add(2*time.Second)))
	assert.True(t, f.Accept("k1", t0.Add(3*time.Second)))
}

func TestFilter_SweepPurgaEntradasViejas(t *testing.T) {
	f := NewFilter(3 * time.Second)
	t0 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	f.Accept("viejo", t0)
	f.Accept("reciente", t0.Add(10*time.Second))

	f.sweep(t0.Add(11 * time.Second))

	total := 0
	for _, s := range f.shards {
		s.mu.Lock()
		total += len(s.lastSeen)
		s.mu.Unlock()
	}
	assert.Equal(t, 1, total, "el sweep solo debe conservar las entradas dentro de la ventana")
	assert.False(t, f.Accept("reciente", t0.Add(12*time.Second)), "la entrada vigente sigue suprimiendo")
	assert.True(t, f.Accept("viejo", t0.Add(12*time.Second)), "la purgada vuelve a aceptarse")
}
