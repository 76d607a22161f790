package scan

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// keyedLock exclusión mutua por clave de presencia, shardeada por hash.
// El lock de fila de la DB ya serializa los toggles de una clave, pero esa
// garantía pertenece al motor, no al backing store: con este lock el orden
// winner/loser se decide en el proceso y la DB solo lo confirma.
type keyedLock struct {
	shards [lockShards]sync.Mutex
}

func (l *keyedLock) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.shards[h.Sum32()%lockShards]
}

// Lock toma el lock del shard de la clave y devuelve su unlock.
func (l *keyedLock) Lock(key string) func() {
	mu := l.shard(key)
	mu.Lock()
	return mu.Unlock
}
