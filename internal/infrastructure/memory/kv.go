package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/honey-inventory/internal/application/ports"
)

var _ ports.KeyValueStore = (*KV)(nil)

// KV caché clave/valor en proceso (CACHE_DRIVER=memory y pruebas).
type KV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewKV crea una caché vacía.
func NewKV() *KV {
	return &KV{data: map[string]string{}}
}

func (k *KV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	v, ok := k.data[key]
	return v, ok, nil
}

func (k *KV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = value
	return nil
}

func (k *KV) Delete(_ context.Context, keys ...string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, key := range keys {
		delete(k.data, key)
	}
	return nil
}
