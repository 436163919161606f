package ports

import "context"

// KeyValueStore define el puerto de salida para la caché clave/valor (Redis en producción).
// Get devuelve ok=false cuando la clave no existe; eso no es un error.
// Los escritores sobrescriben sin bloqueo: la última escritura gana.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
