// Package redis implementa ports.KeyValueStore sobre Redis (go-redis).
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/pkg/config"
)

var _ ports.KeyValueStore = (*KV)(nil)

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// KV adaptador clave/valor; acepta cualquier cliente (simple, cluster o sentinel).
type KV struct {
	client goredis.UniversalClient
}

// NewKV construye el adaptador.
func NewKV(client goredis.UniversalClient) *KV {
	return &KV{client: client}
}

// Get devuelve ok=false cuando la clave no existe (redis.Nil no es un error).
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set guarda el valor sin expiración; la última escritura gana.
func (k *KV) Set(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete borra las claves; las inexistentes se ignoran.
func (k *KV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := k.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
