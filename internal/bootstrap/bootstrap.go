// Package bootstrap arma las dependencias compartidas por la API y la CLI según la configuración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/honey-inventory/internal/application/inventory"
	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/application/session"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/honey-inventory/pkg/config"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// App casos de uso listos para usar. Close libera pool y cliente Redis.
type App struct {
	Entities   *usecase.EntityUseCase
	Warehouses *usecase.WarehouseUseCase
	Locations  *usecase.LocationUseCase
	Skus       *usecase.SkuUseCase
	Containers *usecase.ContainerUseCase
	Ledger     *inventory.LedgerUseCase

	// Migrate es nil con STORE_DRIVER=memory.
	Migrate func(ctx context.Context) ([]string, error)

	closers []func()
}

// Close libera los recursos en orden inverso.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New conecta el almacén y la caché elegidos en cfg y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{}

	var tx ports.TxRunner
	switch cfg.App.Store {
	case "memory":
		log.Warn().Msg("STORE_DRIVER=memory: el inventario no se persiste")
		tx = memory.NewStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		tx = postgres.NewTxRunner(pool)
		a.Migrate = func(ctx context.Context) ([]string, error) {
			return postgres.Migrate(ctx, pool)
		}
	}

	var kv ports.KeyValueStore
	switch cfg.Redis.Driver {
	case "memory":
		kv = memory.NewKV()
	default:
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		kv = redis.NewKV(client)
	}

	active := session.NewActiveWarehouse(kv, cfg.ActiveWarehouseKey(), log.Named("session"))
	a.Entities = usecase.NewEntityUseCase(tx, log.Named("entity"))
	a.Warehouses = usecase.NewWarehouseUseCase(tx, active, log.Named("warehouse"))
	a.Locations = usecase.NewLocationUseCase(tx, active, log.Named("location"))
	a.Skus = usecase.NewSkuUseCase(tx, log.Named("sku"))
	a.Containers = usecase.NewContainerUseCase(tx, log.Named("container"))
	a.Ledger = inventory.NewLedgerUseCase(tx, active, log.Named("ledger"))

	log.Info().
		Str("store", cfg.App.Store).
		Str("cache", cfg.Redis.Driver).
		Msg("dependencias listas")
	return a, nil
}
