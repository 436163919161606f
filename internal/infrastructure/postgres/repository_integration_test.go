//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/honey-inventory/pkg/config"
)

// setupDB levanta un PostgreSQL efímero, aplica las migraciones y devuelve el pool.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("honey"),
		tcpostgres.WithUsername("honey"),
		tcpostgres.WithPassword("honey"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: connStr, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_init.sql", "0002_stock_bigint.sql"}, applied)
	// la segunda vez no queda nada pendiente
	applied, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	require.Empty(t, applied)
	return pool
}

type seeded struct {
	entity    *entity.Entity
	warehouse *entity.Warehouse
	locA      *entity.Location
	locB      *entity.Location
	sku       *entity.ProductSku
}

func seed(t *testing.T, tx *postgres.TxRunner) seeded {
	t.Helper()
	var s seeded
	err := tx.Run(context.Background(), func(r repository.Store) error {
		ctx := context.Background()
		s.entity = &entity.Entity{Name: "Acme"}
		if err := r.Entities.Create(ctx, s.entity); err != nil {
			return err
		}
		s.warehouse = &entity.Warehouse{EntityID: s.entity.ID, Name: "Garage"}
		if err := r.Warehouses.Create(ctx, s.warehouse); err != nil {
			return err
		}
		s.locA = &entity.Location{WarehouseID: s.warehouse.ID, Label: "HG-1"}
		if err := r.Locations.Create(ctx, s.locA); err != nil {
			return err
		}
		s.locB = &entity.Location{WarehouseID: s.warehouse.ID, Label: "HG-2"}
		if err := r.Locations.Create(ctx, s.locB); err != nil {
			return err
		}
		upc := "0123456789"
		s.sku = &entity.ProductSku{EntityID: s.entity.ID, Sku: "A1-W-L", UPC: &upc}
		return r.Skus.Create(ctx, s.sku)
	})
	require.NoError(t, err)
	return s
}

// ── PostgreSQL ────────────────────────────────────────────────────────────────

func TestPostgres_Repositorios(t *testing.T) {
	pool := setupDB(t)
	runner := postgres.NewTxRunner(pool)
	s := seed(t, runner)
	ctx := context.Background()

	t.Run("duplicados se traducen a ErrDuplicate", func(t *testing.T) {
		err := runner.Run(ctx, func(r repository.Store) error {
			return r.Locations.Create(ctx, &entity.Location{WarehouseID: s.warehouse.ID, Label: "HG-1"})
		})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("increment atómico y total calculado", func(t *testing.T) {
		err := runner.Run(ctx, func(r repository.Store) error {
			q, err := r.Stock.Increment(ctx, s.sku.ID, s.locA.ID, 3)
			require.NoError(t, err)
			assert.Equal(t, int64(3), q)
			q, err = r.Stock.Increment(ctx, s.sku.ID, s.locA.ID, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(5), q)

			total, err := r.Stock.SumByLocation(ctx, s.locA.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)

			sums, err := r.Locations.ListSummaries(ctx, &s.warehouse.ID)
			require.NoError(t, err)
			require.Len(t, sums, 2)
			assert.Equal(t, int64(5), sums[0].Total)
			assert.Equal(t, "Acme", sums[0].EntityName)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("CHECK quantity > 0 rechaza cero", func(t *testing.T) {
		err := runner.Run(ctx, func(r repository.Store) error {
			return r.Stock.Put(ctx, s.sku.ID, s.locB.ID, 0)
		})
		assert.Error(t, err)
	})

	t.Run("cantidades por encima de int32", func(t *testing.T) {
		const big = int64(1) << 40
		err := runner.Run(ctx, func(r repository.Store) error {
			if err := r.Stock.Put(ctx, s.sku.ID, s.locB.ID, big); err != nil {
				return err
			}
			total, err := r.Stock.SumByLocation(ctx, s.locB.ID)
			require.NoError(t, err)
			assert.Equal(t, big, total)
			return errors.New("deshacer")
		})
		assert.EqualError(t, err, "deshacer")
	})

	t.Run("rollback descarta la escritura", func(t *testing.T) {
		boom := errors.New("boom")
		err := runner.Run(ctx, func(r repository.Store) error {
			if _, err := r.Stock.Increment(ctx, s.sku.ID, s.locB.ID, 7); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		_ = runner.Run(ctx, func(r repository.Store) error {
			row, err := r.Stock.Get(ctx, s.sku.ID, s.locB.ID)
			require.NoError(t, err)
			assert.Nil(t, row)
			return nil
		})
	})

	t.Run("lock ordena y detecta ids inexistentes", func(t *testing.T) {
		err := runner.Run(ctx, func(r repository.Store) error {
			require.NoError(t, r.Locations.Lock(ctx, s.locB.ID, s.locA.ID))
			return r.Locations.Lock(ctx, s.locA.ID, 999999)
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("contenedor raíz auto-referenciado", func(t *testing.T) {
		err := runner.Run(ctx, func(r repository.Store) error {
			root := &entity.Container{Name: "outer-master-ctn"}
			require.NoError(t, r.Containers.Create(ctx, root))
			got, err := r.Containers.GetByID(ctx, root.ID)
			require.NoError(t, err)
			assert.True(t, got.IsRoot())
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("atributos find-or-create", func(t *testing.T) {
		err := runner.Run(ctx, func(r repository.Store) error {
			a1, err := r.Attributes.FindOrCreate(ctx, s.entity.ID, "color", "white")
			require.NoError(t, err)
			a2, err := r.Attributes.FindOrCreate(ctx, s.entity.ID, "color", "white")
			require.NoError(t, err)
			assert.Equal(t, a1.ID, a2.ID)
			require.NoError(t, r.Attributes.Link(ctx, s.sku.ID, a1.ID))
			require.NoError(t, r.Attributes.Link(ctx, s.sku.ID, a1.ID))
			attrs, err := r.Attributes.ListBySku(ctx, s.sku.ID)
			require.NoError(t, err)
			assert.Len(t, attrs, 1)
			return nil
		})
		require.NoError(t, err)
	})
}
