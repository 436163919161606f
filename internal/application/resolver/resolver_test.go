package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/honey-inventory/internal/application/resolver"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/memory"
)

// ── fixture: dos bodegas "Garage" bajo Acme y Globex ─────────────────────────

type world struct {
	acme, globex         *entity.Entity
	acmeGarage, gxGarage *entity.Warehouse
	acmeLoc, gxLoc       *entity.Location
}

func newWorld(t *testing.T) (*memory.Store, world) {
	t.Helper()
	s := memory.NewStore()
	var w world
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(r repository.Store) error {
		w.acme = &entity.Entity{Name: "Acme"}
		w.globex = &entity.Entity{Name: "Globex"}
		require.NoError(t, r.Entities.Create(ctx, w.acme))
		require.NoError(t, r.Entities.Create(ctx, w.globex))
		w.acmeGarage = &entity.Warehouse{EntityID: w.acme.ID, Name: "Garage"}
		w.gxGarage = &entity.Warehouse{EntityID: w.globex.ID, Name: "Garage"}
		require.NoError(t, r.Warehouses.Create(ctx, w.acmeGarage))
		require.NoError(t, r.Warehouses.Create(ctx, w.gxGarage))
		w.acmeLoc = &entity.Location{WarehouseID: w.acmeGarage.ID, Label: "HG-1"}
		w.gxLoc = &entity.Location{WarehouseID: w.gxGarage.ID, Label: "HG-1"}
		require.NoError(t, r.Locations.Create(ctx, w.acmeLoc))
		require.NoError(t, r.Locations.Create(ctx, w.gxLoc))
		return nil
	}))
	return s, w
}

func ptr(i entity.Identifier) *entity.Identifier { return &i }

// ── bodegas ───────────────────────────────────────────────────────────────────

func TestWarehouse_NombreRepetidoSinEntidadEsAmbiguo(t *testing.T) {
	s, _ := newWorld(t)
	_ = s.Run(context.Background(), func(r repository.Store) error {
		_, err := resolver.Warehouse(context.Background(), r, entity.WarehouseRef{Warehouse: entity.ByName("Garage")})
		assert.ErrorIs(t, err, domain.ErrAmbiguousReference)
		return nil
	})
}

func TestWarehouse_EntidadDesambigua(t *testing.T) {
	s, w := newWorld(t)
	_ = s.Run(context.Background(), func(r repository.Store) error {
		got, err := resolver.Warehouse(context.Background(), r, entity.WarehouseRef{
			Warehouse: entity.ByName("Garage"),
			Entity:    ptr(entity.ByName("Globex")),
		})
		require.NoError(t, err)
		assert.Equal(t, w.gxGarage.ID, got.ID)
		return nil
	})
}

func TestWarehouse_EntidadInexistenteEsNotFound(t *testing.T) {
	s, _ := newWorld(t)
	_ = s.Run(context.Background(), func(r repository.Store) error {
		_, err := resolver.Warehouse(context.Background(), r, entity.WarehouseRef{
			Warehouse: entity.ByName("Garage"),
			Entity:    ptr(entity.ByName("Initech")),
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
}

func TestWarehouse_PorIDIgnoraEntidad(t *testing.T) {
	s, w := newWorld(t)
	_ = s.Run(context.Background(), func(r repository.Store) error {
		got, err := resolver.Warehouse(context.Background(), r, entity.WarehouseRef{
			Warehouse: entity.ByID(w.acmeGarage.ID),
			Entity:    ptr(entity.ByName("Initech")),
		})
		require.NoError(t, err)
		assert.Equal(t, w.acmeGarage.ID, got.ID)

		_, err = resolver.Warehouse(context.Background(), r, entity.WarehouseRef{Warehouse: entity.ByID(999)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
}

func TestWarehouse_IdentificadorVacio(t *testing.T) {
	s, _ := newWorld(t)
	_ = s.Run(context.Background(), func(r repository.Store) error {
		_, err := resolver.Warehouse(context.Background(), r, entity.WarehouseRef{Warehouse: entity.ParseIdentifier("  ")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		return nil
	})
}

// ── ubicaciones ───────────────────────────────────────────────────────────────

func TestLocation_MismaEtiquetaEnDosBodegas(t *testing.T) {
	s, w := newWorld(t)
	ctx := context.Background()
	_ = s.Run(ctx, func(r repository.Store) error {
		_, err := resolver.Location(ctx, r, entity.LocationRef{Location: entity.ByName("HG-1")})
		assert.ErrorIs(t, err, domain.ErrAmbiguousReference)

		got, err := resolver.Location(ctx, r, entity.LocationRef{
			Location:  entity.ByName("HG-1"),
			Warehouse: &entity.WarehouseRef{Warehouse: entity.ByID(w.gxGarage.ID)},
		})
		require.NoError(t, err)
		assert.Equal(t, w.gxLoc.ID, got.ID)

		// la ambigüedad de la bodega se propaga
		_, err = resolver.Location(ctx, r, entity.LocationRef{
			Location:  entity.ByName("HG-1"),
			Warehouse: &entity.WarehouseRef{Warehouse: entity.ByName("Garage")},
		})
		assert.ErrorIs(t, err, domain.ErrAmbiguousReference)
		return nil
	})
}

func TestLocation_CrearResolverBorrar(t *testing.T) {
	s, w := newWorld(t)
	ctx := context.Background()
	ref := entity.LocationRef{
		Location:  entity.ByName("HG-9"),
		Warehouse: &entity.WarehouseRef{Warehouse: entity.ByID(w.acmeGarage.ID)},
	}

	var created *entity.Location
	require.NoError(t, s.Run(ctx, func(r repository.Store) error {
		created = &entity.Location{WarehouseID: w.acmeGarage.ID, Label: "HG-9"}
		return r.Locations.Create(ctx, created)
	}))
	_ = s.Run(ctx, func(r repository.Store) error {
		got, err := resolver.Location(ctx, r, ref)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		return nil
	})
	require.NoError(t, s.Run(ctx, func(r repository.Store) error {
		return r.Locations.Delete(ctx, created.ID)
	}))
	_ = s.Run(ctx, func(r repository.Store) error {
		_, err := resolver.Location(ctx, r, ref)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
}

// ── entidades y SKUs ──────────────────────────────────────────────────────────

func TestEntity_PorIDYPorNombre(t *testing.T) {
	s, w := newWorld(t)
	ctx := context.Background()
	_ = s.Run(ctx, func(r repository.Store) error {
		byID, err := resolver.Entity(ctx, r, entity.ParseIdentifier("1"))
		require.NoError(t, err)
		assert.Equal(t, w.acme.ID, byID.ID)

		byName, err := resolver.Entity(ctx, r, entity.ByName(" Globex "))
		require.NoError(t, err)
		assert.Equal(t, w.globex.ID, byName.ID)

		_, err = resolver.Entity(ctx, r, entity.ByName("nadie"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
}

func TestSku_CodigoRepetidoEntreEntidades(t *testing.T) {
	s, w := newWorld(t)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(r repository.Store) error {
		require.NoError(t, r.Skus.Create(ctx, &entity.ProductSku{EntityID: w.acme.ID, Sku: "A1-W-L"}))
		return r.Skus.Create(ctx, &entity.ProductSku{EntityID: w.globex.ID, Sku: "A1-W-L"})
	}))
	_ = s.Run(ctx, func(r repository.Store) error {
		_, err := resolver.Sku(ctx, r, entity.SkuRef{Sku: entity.ByName("A1-W-L")})
		assert.ErrorIs(t, err, domain.ErrAmbiguousReference)

		got, err := resolver.Sku(ctx, r, entity.SkuRef{Sku: entity.ByName("A1-W-L"), Entity: ptr(entity.ByName("Acme"))})
		require.NoError(t, err)
		assert.Equal(t, w.acme.ID, got.EntityID)
		return nil
	})
}
