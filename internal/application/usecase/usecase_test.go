package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/session"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActiveKey = "test:active_warehouse"

type app struct {
	store      *memory.Store
	kv         *memory.KV
	entities   *usecase.EntityUseCase
	warehouses *usecase.WarehouseUseCase
	locations  *usecase.LocationUseCase
	skus       *usecase.SkuUseCase
	containers *usecase.ContainerUseCase
}

func newApp() *app {
	store := memory.NewStore()
	kv := memory.NewKV()
	log := logger.Nop()
	active := session.NewActiveWarehouse(kv, testActiveKey, log)
	return &app{
		store:      store,
		kv:         kv,
		entities:   usecase.NewEntityUseCase(store, log),
		warehouses: usecase.NewWarehouseUseCase(store, active, log),
		locations:  usecase.NewLocationUseCase(store, active, log),
		skus:       usecase.NewSkuUseCase(store, log),
		containers: usecase.NewContainerUseCase(store, log),
	}
}

// seed crea Acme / Garage / HG-1 y el SKU A1-W-L con UPC 0001.
func (a *app) seed(t *testing.T) (*dto.LocationResponse, *dto.SkuResponse) {
	t.Helper()
	ctx := context.Background()
	_, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: "Acme"})
	require.NoError(t, err)
	_, err = a.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Garage", Entity: "Acme"})
	require.NoError(t, err)
	loc, err := a.locations.Create(ctx, dto.CreateLocationRequest{Label: "HG-1", Warehouse: "Garage", Entity: "Acme"})
	require.NoError(t, err)
	sku, err := a.skus.Create(ctx, dto.CreateSkuRequest{Sku: "A1-W-L", UPC: "0001", Entity: "Acme"})
	require.NoError(t, err)
	return loc, sku
}

// putStock escribe stock directamente en el almacén.
func (a *app) putStock(t *testing.T, skuID, locationID, qty int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.store.Run(ctx, func(r repository.Store) error {
		return r.Stock.Put(ctx, skuID, locationID, qty)
	}))
}

func strPtr(s string) *string { return &s }

// orderRunner registra, sobre el almacén en memoria, el orden entre bloqueos de ubicaciones
// y lecturas de stock.
type orderRunner struct {
	inner *memory.Store
	calls *[]string
}

func (o orderRunner) Run(ctx context.Context, fn func(repository.Store) error) error {
	return o.inner.Run(ctx, func(r repository.Store) error {
		r.Locations = orderLocations{LocationRepository: r.Locations, calls: o.calls}
		r.Stock = orderStock{StockRepository: r.Stock, calls: o.calls}
		return fn(r)
	})
}

type orderLocations struct {
	repository.LocationRepository
	calls *[]string
}

func (l orderLocations) Lock(ctx context.Context, ids ...int64) error {
	*l.calls = append(*l.calls, "lock")
	return l.LocationRepository.Lock(ctx, ids...)
}

type orderStock struct {
	repository.StockRepository
	calls *[]string
}

func (s orderStock) ListByLocation(ctx context.Context, id int64) ([]*entity.StockAssociation, error) {
	*s.calls = append(*s.calls, "stock")
	return s.StockRepository.ListByLocation(ctx, id)
}

func (s orderStock) CountByWarehouse(ctx context.Context, id int64) (int64, error) {
	*s.calls = append(*s.calls, "stock")
	return s.StockRepository.CountByWarehouse(ctx, id)
}

func (s orderStock) CountByEntity(ctx context.Context, id int64) (int64, error) {
	*s.calls = append(*s.calls, "stock")
	return s.StockRepository.CountByEntity(ctx, id)
}

// lockedBeforeStock verifica que hubo un bloqueo antes de la primera lectura de stock.
func lockedBeforeStock(t *testing.T, calls []string) {
	t.Helper()
	require.Contains(t, calls, "lock")
	require.Contains(t, calls, "stock")
	for _, c := range calls {
		if c == "stock" {
			t.Fatalf("stock leído antes de bloquear las ubicaciones: %v", calls)
		}
		if c == "lock" {
			return
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Entidades
// ──────────────────────────────────────────────────────────────────────────────

func TestEntity_NombreDuplicado(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	_, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = a.entities.Create(ctx, dto.CreateEntityRequest{Name: " Acme "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEntity_NombreSoloDigitosRechazado(t *testing.T) {
	a := newApp()
	_, err := a.entities.Create(context.Background(), dto.CreateEntityRequest{Name: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEntity_DeleteConDependientes(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)

	err := a.entities.Delete(ctx, entity.ByName("Acme"), false)
	assert.ErrorIs(t, err, domain.ErrHasDependents)

	a.putStock(t, sku.ID, loc.ID, 2)
	err = a.entities.Delete(ctx, entity.ByName("Acme"), true)
	assert.ErrorIs(t, err, domain.ErrHasInventory, "force nunca destruye stock")

	require.NoError(t, a.store.Run(ctx, func(r repository.Store) error {
		return r.Stock.Delete(ctx, sku.ID, loc.ID)
	}))
	require.NoError(t, a.entities.Delete(ctx, entity.ByName("Acme"), true))

	list, err := a.entities.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	whs, err := a.warehouses.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, whs, "la cascada borra las bodegas")
}

func TestEntity_DeleteSinDependientes(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	e, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: "Vacía"})
	require.NoError(t, err)

	require.NoError(t, a.entities.Delete(ctx, entity.ByID(e.ID), false))
	_, err = a.entities.Resolve(ctx, entity.ByID(e.ID))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bodegas y bodega activa
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouse_ResolucionAmbigua(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	for _, e := range []string{"Acme", "Globex"} {
		_, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: e})
		require.NoError(t, err)
		_, err = a.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Garage", Entity: e})
		require.NoError(t, err)
	}

	_, err := a.warehouses.Resolve(ctx, dto.WarehouseRef("Garage", ""))
	assert.ErrorIs(t, err, domain.ErrAmbiguousReference)

	w, err := a.warehouses.Resolve(ctx, dto.WarehouseRef("Garage", "Globex"))
	require.NoError(t, err)
	assert.Equal(t, "Globex", w.EntityName)
}

func TestWarehouse_DuplicadoEnMismaEntidad(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	_, err := a.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Garage", Entity: "Acme"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestWarehouse_RenombrarActivaMantieneSesion(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)

	_, err := a.warehouses.Activate(ctx, dto.WarehouseRef("Garage", ""))
	require.NoError(t, err)

	upd, err := a.warehouses.Update(ctx, dto.WarehouseRef("Garage", ""), dto.UpdateWarehouseRequest{Name: strPtr("Sótano")})
	require.NoError(t, err)
	assert.True(t, upd.Active)

	active, err := a.warehouses.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "Sótano", active.Name)

	name, ok, err := a.kv.Get(ctx, testActiveKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sótano", name)
}

func TestWarehouse_UpdateVacioEsInvalido(t *testing.T) {
	a := newApp()
	a.seed(t)
	_, err := a.warehouses.Update(context.Background(), dto.WarehouseRef("Garage", ""), dto.UpdateWarehouseRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWarehouse_ListMarcaActiva(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	_, err := a.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Ático", Entity: "Acme"})
	require.NoError(t, err)
	_, err = a.warehouses.Activate(ctx, dto.WarehouseRef("Ático", "Acme"))
	require.NoError(t, err)

	list, err := a.warehouses.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[0].Active)
	assert.True(t, list[1].Active)
	assert.Equal(t, "Acme", list[1].EntityName)
}

func TestWarehouse_DeletePolitica(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)
	_, err := a.warehouses.Activate(ctx, dto.WarehouseRef("Garage", ""))
	require.NoError(t, err)

	err = a.warehouses.Delete(ctx, dto.WarehouseRef("Garage", ""), false)
	assert.ErrorIs(t, err, domain.ErrHasDependents)

	a.putStock(t, sku.ID, loc.ID, 1)
	err = a.warehouses.Delete(ctx, dto.WarehouseRef("Garage", ""), true)
	assert.ErrorIs(t, err, domain.ErrHasInventory)

	require.NoError(t, a.store.Run(ctx, func(r repository.Store) error {
		return r.Stock.Delete(ctx, sku.ID, loc.ID)
	}))
	require.NoError(t, a.warehouses.Delete(ctx, dto.WarehouseRef("Garage", ""), true))

	active, err := a.warehouses.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active, "borrar la bodega activa la desactiva")
	_, err = a.locations.Resolve(ctx, entity.LocationRef{Location: entity.ByID(loc.ID)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestLocation_SinBodegaActiva(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	_, err := a.locations.Create(ctx, dto.CreateLocationRequest{Label: "HG-2"})
	assert.ErrorIs(t, err, domain.ErrNoActiveWarehouse)

	_, err = a.warehouses.Activate(ctx, dto.WarehouseRef("Garage", "Acme"))
	require.NoError(t, err)
	loc, err := a.locations.Create(ctx, dto.CreateLocationRequest{Label: "HG-2"})
	require.NoError(t, err)
	assert.Equal(t, "Garage", loc.WarehouseName)
	assert.Equal(t, "Acme", loc.EntityName)
}

// Indicar solo la entidad no puede caer en silencio en la bodega activa de otra entidad.
func TestLocation_EntidadDistintaDeLaBodegaActiva(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	_, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: "Globex"})
	require.NoError(t, err)
	_, err = a.warehouses.Activate(ctx, dto.WarehouseRef("Garage", "Acme"))
	require.NoError(t, err)

	_, err = a.locations.Create(ctx, dto.CreateLocationRequest{Label: "X-1", Entity: "Globex"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "warehouse", verr.Field)

	list, err := a.locations.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1, "no se creó nada")

	loc, err := a.locations.Create(ctx, dto.CreateLocationRequest{Label: "X-1", Entity: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", loc.EntityName)
}

func TestLocation_ListPorEntidad(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	_, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: "Globex"})
	require.NoError(t, err)
	_, err = a.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Depot", Entity: "Globex"})
	require.NoError(t, err)
	_, err = a.locations.Create(ctx, dto.CreateLocationRequest{Label: "D-1", Warehouse: "Depot"})
	require.NoError(t, err)

	list, err := a.locations.List(ctx, dto.OptionalWarehouseRef("", "Globex"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "D-1", list[0].Label)
}

func TestLocation_EtiquetaDuplicada(t *testing.T) {
	a := newApp()
	a.seed(t)
	_, err := a.locations.Create(context.Background(), dto.CreateLocationRequest{Label: "HG-1", Warehouse: "Garage"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Escenario E: una ubicación con stock no se puede borrar.
func TestLocation_DeleteConStock(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)
	a.putStock(t, sku.ID, loc.ID, 3)

	ref := entity.LocationRef{Location: entity.ByID(loc.ID)}
	err := a.locations.Delete(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrHasInventory)

	got, err := a.locations.Resolve(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Total)
}

func TestLocation_UpdateMueveDeBodega(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)
	a.putStock(t, sku.ID, loc.ID, 4)
	_, err := a.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Ático", Entity: "Acme"})
	require.NoError(t, err)

	got, err := a.locations.Update(ctx, dto.LocationRef("HG-1", "Garage", ""), dto.UpdateLocationRequest{
		Label:     strPtr("AT-1"),
		Warehouse: strPtr("Ático"),
	})
	require.NoError(t, err)
	assert.Equal(t, loc.ID, got.ID)
	assert.Equal(t, "AT-1", got.Label)
	assert.Equal(t, "Ático", got.WarehouseName)
	assert.Equal(t, int64(4), got.Total, "el stock acompaña a la ubicación")
}

func TestLocation_ListConTotales(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)
	a.putStock(t, sku.ID, loc.ID, 7)
	_, err := a.locations.Create(ctx, dto.CreateLocationRequest{Label: "HG-2", Warehouse: "Garage"})
	require.NoError(t, err)

	ref := dto.WarehouseRef("Garage", "Acme")
	list, err := a.locations.List(ctx, &ref)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(7), list[0].Total)
	assert.Equal(t, int64(0), list[1].Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// SKUs y atributos
// ──────────────────────────────────────────────────────────────────────────────

func TestSku_UPCGlobalUnico(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	_, err := a.entities.Create(ctx, dto.CreateEntityRequest{Name: "Globex"})
	require.NoError(t, err)

	_, err = a.skus.Create(ctx, dto.CreateSkuRequest{Sku: "B2", UPC: "0001", Entity: "Globex"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = a.skus.Create(ctx, dto.CreateSkuRequest{Sku: "A1-W-L", Entity: "Globex"})
	assert.NoError(t, err, "el código solo es único dentro de la entidad")
}

func TestSku_FindByUPC(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	_, sku := a.seed(t)

	got, err := a.skus.FindByUPC(ctx, "0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sku.ID, got.ID)

	got, err = a.skus.FindByUPC(ctx, "9999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSku_ContenedorInexistente(t *testing.T) {
	a := newApp()
	a.seed(t)
	cid := int64(99)
	_, err := a.skus.Create(context.Background(), dto.CreateSkuRequest{Sku: "C3", Entity: "Acme", ContainerID: &cid})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSku_Atributos(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	a.seed(t)
	ref := dto.SkuRef("A1-W-L", "Acme")

	_, err := a.skus.AddAttribute(ctx, ref, dto.AttributeRequest{Key: "size", Value: "L"})
	require.NoError(t, err)
	_, err = a.skus.AddAttribute(ctx, ref, dto.AttributeRequest{Key: "color", Value: "white"})
	require.NoError(t, err)
	attrs, err := a.skus.AddAttribute(ctx, ref, dto.AttributeRequest{Key: "size", Value: "L"})
	require.NoError(t, err)
	require.Len(t, attrs, 2, "agregar dos veces no duplica")
	assert.Equal(t, "color", attrs[0].Key)
	assert.Equal(t, "size", attrs[1].Key)

	attrs, err = a.skus.RemoveAttribute(ctx, ref, dto.AttributeRequest{Key: "color", Value: "white"})
	require.NoError(t, err)
	require.Len(t, attrs, 1)

	_, err = a.skus.RemoveAttribute(ctx, ref, dto.AttributeRequest{Key: "color", Value: "black"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSku_ShowYLocations(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)
	loc2, err := a.locations.Create(ctx, dto.CreateLocationRequest{Label: "HG-2", Warehouse: "Garage"})
	require.NoError(t, err)
	a.putStock(t, sku.ID, loc.ID, 2)
	a.putStock(t, sku.ID, loc2.ID, 5)

	detail, err := a.skus.Show(ctx, entity.SkuRef{Sku: entity.ByID(sku.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.Total)
	require.Len(t, detail.Locations, 2)
	assert.Equal(t, "HG-1", detail.Locations[0].Label)
	assert.Equal(t, "Garage", detail.Locations[0].Warehouse)

	lines, err := a.skus.Locations(ctx, dto.SkuRef("A1-W-L", ""))
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestSku_DeleteConStock(t *testing.T) {
	a := newApp()
	ctx := context.Background()
	loc, sku := a.seed(t)
	a.putStock(t, sku.ID, loc.ID, 2)
	ref := dto.SkuRef("A1-W-L", "Acme")

	err := a.skus.Delete(ctx, ref, false)
	assert.ErrorIs(t, err, domain.ErrHasInventory)

	require.NoError(t, a.skus.Delete(ctx, ref, true))
	got, err := a.locations.Resolve(ctx, entity.LocationRef{Location: entity.ByID(loc.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contenedores
// ──────────────────────────────────────────────────────────────────────────────

func TestContainer_JerarquiaYCiclo(t *testing.T) {
	a := newApp()
	ctx := context.Background()

	pallet, err := a.containers.Create(ctx, dto.CreateContainerRequest{Name: "Pallet"})
	require.NoError(t, err)
	assert.True(t, pallet.Root)
	assert.Equal(t, pallet.ID, pallet.ParentID)
	assert.Equal(t, 0, pallet.Depth)

	box, err := a.containers.Create(ctx, dto.CreateContainerRequest{Name: "Caja", ParentID: &pallet.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, box.Depth)
	bag, err := a.containers.Create(ctx, dto.CreateContainerRequest{Name: "Bolsa", ParentID: &box.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, bag.Depth)

	_, err = a.containers.Move(ctx, pallet.ID, dto.MoveContainerRequest{ParentID: bag.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mover la raíz bajo su nieto crea un ciclo")

	moved, err := a.containers.Move(ctx, box.ID, dto.MoveContainerRequest{ParentID: box.ID})
	require.NoError(t, err)
	assert.True(t, moved.Root)

	list, err := a.containers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 1, list[2].Depth, "la bolsa queda a un salto de la nueva raíz")
}

func TestContainer_PadreInexistente(t *testing.T) {
	a := newApp()
	parent := int64(42)
	_, err := a.containers.Create(context.Background(), dto.CreateContainerRequest{Name: "Caja", ParentID: &parent})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bloqueos al borrar
// ──────────────────────────────────────────────────────────────────────────────

// Un borrado bloquea las ubicaciones antes de comprobar que están vacías; si no, un escaneo
// concurrente podría confirmar stock que el DELETE en cascada destruiría.
func TestDelete_BloqueaUbicacionesAntesDeLeerStock(t *testing.T) {
	ctx := context.Background()

	t.Run("ubicación", func(t *testing.T) {
		a := newApp()
		loc, _ := a.seed(t)
		var calls []string
		uc := usecase.NewLocationUseCase(orderRunner{a.store, &calls}, session.NewActiveWarehouse(a.kv, testActiveKey, logger.Nop()), logger.Nop())

		require.NoError(t, uc.Delete(ctx, entity.LocationRef{Location: entity.ByID(loc.ID)}))
		lockedBeforeStock(t, calls)
	})

	t.Run("bodega con force", func(t *testing.T) {
		a := newApp()
		a.seed(t)
		var calls []string
		uc := usecase.NewWarehouseUseCase(orderRunner{a.store, &calls}, session.NewActiveWarehouse(a.kv, testActiveKey, logger.Nop()), logger.Nop())

		require.NoError(t, uc.Delete(ctx, dto.WarehouseRef("Garage", "Acme"), true))
		lockedBeforeStock(t, calls)
	})

	t.Run("entidad con force", func(t *testing.T) {
		a := newApp()
		a.seed(t)
		var calls []string
		uc := usecase.NewEntityUseCase(orderRunner{a.store, &calls}, logger.Nop())

		require.NoError(t, uc.Delete(ctx, entity.ByName("Acme"), true))
		lockedBeforeStock(t, calls)
	})
}
