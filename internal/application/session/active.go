// Package session recuerda la bodega activa para que los comandos puedan omitirla.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/application/resolver"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// ActiveWarehouse guarda en la caché el nombre de la bodega activa bajo key y su id bajo key+":id".
// El id hace que un renombrado no rompa la referencia; el nombre es el valor legible.
type ActiveWarehouse struct {
	kv  ports.KeyValueStore
	key string
	log *logger.Logger
}

// NewActiveWarehouse construye la sesión sobre una caché y una clave fija.
func NewActiveWarehouse(kv ports.KeyValueStore, key string, log *logger.Logger) *ActiveWarehouse {
	if log == nil {
		log = logger.Nop()
	}
	return &ActiveWarehouse{kv: kv, key: key, log: log.Named("session")}
}

func (a *ActiveWarehouse) idKey() string { return a.key + ":id" }

// Activate resuelve la bodega, limpia la anterior y guarda la nueva.
func (a *ActiveWarehouse) Activate(ctx context.Context, r repository.Store, ref entity.WarehouseRef) (*entity.Warehouse, error) {
	w, err := resolver.Warehouse(ctx, r, ref)
	if err != nil {
		return nil, err
	}
	if err := a.kv.Delete(ctx, a.key, a.idKey()); err != nil {
		return nil, err
	}
	if err := a.Remember(ctx, w); err != nil {
		return nil, err
	}
	a.log.Info().Int64("warehouse_id", w.ID).Str("warehouse", w.Name).Msg("bodega activada")
	return w, nil
}

// Remember sobrescribe la caché con w (la última escritura gana).
func (a *ActiveWarehouse) Remember(ctx context.Context, w *entity.Warehouse) error {
	if err := a.kv.Set(ctx, a.key, w.Name); err != nil {
		return err
	}
	return a.kv.Set(ctx, a.idKey(), strconv.FormatInt(w.ID, 10))
}

// Deactivate borra la bodega activa. Sin bodega activa solo registra un aviso.
func (a *ActiveWarehouse) Deactivate(ctx context.Context) error {
	_, hasName, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return err
	}
	_, hasID, err := a.kv.Get(ctx, a.idKey())
	if err != nil {
		return err
	}
	if !hasName && !hasID {
		a.log.Warn().Msg("no hay bodega activa")
		return nil
	}
	if err := a.kv.Delete(ctx, a.key, a.idKey()); err != nil {
		return err
	}
	a.log.Info().Msg("bodega desactivada")
	return nil
}

// Get devuelve la bodega activa o nil. Resuelve primero por id y, si la caché solo tiene
// nombre o el id ya no existe, por nombre.
func (a *ActiveWarehouse) Get(ctx context.Context, r repository.Store) (*entity.Warehouse, error) {
	rawID, hasID, err := a.kv.Get(ctx, a.idKey())
	if err != nil {
		return nil, err
	}
	if hasID {
		if id, perr := strconv.ParseInt(rawID, 10, 64); perr == nil {
			w, err := r.Warehouses.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if w != nil {
				return w, nil
			}
		}
		a.log.Warn().Str("cached_id", rawID).Msg("id de bodega activa obsoleto")
	}

	name, hasName, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, err
	}
	if !hasName {
		return nil, nil
	}
	w, err := resolver.Warehouse(ctx, r, entity.WarehouseRef{Warehouse: entity.ByName(name)})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.log.Warn().Str("cached_name", name).Msg("la bodega activa ya no existe")
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

// Warehouse devuelve la bodega indicada o, si ref es nil o no nombra bodega, la activa.
// Si ref trae solo la entidad, la bodega activa debe pertenecer a ella.
// Sin bodega indicada ni activa devuelve ErrNoActiveWarehouse.
func (a *ActiveWarehouse) Warehouse(ctx context.Context, r repository.Store, ref *entity.WarehouseRef) (*entity.Warehouse, error) {
	if ref != nil && !ref.Warehouse.IsZero() {
		return resolver.Warehouse(ctx, r, *ref)
	}
	w, err := a.Get(ctx, r)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNoActiveWarehouse
	}
	if ref != nil && ref.Entity != nil {
		e, err := resolver.Entity(ctx, r, *ref.Entity)
		if err != nil {
			return nil, err
		}
		if e.ID != w.EntityID {
			return nil, domain.NewValidationError("warehouse",
				fmt.Sprintf("la bodega activa %q no pertenece a la entidad %q; indique la bodega", w.Name, e.Name))
		}
	}
	return w, nil
}

// Location resuelve una ubicación. Por id va directo; por etiqueta se acota a la bodega
// indicada o a la activa.
func (a *ActiveWarehouse) Location(ctx context.Context, r repository.Store, ref entity.LocationRef) (*entity.Location, error) {
	if ref.Location.IsID() || (ref.Warehouse != nil && !ref.Warehouse.Warehouse.IsZero()) {
		return resolver.Location(ctx, r, ref)
	}
	w, err := a.Warehouse(ctx, r, ref.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("ubicación %s: %w", ref.Location, err)
	}
	return resolver.Location(ctx, r, entity.LocationRef{
		Location:  ref.Location,
		Warehouse: &entity.WarehouseRef{Warehouse: entity.ByID(w.ID)},
	})
}
