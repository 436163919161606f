// Package resolver traduce referencias sueltas (id o nombre, con desambiguador opcional)
// a filas concretas, o las rechaza. Nunca elige en silencio entre varias coincidencias.
package resolver

import (
	"context"
	"fmt"

	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

// Entity resuelve una entidad por id o por nombre (único).
func Entity(ctx context.Context, r repository.Store, id entity.Identifier) (*entity.Entity, error) {
	if id.IsZero() {
		return nil, domain.NewValidationError("entity", "identificador requerido")
	}
	var (
		e   *entity.Entity
		err error
	)
	if id.IsID() {
		e, err = r.Entities.GetByID(ctx, id.ID())
	} else {
		e, err = r.Entities.GetByName(ctx, id.Name())
	}
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("entidad %s: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// Warehouse resuelve una bodega. Por id ignora la entidad. Por nombre, si varias entidades
// tienen una bodega con ese nombre y no se indicó entidad, devuelve ErrAmbiguousReference.
func Warehouse(ctx context.Context, r repository.Store, ref entity.WarehouseRef) (*entity.Warehouse, error) {
	id := ref.Warehouse
	if id.IsZero() {
		return nil, domain.NewValidationError("warehouse", "identificador requerido")
	}
	if id.IsID() {
		w, err := r.Warehouses.GetByID(ctx, id.ID())
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
		}
		return w, nil
	}

	if ref.Entity != nil {
		e, err := Entity(ctx, r, *ref.Entity)
		if err != nil {
			return nil, err
		}
		w, err := r.Warehouses.GetByNameAndEntity(ctx, id.Name(), e.ID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, fmt.Errorf("bodega %s en entidad %q: %w", id, e.Name, domain.ErrNotFound)
		}
		return w, nil
	}

	list, err := r.Warehouses.ListByName(ctx, id.Name())
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	case 1:
		return list[0], nil
	default:
		return nil, fmt.Errorf("%w: %d bodegas se llaman %s; indique la entidad", domain.ErrAmbiguousReference, len(list), id)
	}
}

// Location resuelve una ubicación con la bodega como desambiguador.
func Location(ctx context.Context, r repository.Store, ref entity.LocationRef) (*entity.Location, error) {
	id := ref.Location
	if id.IsZero() {
		return nil, domain.NewValidationError("location", "identificador requerido")
	}
	if id.IsID() {
		l, err := r.Locations.GetByID(ctx, id.ID())
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
		}
		return l, nil
	}

	if ref.Warehouse != nil {
		w, err := Warehouse(ctx, r, *ref.Warehouse)
		if err != nil {
			return nil, err
		}
		l, err := r.Locations.GetByLabelAndWarehouse(ctx, id.Name(), w.ID)
		if err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("ubicación %s en bodega %q: %w", id, w.Name, domain.ErrNotFound)
		}
		return l, nil
	}

	list, err := r.Locations.ListByLabel(ctx, id.Name())
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	case 1:
		return list[0], nil
	default:
		return nil, fmt.Errorf("%w: %d ubicaciones se llaman %s; indique la bodega", domain.ErrAmbiguousReference, len(list), id)
	}
}

// Sku resuelve un SKU por id o por código, con la entidad como desambiguador.
func Sku(ctx context.Context, r repository.Store, ref entity.SkuRef) (*entity.ProductSku, error) {
	id := ref.Sku
	if id.IsZero() {
		return nil, domain.NewValidationError("sku", "identificador requerido")
	}
	if id.IsID() {
		s, err := r.Skus.GetByID(ctx, id.ID())
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("sku %s: %w", id, domain.ErrNotFound)
		}
		return s, nil
	}

	if ref.Entity != nil {
		e, err := Entity(ctx, r, *ref.Entity)
		if err != nil {
			return nil, err
		}
		s, err := r.Skus.GetBySkuAndEntity(ctx, id.Name(), e.ID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("sku %s en entidad %q: %w", id, e.Name, domain.ErrNotFound)
		}
		return s, nil
	}

	list, err := r.Skus.ListBySku(ctx, id.Name())
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, fmt.Errorf("sku %s: %w", id, domain.ErrNotFound)
	case 1:
		return list[0], nil
	default:
		return nil, fmt.Errorf("%w: %d SKUs con código %s; indique la entidad", domain.ErrAmbiguousReference, len(list), id)
	}
}
