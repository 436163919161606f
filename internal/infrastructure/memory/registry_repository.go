package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var (
	_ repository.EntityRepository    = entityRepo{}
	_ repository.WarehouseRepository = warehouseRepo{}
	_ repository.LocationRepository  = locationRepo{}
)

type entityRepo struct{ *txState }

func (r entityRepo) Create(_ context.Context, e *entity.Entity) error {
	for _, x := range r.st.entities {
		if x.Name == e.Name {
			return fmt.Errorf("entidad %q: %w", e.Name, domain.ErrDuplicate)
		}
	}
	e.ID = r.st.next("entities")
	e.CreatedAt, e.UpdatedAt = r.now, r.now
	r.st.entities[e.ID] = *e
	return nil
}

func (r entityRepo) GetByID(_ context.Context, id int64) (*entity.Entity, error) {
	e, ok := r.st.entities[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r entityRepo) GetByName(_ context.Context, name string) (*entity.Entity, error) {
	for _, e := range r.st.entities {
		if e.Name == name {
			return &e, nil
		}
	}
	return nil, nil
}

func (r entityRepo) List(_ context.Context) ([]*entity.Entity, error) {
	list := make([]*entity.Entity, 0, len(r.st.entities))
	for _, e := range r.st.entities {
		list = append(list, &e)
	}
	slices.SortFunc(list, func(a, b *entity.Entity) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (r entityRepo) Delete(_ context.Context, id int64) error {
	for wid, w := range r.st.warehouses {
		if w.EntityID == id {
			r.deleteWarehouse(wid)
		}
	}
	for sid, s := range r.st.skus {
		if s.EntityID == id {
			r.deleteSku(sid)
		}
	}
	for aid, a := range r.st.attributes {
		if a.EntityID == id {
			r.deleteAttribute(aid)
		}
	}
	delete(r.st.entities, id)
	return nil
}

type warehouseRepo struct{ *txState }

func (r warehouseRepo) checkUnique(w *entity.Warehouse) error {
	if _, ok := r.st.entities[w.EntityID]; !ok {
		return fmt.Errorf("entidad #%d: %w", w.EntityID, domain.ErrNotFound)
	}
	for _, x := range r.st.warehouses {
		if x.ID != w.ID && x.Name == w.Name && x.EntityID == w.EntityID {
			return fmt.Errorf("bodega %q: %w", w.Name, domain.ErrDuplicate)
		}
	}
	return nil
}

func (r warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	if err := r.checkUnique(w); err != nil {
		return err
	}
	w.ID = r.st.next("warehouses")
	w.CreatedAt, w.UpdatedAt = r.now, r.now
	r.st.warehouses[w.ID] = *w
	return nil
}

func (r warehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r warehouseRepo) ListByName(_ context.Context, name string) ([]*entity.Warehouse, error) {
	return r.filter(func(w entity.Warehouse) bool { return w.Name == name }), nil
}

func (r warehouseRepo) GetByNameAndEntity(_ context.Context, name string, entityID int64) (*entity.Warehouse, error) {
	list := r.filter(func(w entity.Warehouse) bool { return w.Name == name && w.EntityID == entityID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r warehouseRepo) List(_ context.Context, entityID *int64) ([]*entity.Warehouse, error) {
	return r.filter(func(w entity.Warehouse) bool { return entityID == nil || w.EntityID == *entityID }), nil
}

func (r warehouseRepo) filter(keep func(entity.Warehouse) bool) []*entity.Warehouse {
	var list []*entity.Warehouse
	for _, w := range r.st.warehouses {
		if keep(w) {
			list = append(list, &w)
		}
	}
	slices.SortFunc(list, func(a, b *entity.Warehouse) int { return cmp.Compare(a.ID, b.ID) })
	return list
}

func (r warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	cur, ok := r.st.warehouses[w.ID]
	if !ok {
		return fmt.Errorf("bodega #%d: %w", w.ID, domain.ErrNotFound)
	}
	if err := r.checkUnique(w); err != nil {
		return err
	}
	w.CreatedAt, w.UpdatedAt = cur.CreatedAt, r.now
	r.st.warehouses[w.ID] = *w
	return nil
}

func (r warehouseRepo) Delete(_ context.Context, id int64) error {
	r.deleteWarehouse(id)
	return nil
}

type locationRepo struct{ *txState }

func (r locationRepo) checkUnique(l *entity.Location) error {
	if _, ok := r.st.warehouses[l.WarehouseID]; !ok {
		return fmt.Errorf("bodega #%d: %w", l.WarehouseID, domain.ErrNotFound)
	}
	for _, x := range r.st.locations {
		if x.ID != l.ID && x.Label == l.Label && x.WarehouseID == l.WarehouseID {
			return fmt.Errorf("ubicación %q: %w", l.Label, domain.ErrDuplicate)
		}
	}
	return nil
}

func (r locationRepo) Create(_ context.Context, l *entity.Location) error {
	if err := r.checkUnique(l); err != nil {
		return err
	}
	l.ID = r.st.next("inventory_locations")
	l.CreatedAt, l.UpdatedAt = r.now, r.now
	r.st.locations[l.ID] = *l
	return nil
}

func (r locationRepo) GetByID(_ context.Context, id int64) (*entity.Location, error) {
	l, ok := r.st.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r locationRepo) ListByLabel(_ context.Context, label string) ([]*entity.Location, error) {
	return r.filter(func(l entity.Location) bool { return l.Label == label }), nil
}

func (r locationRepo) GetByLabelAndWarehouse(_ context.Context, label string, warehouseID int64) (*entity.Location, error) {
	list := r.filter(func(l entity.Location) bool { return l.Label == label && l.WarehouseID == warehouseID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r locationRepo) filter(keep func(entity.Location) bool) []*entity.Location {
	var list []*entity.Location
	for _, l := range r.st.locations {
		if keep(l) {
			list = append(list, &l)
		}
	}
	slices.SortFunc(list, func(a, b *entity.Location) int { return cmp.Compare(a.ID, b.ID) })
	return list
}

func (r locationRepo) ListSummaries(_ context.Context, warehouseID *int64) ([]*entity.LocationSummary, error) {
	locs := r.filter(func(l entity.Location) bool { return warehouseID == nil || l.WarehouseID == *warehouseID })
	list := make([]*entity.LocationSummary, 0, len(locs))
	for _, l := range locs {
		w := r.st.warehouses[l.WarehouseID]
		sum := &entity.LocationSummary{
			Location:      *l,
			WarehouseName: w.Name,
			EntityName:    r.st.entities[w.EntityID].Name,
		}
		for k, s := range r.st.stock {
			if k.loc == l.ID {
				sum.Total += s.Quantity
			}
		}
		list = append(list, sum)
	}
	return list, nil
}

func (r locationRepo) CountByWarehouse(_ context.Context, warehouseID int64) (int64, error) {
	return int64(len(r.filter(func(l entity.Location) bool { return l.WarehouseID == warehouseID }))), nil
}

// Lock no hace nada: el mutex del Store ya serializa las transacciones.
func (r locationRepo) Lock(_ context.Context, ids ...int64) error {
	for _, id := range ids {
		if _, ok := r.st.locations[id]; !ok {
			return fmt.Errorf("ubicación #%d: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

func (r locationRepo) Update(_ context.Context, l *entity.Location) error {
	cur, ok := r.st.locations[l.ID]
	if !ok {
		return fmt.Errorf("ubicación #%d: %w", l.ID, domain.ErrNotFound)
	}
	if err := r.checkUnique(l); err != nil {
		return err
	}
	l.CreatedAt, l.UpdatedAt = cur.CreatedAt, r.now
	r.st.locations[l.ID] = *l
	return nil
}

func (r locationRepo) Delete(_ context.Context, id int64) error {
	r.deleteLocation(id)
	return nil
}

func (r locationRepo) DeleteByWarehouse(_ context.Context, warehouseID int64) error {
	for id, l := range r.st.locations {
		if l.WarehouseID == warehouseID {
			r.deleteLocation(id)
		}
	}
	return nil
}
