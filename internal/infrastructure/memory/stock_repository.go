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

var _ repository.StockRepository = stockRepo{}

type stockRepo struct{ *txState }

func (r stockRepo) checkRefs(skuID, locationID int64) error {
	if _, ok := r.st.skus[skuID]; !ok {
		return fmt.Errorf("sku #%d: %w", skuID, domain.ErrNotFound)
	}
	if _, ok := r.st.locations[locationID]; !ok {
		return fmt.Errorf("ubicación #%d: %w", locationID, domain.ErrNotFound)
	}
	return nil
}

func (r stockRepo) Get(_ context.Context, skuID, locationID int64) (*entity.StockAssociation, error) {
	s, ok := r.st.stock[stockKey{skuID, locationID}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r stockRepo) GetForUpdate(ctx context.Context, skuID, locationID int64) (*entity.StockAssociation, error) {
	return r.Get(ctx, skuID, locationID)
}

func (r stockRepo) Increment(_ context.Context, skuID, locationID, k int64) (int64, error) {
	if err := r.checkRefs(skuID, locationID); err != nil {
		return 0, err
	}
	key := stockKey{skuID, locationID}
	s, ok := r.st.stock[key]
	if !ok {
		s = entity.StockAssociation{SkuID: skuID, LocationID: locationID, CreatedAt: r.now}
	}
	if s.Quantity+k <= 0 {
		return 0, fmt.Errorf("stock (%d,%d): la cantidad debe ser positiva", skuID, locationID)
	}
	s.Quantity += k
	s.UpdatedAt = r.now
	r.st.stock[key] = s
	return s.Quantity, nil
}

func (r stockRepo) Put(_ context.Context, skuID, locationID, quantity int64) error {
	if err := r.checkRefs(skuID, locationID); err != nil {
		return err
	}
	if quantity <= 0 {
		return fmt.Errorf("stock (%d,%d): la cantidad debe ser positiva", skuID, locationID)
	}
	key := stockKey{skuID, locationID}
	s, ok := r.st.stock[key]
	if !ok {
		s = entity.StockAssociation{SkuID: skuID, LocationID: locationID, CreatedAt: r.now}
	}
	s.Quantity, s.UpdatedAt = quantity, r.now
	r.st.stock[key] = s
	return nil
}

func (r stockRepo) Delete(_ context.Context, skuID, locationID int64) error {
	delete(r.st.stock, stockKey{skuID, locationID})
	return nil
}

func (r stockRepo) filter(keep func(entity.StockAssociation) bool) []*entity.StockAssociation {
	var list []*entity.StockAssociation
	for _, s := range r.st.stock {
		if keep(s) {
			list = append(list, &s)
		}
	}
	slices.SortFunc(list, func(a, b *entity.StockAssociation) int {
		return cmp.Or(cmp.Compare(a.LocationID, b.LocationID), cmp.Compare(a.SkuID, b.SkuID))
	})
	return list
}

func (r stockRepo) ListByLocation(_ context.Context, locationID int64) ([]*entity.StockAssociation, error) {
	return r.filter(func(s entity.StockAssociation) bool { return s.LocationID == locationID }), nil
}

func (r stockRepo) ListBySku(_ context.Context, skuID int64) ([]*entity.StockAssociation, error) {
	return r.filter(func(s entity.StockAssociation) bool { return s.SkuID == skuID }), nil
}

func (r stockRepo) line(s *entity.StockAssociation) *entity.StockLine {
	sku := r.st.skus[s.SkuID]
	loc := r.st.locations[s.LocationID]
	return &entity.StockLine{
		StockAssociation: *s,
		Sku:              sku.Sku,
		UPC:              sku.UPCValue(),
		Label:            loc.Label,
		WarehouseName:    r.st.warehouses[loc.WarehouseID].Name,
	}
}

func (r stockRepo) LinesByLocation(ctx context.Context, locationID int64) ([]*entity.StockLine, error) {
	rows, _ := r.ListByLocation(ctx, locationID)
	lines := make([]*entity.StockLine, 0, len(rows))
	for _, s := range rows {
		lines = append(lines, r.line(s))
	}
	slices.SortFunc(lines, func(a, b *entity.StockLine) int { return cmp.Compare(a.Sku, b.Sku) })
	return lines, nil
}

func (r stockRepo) LinesBySku(ctx context.Context, skuID int64) ([]*entity.StockLine, error) {
	rows, _ := r.ListBySku(ctx, skuID)
	lines := make([]*entity.StockLine, 0, len(rows))
	for _, s := range rows {
		lines = append(lines, r.line(s))
	}
	slices.SortFunc(lines, func(a, b *entity.StockLine) int {
		return cmp.Or(cmp.Compare(a.WarehouseName, b.WarehouseName), cmp.Compare(a.Label, b.Label))
	})
	return lines, nil
}

func (r stockRepo) SumByLocation(_ context.Context, locationID int64) (int64, error) {
	var total int64
	for k, s := range r.st.stock {
		if k.loc == locationID {
			total += s.Quantity
		}
	}
	return total, nil
}

func (r stockRepo) CountByWarehouse(_ context.Context, warehouseID int64) (int64, error) {
	var n int64
	for k := range r.st.stock {
		if r.st.locations[k.loc].WarehouseID == warehouseID {
			n++
		}
	}
	return n, nil
}

// CountByEntity cuenta filas en bodegas de la entidad o de SKUs de la entidad.
func (r stockRepo) CountByEntity(_ context.Context, entityID int64) (int64, error) {
	var n int64
	for k := range r.st.stock {
		w := r.st.warehouses[r.st.locations[k.loc].WarehouseID]
		if w.EntityID == entityID || r.st.skus[k.sku].EntityID == entityID {
			n++
		}
	}
	return n, nil
}

func (r stockRepo) CountBySku(_ context.Context, skuID int64) (int64, error) {
	var n int64
	for k := range r.st.stock {
		if k.sku == skuID {
			n++
		}
	}
	return n, nil
}
