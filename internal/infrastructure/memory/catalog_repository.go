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
	_ repository.SkuRepository       = skuRepo{}
	_ repository.AttributeRepository = attributeRepo{}
	_ repository.ContainerRepository = containerRepo{}
)

type skuRepo struct{ *txState }

func (r skuRepo) Create(_ context.Context, s *entity.ProductSku) error {
	if _, ok := r.st.entities[s.EntityID]; !ok {
		return fmt.Errorf("entidad #%d: %w", s.EntityID, domain.ErrNotFound)
	}
	if s.ContainerID != nil {
		if _, ok := r.st.containers[*s.ContainerID]; !ok {
			return fmt.Errorf("contenedor #%d: %w", *s.ContainerID, domain.ErrNotFound)
		}
	}
	for _, x := range r.st.skus {
		if x.Sku == s.Sku && x.EntityID == s.EntityID {
			return fmt.Errorf("sku %q: %w", s.Sku, domain.ErrDuplicate)
		}
		if s.UPC != nil && x.UPC != nil && *x.UPC == *s.UPC {
			return fmt.Errorf("upc %q: %w", *s.UPC, domain.ErrDuplicate)
		}
	}
	s.ID = r.st.next("product_skus")
	s.CreatedAt, s.UpdatedAt = r.now, r.now
	r.st.skus[s.ID] = *cloneSku(*s)
	return nil
}

func (r skuRepo) GetByID(_ context.Context, id int64) (*entity.ProductSku, error) {
	s, ok := r.st.skus[id]
	if !ok {
		return nil, nil
	}
	return cloneSku(s), nil
}

func (r skuRepo) GetByUPC(_ context.Context, upc string) (*entity.ProductSku, error) {
	list := r.filter(func(s entity.ProductSku) bool { return s.UPC != nil && *s.UPC == upc })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r skuRepo) ListBySku(_ context.Context, sku string) ([]*entity.ProductSku, error) {
	return r.filter(func(s entity.ProductSku) bool { return s.Sku == sku }), nil
}

func (r skuRepo) GetBySkuAndEntity(_ context.Context, sku string, entityID int64) (*entity.ProductSku, error) {
	list := r.filter(func(s entity.ProductSku) bool { return s.Sku == sku && s.EntityID == entityID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r skuRepo) List(_ context.Context, entityID *int64) ([]*entity.ProductSku, error) {
	return r.filter(func(s entity.ProductSku) bool { return entityID == nil || s.EntityID == *entityID }), nil
}

func (r skuRepo) filter(keep func(entity.ProductSku) bool) []*entity.ProductSku {
	var list []*entity.ProductSku
	for _, s := range r.st.skus {
		if keep(s) {
			list = append(list, cloneSku(s))
		}
	}
	slices.SortFunc(list, func(a, b *entity.ProductSku) int { return cmp.Compare(a.ID, b.ID) })
	return list
}

func (r skuRepo) Delete(_ context.Context, id int64) error {
	r.deleteSku(id)
	return nil
}

func (r skuRepo) DeleteByEntity(_ context.Context, entityID int64) error {
	for id, s := range r.st.skus {
		if s.EntityID == entityID {
			r.deleteSku(id)
		}
	}
	return nil
}

type attributeRepo struct{ *txState }

func (r attributeRepo) FindOrCreate(ctx context.Context, entityID int64, key, value string) (*entity.SkuAttribute, error) {
	if a, _ := r.Get(ctx, entityID, key, value); a != nil {
		return a, nil
	}
	if _, ok := r.st.entities[entityID]; !ok {
		return nil, fmt.Errorf("entidad #%d: %w", entityID, domain.ErrNotFound)
	}
	a := entity.SkuAttribute{
		ID:        r.st.next("sku_attrs"),
		EntityID:  entityID,
		Key:       key,
		Value:     value,
		CreatedAt: r.now,
		UpdatedAt: r.now,
	}
	r.st.attributes[a.ID] = a
	return &a, nil
}

func (r attributeRepo) Get(_ context.Context, entityID int64, key, value string) (*entity.SkuAttribute, error) {
	for _, a := range r.st.attributes {
		if a.EntityID == entityID && a.Key == key && a.Value == value {
			return &a, nil
		}
	}
	return nil, nil
}

func (r attributeRepo) Link(_ context.Context, skuID, attributeID int64) error {
	if _, ok := r.st.skus[skuID]; !ok {
		return fmt.Errorf("sku #%d: %w", skuID, domain.ErrNotFound)
	}
	if _, ok := r.st.attributes[attributeID]; !ok {
		return fmt.Errorf("atributo #%d: %w", attributeID, domain.ErrNotFound)
	}
	r.st.links[linkKey{skuID, attributeID}] = struct{}{}
	return nil
}

func (r attributeRepo) Unlink(_ context.Context, skuID, attributeID int64) error {
	delete(r.st.links, linkKey{skuID, attributeID})
	return nil
}

func (r attributeRepo) ListBySku(_ context.Context, skuID int64) ([]*entity.SkuAttribute, error) {
	var list []*entity.SkuAttribute
	for k := range r.st.links {
		if k.sku == skuID {
			a := r.st.attributes[k.attr]
			list = append(list, &a)
		}
	}
	slices.SortFunc(list, func(a, b *entity.SkuAttribute) int {
		return cmp.Or(cmp.Compare(a.Key, b.Key), cmp.Compare(a.Value, b.Value))
	})
	return list, nil
}

func (r attributeRepo) DeleteByEntity(_ context.Context, entityID int64) error {
	for id, a := range r.st.attributes {
		if a.EntityID == entityID {
			r.deleteAttribute(id)
		}
	}
	return nil
}

type containerRepo struct{ *txState }

// Create persiste el contenedor; ParentID == 0 lo crea como raíz (su propio padre).
func (r containerRepo) Create(_ context.Context, c *entity.Container) error {
	if c.ParentID != 0 {
		if _, ok := r.st.containers[c.ParentID]; !ok {
			return fmt.Errorf("contenedor padre #%d: %w", c.ParentID, domain.ErrNotFound)
		}
	}
	c.ID = r.st.next("containers")
	if c.ParentID == 0 {
		c.ParentID = c.ID
	}
	c.CreatedAt, c.UpdatedAt = r.now, r.now
	r.st.containers[c.ID] = *c
	return nil
}

func (r containerRepo) GetByID(_ context.Context, id int64) (*entity.Container, error) {
	c, ok := r.st.containers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r containerRepo) List(_ context.Context) ([]*entity.Container, error) {
	list := make([]*entity.Container, 0, len(r.st.containers))
	for _, c := range r.st.containers {
		list = append(list, &c)
	}
	slices.SortFunc(list, func(a, b *entity.Container) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (r containerRepo) UpdateParent(_ context.Context, id, parentID int64) error {
	c, ok := r.st.containers[id]
	if !ok {
		return fmt.Errorf("contenedor #%d: %w", id, domain.ErrNotFound)
	}
	if _, ok := r.st.containers[parentID]; !ok {
		return fmt.Errorf("contenedor padre #%d: %w", parentID, domain.ErrNotFound)
	}
	c.ParentID, c.UpdatedAt = parentID, r.now
	r.st.containers[id] = c
	return nil
}
