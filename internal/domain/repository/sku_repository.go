package repository

import (
	"context"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// SkuRepository define el puerto de persistencia para ProductSku (DIP).
type SkuRepository interface {
	Create(ctx context.Context, s *entity.ProductSku) error
	GetByID(ctx context.Context, id int64) (*entity.ProductSku, error)
	GetByUPC(ctx context.Context, upc string) (*entity.ProductSku, error)
	ListBySku(ctx context.Context, sku string) ([]*entity.ProductSku, error)
	GetBySkuAndEntity(ctx context.Context, sku string, entityID int64) (*entity.ProductSku, error)
	// List lista SKUs; entityID nil = todos.
	List(ctx context.Context, entityID *int64) ([]*entity.ProductSku, error)
	Delete(ctx context.Context, id int64) error
	DeleteByEntity(ctx context.Context, entityID int64) error
}

// AttributeRepository define el puerto para SkuAttribute y su asociación con SKUs.
type AttributeRepository interface {
	// FindOrCreate devuelve el atributo (entidad, key, value), creándolo si no existe.
	FindOrCreate(ctx context.Context, entityID int64, key, value string) (*entity.SkuAttribute, error)
	Get(ctx context.Context, entityID int64, key, value string) (*entity.SkuAttribute, error)
	Link(ctx context.Context, skuID, attributeID int64) error
	Unlink(ctx context.Context, skuID, attributeID int64) error
	ListBySku(ctx context.Context, skuID int64) ([]*entity.SkuAttribute, error)
	DeleteByEntity(ctx context.Context, entityID int64) error
}

// ContainerRepository define el puerto para Container. Un contenedor sin padre se persiste como raíz.
type ContainerRepository interface {
	Create(ctx context.Context, c *entity.Container) error
	GetByID(ctx context.Context, id int64) (*entity.Container, error)
	List(ctx context.Context) ([]*entity.Container, error)
	UpdateParent(ctx context.Context, id, parentID int64) error
}
