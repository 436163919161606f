package repository

import (
	"context"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	// ListByName devuelve todas las bodegas con ese nombre (una por entidad como máximo).
	ListByName(ctx context.Context, name string) ([]*entity.Warehouse, error)
	GetByNameAndEntity(ctx context.Context, name string, entityID int64) (*entity.Warehouse, error)
	// List lista bodegas; entityID nil = todas.
	List(ctx context.Context, entityID *int64) ([]*entity.Warehouse, error)
	Update(ctx context.Context, w *entity.Warehouse) error
	Delete(ctx context.Context, id int64) error
}
