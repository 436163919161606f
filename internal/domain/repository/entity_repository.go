package repository

import (
	"context"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// EntityRepository define el puerto de persistencia para Entity (DIP).
// Los Get* devuelven (nil, nil) cuando la fila no existe.
type EntityRepository interface {
	Create(ctx context.Context, e *entity.Entity) error
	GetByID(ctx context.Context, id int64) (*entity.Entity, error)
	GetByName(ctx context.Context, name string) (*entity.Entity, error)
	List(ctx context.Context) ([]*entity.Entity, error)
	Delete(ctx context.Context, id int64) error
}
