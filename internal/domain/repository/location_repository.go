package repository

import (
	"context"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para InventoryLocation (DIP).
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id int64) (*entity.Location, error)
	ListByLabel(ctx context.Context, label string) ([]*entity.Location, error)
	GetByLabelAndWarehouse(ctx context.Context, label string, warehouseID int64) (*entity.Location, error)
	// ListSummaries lista ubicaciones con bodega, entidad y total; warehouseID nil = todas.
	ListSummaries(ctx context.Context, warehouseID *int64) ([]*entity.LocationSummary, error)
	CountByWarehouse(ctx context.Context, warehouseID int64) (int64, error)
	// Lock bloquea las ubicaciones (SELECT ... FOR UPDATE) en orden ascendente de id.
	Lock(ctx context.Context, ids ...int64) error
	Update(ctx context.Context, l *entity.Location) error
	Delete(ctx context.Context, id int64) error
	DeleteByWarehouse(ctx context.Context, warehouseID int64) error
}
