package repository

import (
	"context"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// StockRepository define el puerto del libro de stock por (SKU, ubicación).
// Usado dentro de transacciones para garantizar consistencia. Nunca persiste cantidades <= 0.
type StockRepository interface {
	// Get devuelve (nil, nil) si no hay fila.
	Get(ctx context.Context, skuID, locationID int64) (*entity.StockAssociation, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, skuID, locationID int64) (*entity.StockAssociation, error)
	// Increment suma k (> 0) creando la fila si no existe y devuelve la nueva cantidad.
	Increment(ctx context.Context, skuID, locationID, k int64) (int64, error)
	// Put fija la cantidad exacta (> 0) creando la fila si no existe.
	Put(ctx context.Context, skuID, locationID, quantity int64) error
	Delete(ctx context.Context, skuID, locationID int64) error
	ListByLocation(ctx context.Context, locationID int64) ([]*entity.StockAssociation, error)
	ListBySku(ctx context.Context, skuID int64) ([]*entity.StockAssociation, error)
	LinesByLocation(ctx context.Context, locationID int64) ([]*entity.StockLine, error)
	LinesBySku(ctx context.Context, skuID int64) ([]*entity.StockLine, error)
	// Totales calculados; nunca se almacenan.
	SumByLocation(ctx context.Context, locationID int64) (int64, error)
	CountByWarehouse(ctx context.Context, warehouseID int64) (int64, error)
	CountByEntity(ctx context.Context, entityID int64) (int64, error)
	CountBySku(ctx context.Context, skuID int64) (int64, error)
}
