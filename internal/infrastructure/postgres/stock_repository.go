package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `sku_id, location_id, quantity, created_at, updated_at`

func scanStock(row pgx.Row) (*entity.StockAssociation, error) {
	var s entity.StockAssociation
	if err := row.Scan(&s.SkuID, &s.LocationID, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) getOne(ctx context.Context, query string, skuID, locationID int64) (*entity.StockAssociation, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, skuID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// Get obtiene la fila (sku, ubicación); nil si no hay stock.
func (r *StockRepo) Get(ctx context.Context, skuID, locationID int64) (*entity.StockAssociation, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_associations WHERE sku_id = $1 AND location_id = $2`
	return r.getOne(ctx, query, skuID, locationID)
}

// GetForUpdate obtiene la fila y la bloquea para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, skuID, locationID int64) (*entity.StockAssociation, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_associations WHERE sku_id = $1 AND location_id = $2 FOR UPDATE`
	return r.getOne(ctx, query, skuID, locationID)
}

// Increment suma k de forma atómica (INSERT ... ON CONFLICT) y devuelve la cantidad resultante.
func (r *StockRepo) Increment(ctx context.Context, skuID, locationID, k int64) (int64, error) {
	query := `
		INSERT INTO stock_associations (sku_id, location_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (sku_id, location_id)
		DO UPDATE SET quantity = stock_associations.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`
	var q int64
	if err := r.q.QueryRow(ctx, query, skuID, locationID, k).Scan(&q); err != nil {
		return 0, mapWriteErr("increment stock", fmt.Sprintf("stock (%d,%d)", skuID, locationID), err)
	}
	return q, nil
}

// Put fija la cantidad exacta, creando la fila si no existe.
func (r *StockRepo) Put(ctx context.Context, skuID, locationID, quantity int64) error {
	query := `
		INSERT INTO stock_associations (sku_id, location_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (sku_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, skuID, locationID, quantity); err != nil {
		return mapWriteErr("put stock", fmt.Sprintf("stock (%d,%d)", skuID, locationID), err)
	}
	return nil
}

// Delete elimina la fila; una cantidad que llega a cero nunca se guarda.
func (r *StockRepo) Delete(ctx context.Context, skuID, locationID int64) error {
	query := `DELETE FROM stock_associations WHERE sku_id = $1 AND location_id = $2`
	if _, err := r.q.Exec(ctx, query, skuID, locationID); err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

func (r *StockRepo) list(ctx context.Context, query string, arg int64) ([]*entity.StockAssociation, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAssociation
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ListByLocation lista las filas de una ubicación.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID int64) ([]*entity.StockAssociation, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_associations WHERE location_id = $1 ORDER BY location_id, sku_id`
	return r.list(ctx, query, locationID)
}

// ListBySku lista las filas de un SKU en todas las ubicaciones.
func (r *StockRepo) ListBySku(ctx context.Context, skuID int64) ([]*entity.StockAssociation, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_associations WHERE sku_id = $1 ORDER BY location_id, sku_id`
	return r.list(ctx, query, skuID)
}

const lineQuery = `
	SELECT s.sku_id, s.location_id, s.quantity, s.created_at, s.updated_at,
	       p.sku, COALESCE(p.upc, ''), l.label, w.name
	FROM stock_associations s
	JOIN product_skus p ON p.id = s.sku_id
	JOIN inventory_locations l ON l.id = s.location_id
	JOIN warehouses w ON w.id = l.warehouse_id`

func (r *StockRepo) lines(ctx context.Context, query string, arg int64) ([]*entity.StockLine, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLine
	for rows.Next() {
		var l entity.StockLine
		if err := rows.Scan(
			&l.SkuID, &l.LocationID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
			&l.Sku, &l.UPC, &l.Label, &l.WarehouseName,
		); err != nil {
			return nil, fmt.Errorf("scan stock line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// LinesByLocation lista el contenido de una ubicación ordenado por código de SKU.
func (r *StockRepo) LinesByLocation(ctx context.Context, locationID int64) ([]*entity.StockLine, error) {
	return r.lines(ctx, lineQuery+` WHERE s.location_id = $1 ORDER BY p.sku`, locationID)
}

// LinesBySku lista dónde está un SKU ordenado por bodega y etiqueta.
func (r *StockRepo) LinesBySku(ctx context.Context, skuID int64) ([]*entity.StockLine, error) {
	return r.lines(ctx, lineQuery+` WHERE s.sku_id = $1 ORDER BY w.name, l.label`, skuID)
}

func (r *StockRepo) scalar(ctx context.Context, op, query string, arg int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, query, arg).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// SumByLocation total de unidades en la ubicación (calculado, nunca almacenado).
func (r *StockRepo) SumByLocation(ctx context.Context, locationID int64) (int64, error) {
	return r.scalar(ctx, "sum stock",
		`SELECT COALESCE(SUM(quantity), 0)::BIGINT FROM stock_associations WHERE location_id = $1`, locationID)
}

// CountByWarehouse cuenta filas de stock en las ubicaciones de la bodega.
func (r *StockRepo) CountByWarehouse(ctx context.Context, warehouseID int64) (int64, error) {
	return r.scalar(ctx, "count stock", `
		SELECT count(*) FROM stock_associations s
		JOIN inventory_locations l ON l.id = s.location_id
		WHERE l.warehouse_id = $1`, warehouseID)
}

// CountByEntity cuenta filas en bodegas de la entidad o de SKUs de la entidad.
func (r *StockRepo) CountByEntity(ctx context.Context, entityID int64) (int64, error) {
	return r.scalar(ctx, "count stock", `
		SELECT count(*) FROM stock_associations s
		JOIN inventory_locations l ON l.id = s.location_id
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN product_skus p ON p.id = s.sku_id
		WHERE w.entity_id = $1 OR p.entity_id = $1`, entityID)
}

// CountBySku cuenta las ubicaciones que tienen el SKU.
func (r *StockRepo) CountBySku(ctx context.Context, skuID int64) (int64, error) {
	return r.scalar(ctx, "count stock", `SELECT count(*) FROM stock_associations WHERE sku_id = $1`, skuID)
}
