package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, entity_id, name, created_at, updated_at`

func scanWarehouse(row pgx.Row) (*entity.Warehouse, error) {
	var w entity.Warehouse
	if err := row.Scan(&w.ID, &w.EntityID, &w.Name, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (name, entity_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, w.Name, w.EntityID).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert warehouse", fmt.Sprintf("bodega %q", w.Name), err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// ListByName lista las bodegas con ese nombre en todas las entidades.
func (r *WarehouseRepo) ListByName(ctx context.Context, name string) ([]*entity.Warehouse, error) {
	return r.list(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE name = $1 ORDER BY id`, name)
}

// GetByNameAndEntity obtiene la bodega (name, entity_id).
func (r *WarehouseRepo) GetByNameAndEntity(ctx context.Context, name string, entityID int64) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE name = $1 AND entity_id = $2`
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, name, entityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse by name: %w", err)
	}
	return w, nil
}

// List lista bodegas, opcionalmente filtradas por entidad.
func (r *WarehouseRepo) List(ctx context.Context, entityID *int64) ([]*entity.Warehouse, error) {
	if entityID == nil {
		return r.list(ctx, `SELECT `+warehouseColumns+` FROM warehouses ORDER BY id`)
	}
	return r.list(ctx, `SELECT `+warehouseColumns+` FROM warehouses WHERE entity_id = $1 ORDER BY id`, *entityID)
}

func (r *WarehouseRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Update renombra o cambia de entidad una bodega existente.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET name = $2, entity_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query, w.ID, w.Name, w.EntityID).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("bodega #%d: %w", w.ID, domain.ErrNotFound)
		}
		return mapWriteErr("update warehouse", fmt.Sprintf("bodega %q", w.Name), err)
	}
	return nil
}

// Delete elimina una bodega por ID (ubicaciones y stock por cascada).
func (r *WarehouseRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete warehouse: %w", err)
	}
	return nil
}
