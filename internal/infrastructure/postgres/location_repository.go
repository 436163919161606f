package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, warehouse_id, label, created_at, updated_at`

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.WarehouseID, &l.Label, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO inventory_locations (label, warehouse_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, l.Label, l.WarehouseID).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert location", fmt.Sprintf("ubicación %q", l.Label), err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM inventory_locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// ListByLabel lista las ubicaciones con esa etiqueta en todas las bodegas.
func (r *LocationRepo) ListByLabel(ctx context.Context, label string) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM inventory_locations WHERE label = $1 ORDER BY id`, label)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// GetByLabelAndWarehouse obtiene la ubicación (label, warehouse_id).
func (r *LocationRepo) GetByLabelAndWarehouse(ctx context.Context, label string, warehouseID int64) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM inventory_locations WHERE label = $1 AND warehouse_id = $2`
	l, err := scanLocation(r.q.QueryRow(ctx, query, label, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by label: %w", err)
	}
	return l, nil
}

// ListSummaries lista ubicaciones con bodega, entidad y total calculado con SUM.
func (r *LocationRepo) ListSummaries(ctx context.Context, warehouseID *int64) ([]*entity.LocationSummary, error) {
	query := `
		SELECT l.id, l.warehouse_id, l.label, l.created_at, l.updated_at,
		       w.name, e.name, COALESCE(SUM(s.quantity), 0)::BIGINT
		FROM inventory_locations l
		JOIN warehouses w ON w.id = l.warehouse_id
		JOIN entities e ON e.id = w.entity_id
		LEFT JOIN stock_associations s ON s.location_id = l.id
		WHERE ($1::bigint IS NULL OR l.warehouse_id = $1)
		GROUP BY l.id, w.name, e.name
		ORDER BY l.id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list location summaries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LocationSummary
	for rows.Next() {
		var s entity.LocationSummary
		if err := rows.Scan(
			&s.ID, &s.WarehouseID, &s.Label, &s.CreatedAt, &s.UpdatedAt,
			&s.WarehouseName, &s.EntityName, &s.Total,
		); err != nil {
			return nil, fmt.Errorf("scan location summary: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// CountByWarehouse cuenta las ubicaciones de una bodega.
func (r *LocationRepo) CountByWarehouse(ctx context.Context, warehouseID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_locations WHERE warehouse_id = $1`, warehouseID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

// Lock bloquea las filas de las ubicaciones en orden ascendente de id para que dos
// traslados concurrentes entre el mismo par no se bloqueen mutuamente.
func (r *LocationRepo) Lock(ctx context.Context, ids ...int64) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	rows, err := r.q.Query(ctx, `SELECT id FROM inventory_locations WHERE id = ANY($1) ORDER BY id FOR UPDATE`, sorted)
	if err != nil {
		return fmt.Errorf("lock locations: %w", err)
	}
	defer rows.Close()
	var locked int
	for rows.Next() {
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock locations: %w", err)
	}
	if locked != len(sorted) {
		return fmt.Errorf("lock locations %v: %w", sorted, domain.ErrNotFound)
	}
	return nil
}

// Update cambia etiqueta y/o bodega de la ubicación.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `
		UPDATE inventory_locations SET label = $2, warehouse_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query, l.ID, l.Label, l.WarehouseID).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ubicación #%d: %w", l.ID, domain.ErrNotFound)
		}
		return mapWriteErr("update location", fmt.Sprintf("ubicación %q", l.Label), err)
	}
	return nil
}

// Delete elimina una ubicación por ID.
func (r *LocationRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_locations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

// DeleteByWarehouse elimina todas las ubicaciones de una bodega.
func (r *LocationRepo) DeleteByWarehouse(ctx context.Context, warehouseID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_locations WHERE warehouse_id = $1`, warehouseID); err != nil {
		return fmt.Errorf("delete locations: %w", err)
	}
	return nil
}
