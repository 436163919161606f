package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ repository.SkuRepository = (*SkuRepo)(nil)

// SkuRepo implementación de SkuRepository sobre PostgreSQL.
type SkuRepo struct {
	q Querier
}

// NewSkuRepository construye el adaptador de persistencia para SKUs. Pasar pool o tx (Querier).
func NewSkuRepository(q Querier) *SkuRepo {
	return &SkuRepo{q: q}
}

const skuColumns = `id, entity_id, container_id, sku, upc, description, created_at, updated_at`

func scanSku(row pgx.Row) (*entity.ProductSku, error) {
	var s entity.ProductSku
	if err := row.Scan(&s.ID, &s.EntityID, &s.ContainerID, &s.Sku, &s.UPC, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un SKU. (sku, entity_id) y upc son únicos.
func (r *SkuRepo) Create(ctx context.Context, s *entity.ProductSku) error {
	query := `
		INSERT INTO product_skus (sku, upc, description, entity_id, container_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, s.Sku, s.UPC, s.Description, s.EntityID, s.ContainerID).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert sku", fmt.Sprintf("sku %q", s.Sku), err)
	}
	return nil
}

func (r *SkuRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.ProductSku, error) {
	s, err := scanSku(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetByID obtiene un SKU por ID.
func (r *SkuRepo) GetByID(ctx context.Context, id int64) (*entity.ProductSku, error) {
	return r.getOne(ctx, "get sku", `SELECT `+skuColumns+` FROM product_skus WHERE id = $1`, id)
}

// GetByUPC obtiene el SKU con ese código de barras.
func (r *SkuRepo) GetByUPC(ctx context.Context, upc string) (*entity.ProductSku, error) {
	return r.getOne(ctx, "get sku by upc", `SELECT `+skuColumns+` FROM product_skus WHERE upc = $1`, upc)
}

// GetBySkuAndEntity obtiene el SKU (sku, entity_id).
func (r *SkuRepo) GetBySkuAndEntity(ctx context.Context, sku string, entityID int64) (*entity.ProductSku, error) {
	return r.getOne(ctx, "get sku by code",
		`SELECT `+skuColumns+` FROM product_skus WHERE sku = $1 AND entity_id = $2`, sku, entityID)
}

// ListBySku lista los SKUs con ese código en todas las entidades.
func (r *SkuRepo) ListBySku(ctx context.Context, sku string) ([]*entity.ProductSku, error) {
	return r.list(ctx, `SELECT `+skuColumns+` FROM product_skus WHERE sku = $1 ORDER BY id`, sku)
}

// List lista SKUs, opcionalmente filtrados por entidad.
func (r *SkuRepo) List(ctx context.Context, entityID *int64) ([]*entity.ProductSku, error) {
	return r.list(ctx, `SELECT `+skuColumns+` FROM product_skus WHERE ($1::bigint IS NULL OR entity_id = $1) ORDER BY id`, entityID)
}

func (r *SkuRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductSku, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductSku
	for rows.Next() {
		s, err := scanSku(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina un SKU (stock y enlaces de atributos por cascada).
func (r *SkuRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_skus WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sku: %w", err)
	}
	return nil
}

// DeleteByEntity elimina todos los SKUs de una entidad.
func (r *SkuRepo) DeleteByEntity(ctx context.Context, entityID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_skus WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("delete skus: %w", err)
	}
	return nil
}
