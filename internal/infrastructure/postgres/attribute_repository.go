package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ repository.AttributeRepository = (*AttributeRepo)(nil)

// AttributeRepo implementación de AttributeRepository sobre PostgreSQL.
type AttributeRepo struct {
	q Querier
}

// NewAttributeRepository construye el adaptador de atributos de SKU.
func NewAttributeRepository(q Querier) *AttributeRepo {
	return &AttributeRepo{q: q}
}

const attributeColumns = `id, entity_id, key, value, created_at, updated_at`

func scanAttribute(row pgx.Row) (*entity.SkuAttribute, error) {
	var a entity.SkuAttribute
	if err := row.Scan(&a.ID, &a.EntityID, &a.Key, &a.Value, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// FindOrCreate inserta (entity, key, value) si no existe y devuelve la fila.
// El UPDATE vacío en el conflicto hace que RETURNING devuelva también la fila existente.
func (r *AttributeRepo) FindOrCreate(ctx context.Context, entityID int64, key, value string) (*entity.SkuAttribute, error) {
	query := `
		INSERT INTO sku_attrs (entity_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (entity_id, key, value) DO UPDATE SET key = EXCLUDED.key
		RETURNING ` + attributeColumns
	a, err := scanAttribute(r.q.QueryRow(ctx, query, entityID, key, value))
	if err != nil {
		return nil, mapWriteErr("upsert attribute", fmt.Sprintf("atributo %s=%s", key, value), err)
	}
	return a, nil
}

// Get obtiene el atributo (entity, key, value).
func (r *AttributeRepo) Get(ctx context.Context, entityID int64, key, value string) (*entity.SkuAttribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM sku_attrs WHERE entity_id = $1 AND key = $2 AND value = $3`
	a, err := scanAttribute(r.q.QueryRow(ctx, query, entityID, key, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get attribute: %w", err)
	}
	return a, nil
}

// Link asocia el atributo al SKU; idempotente.
func (r *AttributeRepo) Link(ctx context.Context, skuID, attributeID int64) error {
	query := `
		INSERT INTO productskus_skuattrs (sku_id, skuattr_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.Exec(ctx, query, skuID, attributeID); err != nil {
		return mapWriteErr("link attribute", fmt.Sprintf("sku #%d", skuID), err)
	}
	return nil
}

// Unlink quita la asociación; el atributo permanece para otros SKUs.
func (r *AttributeRepo) Unlink(ctx context.Context, skuID, attributeID int64) error {
	query := `DELETE FROM productskus_skuattrs WHERE sku_id = $1 AND skuattr_id = $2`
	if _, err := r.q.Exec(ctx, query, skuID, attributeID); err != nil {
		return fmt.Errorf("unlink attribute: %w", err)
	}
	return nil
}

// ListBySku lista los atributos de un SKU ordenados por key, value.
func (r *AttributeRepo) ListBySku(ctx context.Context, skuID int64) ([]*entity.SkuAttribute, error) {
	query := `
		SELECT a.id, a.entity_id, a.key, a.value, a.created_at, a.updated_at
		FROM sku_attrs a
		JOIN productskus_skuattrs l ON l.skuattr_id = a.id
		WHERE l.sku_id = $1
		ORDER BY a.key, a.value`
	rows, err := r.q.Query(ctx, query, skuID)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	defer rows.Close()
	var list []*entity.SkuAttribute
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// DeleteByEntity elimina los atributos de la entidad (enlaces por cascada).
func (r *AttributeRepo) DeleteByEntity(ctx context.Context, entityID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sku_attrs WHERE entity_id = $1`, entityID); err != nil {
		return fmt.Errorf("delete attributes: %w", err)
	}
	return nil
}
