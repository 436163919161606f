package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ repository.EntityRepository = (*EntityRepo)(nil)

// EntityRepo implementación del puerto EntityRepository sobre PostgreSQL.
type EntityRepo struct {
	q Querier
}

// NewEntityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntityRepository(q Querier) *EntityRepo {
	return &EntityRepo{q: q}
}

const entityColumns = `id, name, created_at, updated_at`

func scanEntity(row pgx.Row) (*entity.Entity, error) {
	var e entity.Entity
	if err := row.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create persiste una nueva entidad; id y timestamps los asigna la base.
func (r *EntityRepo) Create(ctx context.Context, e *entity.Entity) error {
	query := `INSERT INTO entities (name) VALUES ($1) RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, e.Name).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert entity", fmt.Sprintf("entidad %q", e.Name), err)
	}
	return nil
}

// GetByID obtiene una entidad por ID.
func (r *EntityRepo) GetByID(ctx context.Context, id int64) (*entity.Entity, error) {
	e, err := scanEntity(r.q.QueryRow(ctx, `SELECT `+entityColumns+` FROM entities WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entity: %w", err)
	}
	return e, nil
}

// GetByName obtiene una entidad por nombre (único).
func (r *EntityRepo) GetByName(ctx context.Context, name string) (*entity.Entity, error) {
	e, err := scanEntity(r.q.QueryRow(ctx, `SELECT `+entityColumns+` FROM entities WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get entity by name: %w", err)
	}
	return e, nil
}

// List lista todas las entidades.
func (r *EntityRepo) List(ctx context.Context) ([]*entity.Entity, error) {
	rows, err := r.q.Query(ctx, `SELECT `+entityColumns+` FROM entities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete elimina una entidad; bodegas, SKUs y atributos caen por ON DELETE CASCADE.
func (r *EntityRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete entity: %w", err)
	}
	return nil
}
