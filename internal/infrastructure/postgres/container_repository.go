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

var _ repository.ContainerRepository = (*ContainerRepo)(nil)

// ContainerRepo implementación de ContainerRepository sobre PostgreSQL.
type ContainerRepo struct {
	q Querier
}

// NewContainerRepository construye el adaptador de contenedores.
func NewContainerRepository(q Querier) *ContainerRepo {
	return &ContainerRepo{q: q}
}

const containerColumns = `id, parent_id, name, description, created_at, updated_at`

func scanContainer(row pgx.Row) (*entity.Container, error) {
	var c entity.Container
	if err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste el contenedor. Con ParentID == 0 se crea como raíz: parent_id = id.
func (r *ContainerRepo) Create(ctx context.Context, c *entity.Container) error {
	var parent *int64
	if c.ParentID != 0 {
		parent = &c.ParentID
	}
	query := `
		INSERT INTO containers (name, description, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, c.Name, c.Description, parent).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert container", fmt.Sprintf("contenedor %q", c.Name), err)
	}
	if parent == nil {
		if _, err := r.q.Exec(ctx, `UPDATE containers SET parent_id = id WHERE id = $1`, c.ID); err != nil {
			return fmt.Errorf("root container: %w", err)
		}
		c.ParentID = c.ID
	}
	return nil
}

// GetByID obtiene un contenedor por ID.
func (r *ContainerRepo) GetByID(ctx context.Context, id int64) (*entity.Container, error) {
	c, err := scanContainer(r.q.QueryRow(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get container: %w", err)
	}
	return c, nil
}

// List lista todos los contenedores.
func (r *ContainerRepo) List(ctx context.Context) ([]*entity.Container, error) {
	rows, err := r.q.Query(ctx, `SELECT `+containerColumns+` FROM containers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateParent mueve el contenedor bajo otro padre; la validación de ciclos es de dominio.
func (r *ContainerRepo) UpdateParent(ctx context.Context, id, parentID int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE containers SET parent_id = $2, updated_at = now() WHERE id = $1`, id, parentID)
	if err != nil {
		return mapWriteErr("update container", fmt.Sprintf("contenedor #%d", id), err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("contenedor #%d: %w", id, domain.ErrNotFound)
	}
	return nil
}
