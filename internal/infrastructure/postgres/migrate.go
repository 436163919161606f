package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica en orden los scripts embebidos en migrations/ que todavía no figuran en
// schema_migrations y devuelve los que aplicó. Sin pendientes devuelve una lista vacía.
// Los scripts son idempotentes: si uno falla a mitad, volver a ejecutar es seguro.
func Migrate(ctx context.Context, q Querier) ([]string, error) {
	if _, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT        PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}

	done, err := appliedMigrations(ctx, q)
	if err != nil {
		return nil, err
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(files)

	applied := make([]string, 0, len(files))
	for _, file := range files {
		name := path.Base(file)
		if done[name] {
			continue
		}
		body, err := migrationsFS.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("leer %s: %w", name, err)
		}
		if _, err := q.Exec(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("aplicar %s: %w", name, err)
		}
		if _, err := q.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			return applied, fmt.Errorf("registrar %s: %w", name, err)
		}
		applied = append(applied, name)
	}
	return applied, nil
}

func appliedMigrations(ctx context.Context, q Querier) (map[string]bool, error) {
	rows, err := q.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("leer schema_migrations: %w", err)
	}
	defer rows.Close()
	done := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("leer schema_migrations: %w", err)
		}
		done[name] = true
	}
	return done, rows.Err()
}
