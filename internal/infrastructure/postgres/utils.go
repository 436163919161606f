package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/honey-inventory/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si la fila referenciada no existe (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" // foreign_key_violation
	}
	return false
}

// mapWriteErr traduce violaciones de constraints a errores de dominio; el resto se envuelve con op.
func mapWriteErr(op, what string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", what, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: referencia inexistente: %w", what, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
