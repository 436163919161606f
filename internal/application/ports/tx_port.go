package ports

import (
	"context"

	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; nada parcial queda confirmado.
type TxRunner interface {
	Run(ctx context.Context, fn func(store repository.Store) error) error
}
