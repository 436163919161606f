// Package inventory contiene la máquina de estados del libro de stock por (SKU, ubicación).
//
// Estados: Ausente (sin fila) o Presente(n), n >= 1. Una transición cuyo destino es 0
// se materializa borrando la fila; nunca se persiste una cantidad 0 o negativa.
package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/honey-inventory/internal/domain"
)

// Transition resultado de aplicar una operación sobre la cantidad actual.
type Transition struct {
	From   int64
	To     int64
	Delete bool  // To == 0 y había fila
	Create bool  // From == 0 y To > 0
	Short  int64 // unidades solicitadas que no existían (solo ClampDecrease)
}

// Noop indica que la fila no cambia.
func (t Transition) Noop() bool {
	return t.From == t.To
}

// Increase suma k unidades. Ausente -> Presente(k).
func Increase(current, k int64) (Transition, error) {
	if err := checkState(current); err != nil {
		return Transition{}, err
	}
	if k <= 0 {
		return Transition{}, domain.NewValidationError("count", "debe ser un entero positivo")
	}
	if k > math.MaxInt64-current {
		return Transition{}, domain.NewValidationError("count", "la cantidad resultante excede el máximo")
	}
	return Transition{From: current, To: current + k, Create: current == 0}, nil
}

// Decrease resta k unidades de forma estricta: k > current es ErrInsufficientStock
// y la cantidad queda en su último valor válido.
func Decrease(current, k int64) (Transition, error) {
	if err := checkState(current); err != nil {
		return Transition{}, err
	}
	if k <= 0 {
		return Transition{}, domain.NewValidationError("quantity", "debe ser un entero positivo")
	}
	if current == 0 {
		return Transition{}, domain.ErrNoInventory
	}
	if k > current {
		return Transition{}, fmt.Errorf("%w: solicitado %d, disponible %d", domain.ErrInsufficientStock, k, current)
	}
	to := current - k
	return Transition{From: current, To: to, Delete: to == 0}, nil
}

// ClampDecrease resta hasta llegar a cero (política del escaneo): si current-k <= 0 la fila se borra
// y Short informa cuántas unidades faltaron. Sobre una fila ausente es un no-op.
func ClampDecrease(current, k int64) (Transition, error) {
	if err := checkState(current); err != nil {
		return Transition{}, err
	}
	if k <= 0 {
		return Transition{}, domain.NewValidationError("count", "debe ser un entero positivo")
	}
	if current == 0 {
		return Transition{}, nil
	}
	if k >= current {
		return Transition{From: current, To: 0, Delete: true, Short: k - current}, nil
	}
	return Transition{From: current, To: current - k}, nil
}

// Set fija la cantidad absoluta. n == 0 equivale a retirar todo el stock.
func Set(current, n int64) (Transition, error) {
	if err := checkState(current); err != nil {
		return Transition{}, err
	}
	if n < 0 {
		return Transition{}, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	return Transition{
		From:   current,
		To:     n,
		Delete: current > 0 && n == 0,
		Create: current == 0 && n > 0,
	}, nil
}

// checkState protege contra lecturas corruptas: una fila persistida nunca es negativa.
func checkState(current int64) error {
	if current < 0 {
		return fmt.Errorf("cantidad persistida negativa (%d)", current)
	}
	return nil
}
