package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrAmbiguousReference = errors.New("referencia ambigua")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrNoInventory        = errors.New("no hay inventario en la ubicación")
	ErrHasInventory       = errors.New("la ubicación todavía tiene inventario")
	ErrHasDependents      = errors.New("el recurso todavía tiene dependientes")
	ErrNoActiveWarehouse  = errors.New("no hay bodega activa; active una o indique la bodega")
	ErrUnknownSku         = errors.New("código no corresponde a ningún SKU")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// ValidationError describe una entrada mal formada sobre un campo concreto.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Message)
}

// Is permite comparar contra ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
