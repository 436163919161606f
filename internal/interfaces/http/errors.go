package http

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/domain"
)

// errorStatus traduce errores de dominio a HTTP. El orden importa: ValidationError antes que ErrInvalidInput.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrAmbiguousReference, fiber.StatusConflict, "AMBIGUOUS_REFERENCE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrHasInventory, fiber.StatusConflict, "HAS_INVENTORY"},
	{domain.ErrHasDependents, fiber.StatusConflict, "HAS_DEPENDENTS"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNoInventory, fiber.StatusConflict, "NO_INVENTORY"},
	{domain.ErrNoActiveWarehouse, fiber.StatusUnprocessableEntity, "NO_ACTIVE_WAREHOUSE"},
	{domain.ErrUnknownSku, fiber.StatusUnprocessableEntity, "UNKNOWN_SKU"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError responde con dto.ErrorResponse según el error de dominio; lo desconocido es 500 INTERNAL.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: err.Error(),
			Fields:  map[string]string{verr.Field: verr.Message},
		})
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// invalidBody respuesta estándar para un cuerpo JSON mal formado.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// param lee un parámetro de ruta decodificado (los nombres pueden llevar espacios o tildes).
func param(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

// pathID lee un parámetro numérico de la ruta.
func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "debe ser un id numérico")
	}
	return id, nil
}
