package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/inventory"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// LocationHandler maneja las peticiones HTTP para ubicaciones (protegido).
// Por etiqueta se usa ?warehouse= (y ?entity=) o, sin ellos, la bodega activa.
type LocationHandler struct {
	uc     *usecase.LocationUseCase
	ledger *inventory.LedgerUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase, ledger *inventory.LedgerUseCase) *LocationHandler {
	return &LocationHandler{uc: uc, ledger: ledger}
}

func locationRef(c *fiber.Ctx) entity.LocationRef {
	return dto.LocationRef(param(c, "ref"), c.Query("warehouse"), c.Query("entity"))
}

// Create crea una ubicación.
// POST /api/locations
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista ubicaciones con totales; ?warehouse= filtra.
// GET /api/locations
func (h *LocationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.OptionalWarehouseRef(c.Query("warehouse"), c.Query("entity")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out, "total": len(out)})
}

// Get obtiene una ubicación con su total.
// GET /api/locations/:ref
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Resolve(c.UserContext(), locationRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stock lista el contenido de la ubicación.
// GET /api/locations/:ref/stock
func (h *LocationHandler) Stock(c *fiber.Ctx) error {
	out, err := h.ledger.LocationStock(c.UserContext(), locationRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update renombra o mueve la ubicación.
// PATCH /api/locations/:ref
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), locationRef(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una ubicación vacía.
// DELETE /api/locations/:ref
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), locationRef(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
