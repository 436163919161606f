package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// WarehouseHandler maneja las peticiones HTTP para Warehouse (protegido).
// Las bodegas se referencian por id o nombre; ?entity= desambigua nombres repetidos.
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

func warehouseRef(c *fiber.Ctx) entity.WarehouseRef {
	return dto.WarehouseRef(param(c, "ref"), c.Query("entity"))
}

// Create crea una bodega.
// POST /api/warehouses
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista bodegas; ?entity= filtra por entidad.
// GET /api/warehouses
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), entity.ParseOptionalIdentifier(c.Query("entity")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out, "total": len(out)})
}

// Get obtiene una bodega.
// GET /api/warehouses/:ref
func (h *WarehouseHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Resolve(c.UserContext(), warehouseRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update renombra o reasigna una bodega.
// PATCH /api/warehouses/:ref
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), warehouseRef(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una bodega; ?force=true borra sus ubicaciones vacías.
// DELETE /api/warehouses/:ref
func (h *WarehouseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), warehouseRef(c), c.QueryBool("force")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate deja la bodega como activa.
// POST /api/warehouses/:ref/activate
func (h *WarehouseHandler) Activate(c *fiber.Ctx) error {
	out, err := h.uc.Activate(c.UserContext(), warehouseRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Active devuelve la bodega activa.
// GET /api/warehouses/active
func (h *WarehouseHandler) Active(c *fiber.Ctx) error {
	out, err := h.uc.Active(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_WAREHOUSE", Message: "no hay bodega activa"})
	}
	return c.JSON(out)
}

// Deactivate olvida la bodega activa.
// DELETE /api/warehouses/active
func (h *WarehouseHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
