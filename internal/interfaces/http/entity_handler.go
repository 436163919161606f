package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// EntityHandler maneja las peticiones HTTP para Entity (protegido).
type EntityHandler struct {
	uc *usecase.EntityUseCase
}

// NewEntityHandler construye el handler.
func NewEntityHandler(uc *usecase.EntityUseCase) *EntityHandler {
	return &EntityHandler{uc: uc}
}

// Create crea una entidad.
// POST /api/entities
func (h *EntityHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEntityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista las entidades.
// GET /api/entities
func (h *EntityHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out, "total": len(out)})
}

// Get obtiene una entidad por id o nombre.
// GET /api/entities/:ref
func (h *EntityHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Resolve(c.UserContext(), entity.ParseIdentifier(param(c, "ref")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una entidad; ?force=true borra en cascada si no hay stock.
// DELETE /api/entities/:ref
func (h *EntityHandler) Delete(c *fiber.Ctx) error {
	err := h.uc.Delete(c.UserContext(), entity.ParseIdentifier(param(c, "ref")), c.QueryBool("force"))
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
