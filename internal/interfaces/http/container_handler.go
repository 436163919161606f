package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
)

// ContainerHandler maneja la jerarquía de empaques (protegido).
type ContainerHandler struct {
	uc *usecase.ContainerUseCase
}

// NewContainerHandler construye el handler.
func NewContainerHandler(uc *usecase.ContainerUseCase) *ContainerHandler {
	return &ContainerHandler{uc: uc}
}

// Create crea un contenedor.
// POST /api/containers
func (h *ContainerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContainerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista los contenedores con su profundidad.
// GET /api/containers
func (h *ContainerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out, "total": len(out)})
}

// Move cuelga el contenedor bajo otro padre.
// PATCH /api/containers/:id
func (h *ContainerHandler) Move(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MoveContainerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Move(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
