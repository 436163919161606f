package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// SkuHandler maneja las peticiones HTTP del catálogo (protegido).
type SkuHandler struct {
	uc *usecase.SkuUseCase
}

// NewSkuHandler construye el handler.
func NewSkuHandler(uc *usecase.SkuUseCase) *SkuHandler {
	return &SkuHandler{uc: uc}
}

func skuRef(c *fiber.Ctx) entity.SkuRef {
	return dto.SkuRef(param(c, "ref"), c.Query("entity"))
}

// Create registra un SKU.
// POST /api/skus
func (h *SkuHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSkuRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista SKUs; ?entity= filtra.
// GET /api/skus
func (h *SkuHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), entity.ParseOptionalIdentifier(c.Query("entity")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out, "total": len(out)})
}

// ByUPC busca un SKU por código de barras.
// GET /api/skus/upc/:upc
func (h *SkuHandler) ByUPC(c *fiber.Ctx) error {
	out, err := h.uc.FindByUPC(c.UserContext(), param(c, "upc"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ningún SKU con ese UPC"})
	}
	return c.JSON(out)
}

// Get devuelve el SKU con atributos y existencias.
// GET /api/skus/:ref
func (h *SkuHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Show(c.UserContext(), skuRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Locations lista dónde hay stock del SKU.
// GET /api/skus/:ref/locations
func (h *SkuHandler) Locations(c *fiber.Ctx) error {
	out, err := h.uc.Locations(c.UserContext(), skuRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out, "total": len(out)})
}

// Attributes lista las etiquetas del SKU.
// GET /api/skus/:ref/attributes
func (h *SkuHandler) Attributes(c *fiber.Ctx) error {
	out, err := h.uc.Attributes(c.UserContext(), skuRef(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddAttribute etiqueta el SKU.
// POST /api/skus/:ref/attributes
func (h *SkuHandler) AddAttribute(c *fiber.Ctx) error {
	var in dto.AttributeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddAttribute(c.UserContext(), skuRef(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveAttribute quita la etiqueta key=value.
// DELETE /api/skus/:ref/attributes/:key/:value
func (h *SkuHandler) RemoveAttribute(c *fiber.Ctx) error {
	in := dto.AttributeRequest{Key: param(c, "key"), Value: param(c, "value")}
	out, err := h.uc.RemoveAttribute(c.UserContext(), skuRef(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina el SKU; ?force=true borra también su stock.
// DELETE /api/skus/:ref
func (h *SkuHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), skuRef(c), c.QueryBool("force")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
