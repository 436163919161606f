package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/inventory"
)

// InventoryHandler maneja las operaciones del libro de stock (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Scan suma o resta unidades por código de barras.
// POST /api/inventory/scan
func (h *InventoryHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ScanAdjust(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetQuantity fija la cantidad exacta.
// PUT /api/inventory/quantity
func (h *InventoryHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetQuantity(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer traslada un SKU entre ubicaciones.
// POST /api/inventory/transfers
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Transfer(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// TransferAll vacía una ubicación en otra.
// POST /api/inventory/transfers/all
func (h *InventoryHandler) TransferAll(c *fiber.Ctx) error {
	var in dto.TransferAllRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.TransferAll(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
