package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/honey-inventory/internal/application/inventory"
	"github.com/jhoicas/honey-inventory/internal/application/usecase"
	"github.com/jhoicas/honey-inventory/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EntityUC    *usecase.EntityUseCase
	WarehouseUC *usecase.WarehouseUseCase
	LocationUC  *usecase.LocationUseCase
	SkuUC       *usecase.SkuUseCase
	ContainerUC *usecase.ContainerUseCase
	Ledger      *inventory.LedgerUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token; lectura para cualquier rol,
// catálogo y registro solo admin, movimientos de stock admin u operator.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	read := RequireRole(jwt.RoleAdmin, jwt.RoleOperator, jwt.RoleViewer)
	admin := RequireRole(jwt.RoleAdmin)
	operate := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)

	// Entities
	entities := api.Group("/entities")
	entityHandler := NewEntityHandler(deps.EntityUC)
	entities.Get("/", read, entityHandler.List)
	entities.Post("/", admin, entityHandler.Create)
	entities.Get("/:ref", read, entityHandler.Get)
	entities.Delete("/:ref", admin, entityHandler.Delete)

	// Warehouses (las rutas fijas antes que /:ref)
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Get("/", read, warehouseHandler.List)
	warehouses.Post("/", admin, warehouseHandler.Create)
	warehouses.Get("/active", read, warehouseHandler.Active)
	warehouses.Delete("/active", operate, warehouseHandler.Deactivate)
	warehouses.Get("/:ref", read, warehouseHandler.Get)
	warehouses.Patch("/:ref", admin, warehouseHandler.Update)
	warehouses.Delete("/:ref", admin, warehouseHandler.Delete)
	warehouses.Post("/:ref/activate", operate, warehouseHandler.Activate)

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Ledger)
	locations.Get("/", read, locationHandler.List)
	locations.Post("/", admin, locationHandler.Create)
	locations.Get("/:ref", read, locationHandler.Get)
	locations.Get("/:ref/stock", read, locationHandler.Stock)
	locations.Patch("/:ref", admin, locationHandler.Update)
	locations.Delete("/:ref", admin, locationHandler.Delete)

	// SKUs
	skus := api.Group("/skus")
	skuHandler := NewSkuHandler(deps.SkuUC)
	skus.Get("/", read, skuHandler.List)
	skus.Post("/", admin, skuHandler.Create)
	skus.Get("/upc/:upc", read, skuHandler.ByUPC)
	skus.Get("/:ref", read, skuHandler.Get)
	skus.Get("/:ref/locations", read, skuHandler.Locations)
	skus.Get("/:ref/attributes", read, skuHandler.Attributes)
	skus.Post("/:ref/attributes", admin, skuHandler.AddAttribute)
	skus.Delete("/:ref/attributes/:key/:value", admin, skuHandler.RemoveAttribute)
	skus.Delete("/:ref", admin, skuHandler.Delete)

	// Containers
	containers := api.Group("/containers")
	containerHandler := NewContainerHandler(deps.ContainerUC)
	containers.Get("/", read, containerHandler.List)
	containers.Post("/", admin, containerHandler.Create)
	containers.Patch("/:id", admin, containerHandler.Move)

	// Inventory
	invGroup := api.Group("/inventory", operate)
	inventoryHandler := NewInventoryHandler(deps.Ledger)
	invGroup.Post("/scan", inventoryHandler.Scan)
	invGroup.Put("/quantity", inventoryHandler.SetQuantity)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Post("/transfers/all", inventoryHandler.TransferAll)
}
