package repository

// Store agrupa los repositorios atados a una misma transacción.
type Store struct {
	Entities   EntityRepository
	Warehouses WarehouseRepository
	Locations  LocationRepository
	Skus       SkuRepository
	Attributes AttributeRepository
	Containers ContainerRepository
	Stock      StockRepository
}
