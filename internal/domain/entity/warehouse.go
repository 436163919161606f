package entity

import "time"

// Entity es el dueño de nivel superior de bodegas y SKUs (cuenta, cliente u organización).
type Entity struct {
	ID        int64
	Name      string // único
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Warehouse representa una bodega: contenedor con nombre de ubicaciones, propiedad de una Entity.
// (Name, EntityID) es único; el mismo nombre puede repetirse bajo otra entidad.
type Warehouse struct {
	ID        int64
	EntityID  int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location (InventoryLocation) es una caja, estante o contenedor etiquetado dentro de una bodega.
// (Label, WarehouseID) es único; las etiquetas no son globales.
type Location struct {
	ID          int64
	WarehouseID int64
	Label       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocationSummary vista de una ubicación con su bodega y el total de unidades (calculado, nunca almacenado).
type LocationSummary struct {
	Location
	WarehouseName string
	EntityName    string
	Total         int64
}
