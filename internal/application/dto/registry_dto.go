package dto

import (
	"time"

	"github.com/jhoicas/honey-inventory/internal/domain/entity"
)

// CreateEntityRequest entrada para crear una entidad.
type CreateEntityRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// EntityResponse salida de una entidad.
type EntityResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateWarehouseRequest entrada para crear una bodega. Entity acepta id o nombre.
type CreateWarehouseRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Entity string `json:"entity" validate:"required"`
}

// UpdateWarehouseRequest entrada para renombrar o reasignar una bodega.
type UpdateWarehouseRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Entity *string `json:"entity" validate:"omitempty,min=1"`
}

// WarehouseRefRequest referencia a una bodega en el cuerpo de un request.
type WarehouseRefRequest struct {
	Warehouse string `json:"warehouse" validate:"required"`
	Entity    string `json:"entity"`
}

// Ref convierte el request en una referencia tipada.
func (r WarehouseRefRequest) Ref() entity.WarehouseRef {
	return WarehouseRef(r.Warehouse, r.Entity)
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID         int64     `json:"id"`
	EntityID   int64     `json:"entity_id"`
	EntityName string    `json:"entity_name,omitempty"`
	Name       string    `json:"name"`
	Active     bool      `json:"active,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateLocationRequest entrada para crear una ubicación. Sin bodega se usa la activa.
type CreateLocationRequest struct {
	Label     string `json:"label" validate:"required,min=1,max=200"`
	Warehouse string `json:"warehouse"`
	Entity    string `json:"entity"`
}

// UpdateLocationRequest entrada para renombrar o mover una ubicación a otra bodega.
type UpdateLocationRequest struct {
	Label     *string `json:"label" validate:"omitempty,min=1,max=200"`
	Warehouse *string `json:"warehouse" validate:"omitempty,min=1"`
	Entity    *string `json:"entity"`
}

// LocationRefRequest referencia a una ubicación; la bodega desambigua etiquetas.
type LocationRefRequest struct {
	Location  string `json:"location" validate:"required"`
	Warehouse string `json:"warehouse"`
	Entity    string `json:"entity"`
}

// Ref convierte el request en una referencia tipada.
func (r LocationRefRequest) Ref() entity.LocationRef {
	return LocationRef(r.Location, r.Warehouse, r.Entity)
}

// LocationResponse salida de una ubicación con su total calculado.
type LocationResponse struct {
	ID            int64     `json:"id"`
	WarehouseID   int64     `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	EntityName    string    `json:"entity_name,omitempty"`
	Label         string    `json:"label"`
	Total         int64     `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WarehouseRef arma una referencia de bodega desde texto crudo (CLI, query string).
func WarehouseRef(warehouse, entityRaw string) entity.WarehouseRef {
	return entity.WarehouseRef{
		Warehouse: entity.ParseIdentifier(warehouse),
		Entity:    entity.ParseOptionalIdentifier(entityRaw),
	}
}

// OptionalWarehouseRef devuelve nil si no se indicó bodega ni entidad. Con solo la entidad
// devuelve una referencia con Warehouse vacío: la bodega activa, que debe ser de esa entidad.
func OptionalWarehouseRef(warehouse, entityRaw string) *entity.WarehouseRef {
	ent := entity.ParseOptionalIdentifier(entityRaw)
	if entity.ParseOptionalIdentifier(warehouse) == nil {
		if ent == nil {
			return nil
		}
		return &entity.WarehouseRef{Entity: ent}
	}
	ref := WarehouseRef(warehouse, entityRaw)
	return &ref
}

// LocationRef arma una referencia de ubicación desde texto crudo.
func LocationRef(location, warehouse, entityRaw string) entity.LocationRef {
	return entity.LocationRef{
		Location:  entity.ParseIdentifier(location),
		Warehouse: OptionalWarehouseRef(warehouse, entityRaw),
	}
}

// SkuRef arma una referencia de SKU desde texto crudo.
func SkuRef(sku, entityRaw string) entity.SkuRef {
	return entity.SkuRef{
		Sku:    entity.ParseIdentifier(sku),
		Entity: entity.ParseOptionalIdentifier(entityRaw),
	}
}
