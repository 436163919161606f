package dto

import "time"

// CreateSkuRequest entrada para crear un SKU. UPC vacío = sin código de barras.
type CreateSkuRequest struct {
	Sku         string `json:"sku" validate:"required,min=1,max=100"`
	UPC         string `json:"upc" validate:"omitempty,max=64"`
	Description string `json:"description" validate:"max=2000"`
	Entity      string `json:"entity" validate:"required"`
	ContainerID *int64 `json:"container_id" validate:"omitempty,min=1"`
}

// AttributeRequest par key=value para etiquetar un SKU.
type AttributeRequest struct {
	Key   string `json:"key" validate:"required,min=1,max=100"`
	Value string `json:"value" validate:"required,min=1,max=200"`
}

// AttributeResponse salida de un atributo.
type AttributeResponse struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SkuResponse salida de un SKU.
type SkuResponse struct {
	ID          int64     `json:"id"`
	EntityID    int64     `json:"entity_id"`
	ContainerID *int64    `json:"container_id,omitempty"`
	Sku         string    `json:"sku"`
	UPC         string    `json:"upc,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SkuDetailResponse SKU con atributos y existencias.
type SkuDetailResponse struct {
	SkuResponse
	Attributes []AttributeResponse `json:"attributes"`
	Locations  []StockLineResponse `json:"locations"`
	Total      int64               `json:"total"`
}

// CreateContainerRequest entrada para crear un tipo de empaque. Sin padre se crea como raíz.
type CreateContainerRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ParentID    *int64 `json:"parent_id" validate:"omitempty,min=1"`
}

// MoveContainerRequest entrada para mover un contenedor bajo otro padre.
type MoveContainerRequest struct {
	ParentID int64 `json:"parent_id" validate:"required,min=1"`
}

// ContainerResponse salida de un contenedor con su profundidad en el árbol.
type ContainerResponse struct {
	ID          int64  `json:"id"`
	ParentID    int64  `json:"parent_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Root        bool   `json:"root"`
	Depth       int    `json:"depth"`
}
