package entity

import "time"

// ProductSku identidad de un SKU. Sku es único por entidad; UPC, si existe, es único global.
type ProductSku struct {
	ID          int64
	EntityID    int64
	ContainerID *int64 // empaque opcional
	Sku         string
	UPC         *string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UPCValue devuelve el UPC o cadena vacía.
func (p *ProductSku) UPCValue() string {
	if p == nil || p.UPC == nil {
		return ""
	}
	return *p.UPC
}

// SkuAttribute par key=value de una entidad, asociado muchos-a-muchos con SKUs (ej. color=white).
type SkuAttribute struct {
	ID        int64
	EntityID  int64
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Container tipo de empaque (retail-package, inner-box, master-ctn...). La raíz es su propio padre.
type Container struct {
	ID          int64
	ParentID    int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsRoot indica si el contenedor es raíz (auto-referenciado).
func (c *Container) IsRoot() bool {
	return c.ParentID == c.ID
}
