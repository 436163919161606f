package entity

import "time"

// StockAssociation es la fila del libro de inventario: cuánto hay del SKU en la ubicación.
// Solo existe mientras Quantity >= 1; al llegar a cero la fila se elimina.
type StockAssociation struct {
	SkuID      int64
	LocationID int64
	Quantity   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StockLine vista de lectura de una fila de stock con los datos para mostrarla.
type StockLine struct {
	StockAssociation
	Sku           string
	UPC           string
	Label         string
	WarehouseName string
}
