package dto

// Acciones de escaneo.
const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

// ScanRequest ajuste por código de barras. Count por defecto 1.
type ScanRequest struct {
	LocationRefRequest
	UPC    string `json:"upc" validate:"required,max=64"`
	Action string `json:"action" validate:"required,oneof=increase decrease"`
	Count  *int64 `json:"count"`
}

// SetQuantityRequest fija la cantidad exacta de un SKU en una ubicación.
type SetQuantityRequest struct {
	LocationRefRequest
	Sku       string `json:"sku" validate:"required"`
	SkuEntity string `json:"sku_entity"`
	Quantity  *int64 `json:"quantity" validate:"required"`
}

// TransferRequest traslado de un SKU. Quantity nil = todo lo que haya en el origen.
type TransferRequest struct {
	Source          LocationRefRequest `json:"source"`
	Dest            LocationRefRequest `json:"dest"`
	Sku             string             `json:"sku" validate:"required"`
	SkuEntity       string             `json:"sku_entity"`
	Quantity        *int64             `json:"quantity"`
	CreateIfMissing bool               `json:"create_if_missing"`
}

// TransferAllRequest vacía una ubicación en otra.
type TransferAllRequest struct {
	Source          LocationRefRequest `json:"source"`
	Dest            LocationRefRequest `json:"dest"`
	DeleteSource    bool               `json:"delete_source"`
	CreateIfMissing bool               `json:"create_if_missing"`
}

// StockLineResponse una fila del libro con los datos para mostrarla.
type StockLineResponse struct {
	SkuID      int64  `json:"sku_id"`
	Sku        string `json:"sku"`
	UPC        string `json:"upc,omitempty"`
	LocationID int64  `json:"location_id"`
	Label      string `json:"label"`
	Warehouse  string `json:"warehouse"`
	Quantity   int64  `json:"quantity"`
}

// LocationStockResponse contenido de una ubicación.
type LocationStockResponse struct {
	Location LocationResponse    `json:"location"`
	Lines    []StockLineResponse `json:"lines"`
	Total    int64               `json:"total"`
}

// AdjustmentResponse resultado de un escaneo o de fijar cantidad.
type AdjustmentResponse struct {
	OperationID string `json:"operation_id"`
	SkuID       int64  `json:"sku_id"`
	Sku         string `json:"sku"`
	LocationID  int64  `json:"location_id"`
	Label       string `json:"label"`
	Action      string `json:"action"`
	Previous    int64  `json:"previous"`
	Quantity    int64  `json:"quantity"`
	Deleted     bool   `json:"deleted,omitempty"`
	Short       int64  `json:"short,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// TransferLine cantidad movida de un SKU.
type TransferLine struct {
	SkuID int64  `json:"sku_id"`
	Sku   string `json:"sku"`
	Moved int64  `json:"moved"`
}

// TransferResponse resultado de un traslado.
type TransferResponse struct {
	OperationID   string         `json:"operation_id"`
	SourceID      int64          `json:"source_id"`
	SourceLabel   string         `json:"source_label"`
	DestID        int64          `json:"dest_id"`
	DestLabel     string         `json:"dest_label"`
	DestCreated   bool           `json:"dest_created,omitempty"`
	SourceDeleted bool           `json:"source_deleted,omitempty"`
	Lines         []TransferLine `json:"lines"`
	Moved         int64          `json:"moved"`
}
