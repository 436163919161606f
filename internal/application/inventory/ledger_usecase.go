// Package inventory implementa los casos de uso del libro de stock: escaneo, cantidad exacta y
// traslados. Cada operación corre en una sola transacción con las ubicaciones bloqueadas.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/application/resolver"
	"github.com/jhoicas/honey-inventory/internal/application/session"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/inventory"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// ActionSet acción reportada por SetQuantity.
const ActionSet = "set"

// LedgerUseCase mueve stock entre estados Ausente y Presente(n) de forma transaccional.
type LedgerUseCase struct {
	tx     ports.TxRunner
	active *session.ActiveWarehouse
	log    *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(tx ports.TxRunner, active *session.ActiveWarehouse, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{tx: tx, active: active, log: log.Named("ledger")}
}

// ScanAdjust suma o resta count unidades del SKU con ese UPC en la ubicación.
// Restar sobre una fila ausente no hace nada (aviso); restar de más borra la fila y reporta el faltante.
func (uc *LedgerUseCase) ScanAdjust(ctx context.Context, in dto.ScanRequest) (*dto.AdjustmentResponse, error) {
	// Mismo criterio que al crear el SKU: los lectores suelen añadir espacios o saltos de línea.
	in.UPC = strings.TrimSpace(in.UPC)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	count := int64(1)
	if in.Count != nil {
		count = *in.Count
	}
	if count <= 0 {
		return nil, domain.NewValidationError("count", "debe ser un entero positivo")
	}

	out := &dto.AdjustmentResponse{OperationID: uuid.NewString(), Action: in.Action}
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		loc, err := uc.active.Location(ctx, r, in.Ref())
		if err != nil {
			return err
		}
		sku, err := r.Skus.GetByUPC(ctx, in.UPC)
		if err != nil {
			return err
		}
		if sku == nil {
			return fmt.Errorf("%w: %q", domain.ErrUnknownSku, in.UPC)
		}
		if err := r.Locations.Lock(ctx, loc.ID); err != nil {
			return err
		}
		current, err := onHand(ctx, r, sku.ID, loc.ID)
		if err != nil {
			return err
		}
		out.SkuID, out.Sku, out.LocationID, out.Label = sku.ID, sku.Sku, loc.ID, loc.Label
		out.Previous = current

		if in.Action == dto.ActionIncrease {
			if _, err := inventory.Increase(current, count); err != nil {
				return err
			}
			out.Quantity, err = r.Stock.Increment(ctx, sku.ID, loc.ID, count)
			return err
		}

		t, err := inventory.ClampDecrease(current, count)
		if err != nil {
			return err
		}
		if current == 0 {
			out.Warning = fmt.Sprintf("no hay %s en %s; nada que restar", sku.Sku, loc.Label)
			return nil
		}
		if t.Short > 0 {
			out.Warning = fmt.Sprintf("se pidieron %d pero solo había %d", count, current)
		}
		out.Quantity, out.Deleted, out.Short = t.To, t.Delete, t.Short
		return apply(ctx, r, sku.ID, loc.ID, t)
	})
	if err != nil {
		return nil, err
	}
	uc.logAdjustment(out)
	return out, nil
}

// SetQuantity fija la cantidad exacta del SKU en la ubicación; 0 borra la fila.
func (uc *LedgerUseCase) SetQuantity(ctx context.Context, in dto.SetQuantityRequest) (*dto.AdjustmentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	out := &dto.AdjustmentResponse{OperationID: uuid.NewString(), Action: ActionSet}
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		loc, err := uc.active.Location(ctx, r, in.Ref())
		if err != nil {
			return err
		}
		sku, err := resolver.Sku(ctx, r, dto.SkuRef(in.Sku, in.SkuEntity))
		if err != nil {
			return err
		}
		if err := r.Locations.Lock(ctx, loc.ID); err != nil {
			return err
		}
		current, err := onHand(ctx, r, sku.ID, loc.ID)
		if err != nil {
			return err
		}
		t, err := inventory.Set(current, *in.Quantity)
		if err != nil {
			return err
		}
		out.SkuID, out.Sku, out.LocationID, out.Label = sku.ID, sku.Sku, loc.ID, loc.Label
		out.Previous, out.Quantity, out.Deleted = t.From, t.To, t.Delete
		return apply(ctx, r, sku.ID, loc.ID, t)
	})
	if err != nil {
		return nil, err
	}
	uc.logAdjustment(out)
	return out, nil
}

// Transfer mueve quantity unidades (nil = todas) de un SKU entre dos ubicaciones.
// Con CreateIfMissing la etiqueta destino se crea en la misma transacción.
func (uc *LedgerUseCase) Transfer(ctx context.Context, in dto.TransferRequest) (*dto.TransferResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser un entero positivo")
	}
	out := &dto.TransferResponse{OperationID: uuid.NewString()}
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		src, dst, err := uc.endpoints(ctx, r, in.Source, in.Dest, in.CreateIfMissing, out)
		if err != nil {
			return err
		}
		sku, err := resolver.Sku(ctx, r, dto.SkuRef(in.Sku, in.SkuEntity))
		if err != nil {
			return err
		}
		moved, err := move(ctx, r, sku.ID, src, dst, in.Quantity)
		if err != nil {
			return fmt.Errorf("%s en %s: %w", sku.Sku, src.Label, err)
		}
		out.Lines = []dto.TransferLine{{SkuID: sku.ID, Sku: sku.Sku, Moved: moved}}
		out.Moved = moved
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logTransfer(out)
	return out, nil
}

// TransferAll vacía el origen en el destino moviendo todos sus SKUs en una sola transacción:
// o se mueve todo o no se mueve nada. Con DeleteSource el origen se elimina al final.
func (uc *LedgerUseCase) TransferAll(ctx context.Context, in dto.TransferAllRequest) (*dto.TransferResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	out := &dto.TransferResponse{OperationID: uuid.NewString()}
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		src, dst, err := uc.endpoints(ctx, r, in.Source, in.Dest, in.CreateIfMissing, out)
		if err != nil {
			return err
		}
		lines, err := r.Stock.LinesByLocation(ctx, src.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: %s", domain.ErrNoInventory, src.Label)
		}
		out.Lines = make([]dto.TransferLine, 0, len(lines))
		for _, l := range lines {
			moved, err := move(ctx, r, l.SkuID, src, dst, nil)
			if err != nil {
				return fmt.Errorf("%s en %s: %w", l.Sku, src.Label, err)
			}
			out.Lines = append(out.Lines, dto.TransferLine{SkuID: l.SkuID, Sku: l.Sku, Moved: moved})
			out.Moved += moved
		}
		if in.DeleteSource {
			if err := r.Locations.Delete(ctx, src.ID); err != nil {
				return err
			}
			out.SourceDeleted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.logTransfer(out)
	return out, nil
}

// LocationStock devuelve las filas de stock de la ubicación y su total.
func (uc *LedgerUseCase) LocationStock(ctx context.Context, ref entity.LocationRef) (*dto.LocationStockResponse, error) {
	var out *dto.LocationStockResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		loc, err := uc.active.Location(ctx, r, ref)
		if err != nil {
			return err
		}
		summary, err := locationSummary(ctx, r, loc)
		if err != nil {
			return err
		}
		lines, err := r.Stock.LinesByLocation(ctx, loc.ID)
		if err != nil {
			return err
		}
		out = &dto.LocationStockResponse{
			Location: toLocationResponse(summary),
			Lines:    make([]dto.StockLineResponse, 0, len(lines)),
			Total:    summary.Total,
		}
		for _, l := range lines {
			out.Lines = append(out.Lines, dto.StockLineResponse{
				SkuID:      l.SkuID,
				Sku:        l.Sku,
				UPC:        l.UPC,
				LocationID: l.LocationID,
				Label:      l.Label,
				Warehouse:  l.WarehouseName,
				Quantity:   l.Quantity,
			})
		}
		return nil
	})
	return out, err
}

// LocationTotal suma las unidades de la ubicación (calculado, nunca almacenado).
func (uc *LedgerUseCase) LocationTotal(ctx context.Context, ref entity.LocationRef) (int64, error) {
	var total int64
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		loc, err := uc.active.Location(ctx, r, ref)
		if err != nil {
			return err
		}
		total, err = r.Stock.SumByLocation(ctx, loc.ID)
		return err
	})
	return total, err
}

// endpoints resuelve origen y destino de un traslado y los bloquea en orden de id.
func (uc *LedgerUseCase) endpoints(
	ctx context.Context,
	r repository.Store,
	source, dest dto.LocationRefRequest,
	createIfMissing bool,
	out *dto.TransferResponse,
) (*entity.Location, *entity.Location, error) {
	src, err := uc.active.Location(ctx, r, source.Ref())
	if err != nil {
		return nil, nil, err
	}
	dst, created, err := uc.destination(ctx, r, dest, createIfMissing)
	if err != nil {
		return nil, nil, err
	}
	if src.ID == dst.ID {
		return nil, nil, domain.NewValidationError("dest", "origen y destino son la misma ubicación")
	}
	if err := r.Locations.Lock(ctx, src.ID, dst.ID); err != nil {
		return nil, nil, err
	}
	out.SourceID, out.SourceLabel = src.ID, src.Label
	out.DestID, out.DestLabel, out.DestCreated = dst.ID, dst.Label, created
	return src, dst, nil
}

// destination resuelve la ubicación destino; por etiqueta puede crearla en la bodega indicada o activa.
func (uc *LedgerUseCase) destination(ctx context.Context, r repository.Store, in dto.LocationRefRequest, create bool) (*entity.Location, bool, error) {
	ref := in.Ref()
	if ref.Location.IsID() {
		l, err := resolver.Location(ctx, r, ref)
		return l, false, err
	}
	w, err := uc.active.Warehouse(ctx, r, ref.Warehouse)
	if err != nil {
		return nil, false, err
	}
	l, err := r.Locations.GetByLabelAndWarehouse(ctx, ref.Location.Name(), w.ID)
	if err != nil {
		return nil, false, err
	}
	if l != nil {
		return l, false, nil
	}
	if !create {
		return nil, false, fmt.Errorf("ubicación %s en bodega %q: %w", ref.Location, w.Name, domain.ErrNotFound)
	}
	label, err := entity.ValidateName("label", ref.Location.Name())
	if err != nil {
		return nil, false, err
	}
	l = &entity.Location{WarehouseID: w.ID, Label: label}
	if err := r.Locations.Create(ctx, l); err != nil {
		return nil, false, err
	}
	return l, true, nil
}

// move traslada qty unidades (nil = todas) con resta estricta en el origen.
func move(ctx context.Context, r repository.Store, skuID int64, src, dst *entity.Location, qty *int64) (int64, error) {
	current, err := onHand(ctx, r, skuID, src.ID)
	if err != nil {
		return 0, err
	}
	if current == 0 {
		return 0, domain.ErrNoInventory
	}
	k := current
	if qty != nil {
		k = *qty
	}
	t, err := inventory.Decrease(current, k)
	if err != nil {
		return 0, err
	}
	held, err := onHand(ctx, r, skuID, dst.ID)
	if err != nil {
		return 0, err
	}
	if _, err := inventory.Increase(held, k); err != nil {
		return 0, err
	}
	if err := apply(ctx, r, skuID, src.ID, t); err != nil {
		return 0, err
	}
	if _, err := r.Stock.Increment(ctx, skuID, dst.ID, k); err != nil {
		return 0, err
	}
	return k, nil
}

// onHand lee la cantidad actual con la fila bloqueada; 0 si no existe.
func onHand(ctx context.Context, r repository.Store, skuID, locationID int64) (int64, error) {
	row, err := r.Stock.GetForUpdate(ctx, skuID, locationID)
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	return row.Quantity, nil
}

// apply persiste una transición: borra, fija o no hace nada.
func apply(ctx context.Context, r repository.Store, skuID, locationID int64, t inventory.Transition) error {
	switch {
	case t.Noop():
		return nil
	case t.To == 0:
		return r.Stock.Delete(ctx, skuID, locationID)
	default:
		return r.Stock.Put(ctx, skuID, locationID, t.To)
	}
}

func locationSummary(ctx context.Context, r repository.Store, l *entity.Location) (*entity.LocationSummary, error) {
	s := &entity.LocationSummary{Location: *l}
	w, err := r.Warehouses.GetByID(ctx, l.WarehouseID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		s.WarehouseName = w.Name
		e, err := r.Entities.GetByID(ctx, w.EntityID)
		if err != nil {
			return nil, err
		}
		if e != nil {
			s.EntityName = e.Name
		}
	}
	s.Total, err = r.Stock.SumByLocation(ctx, l.ID)
	return s, err
}

func toLocationResponse(s *entity.LocationSummary) dto.LocationResponse {
	return dto.LocationResponse{
		ID:            s.ID,
		WarehouseID:   s.WarehouseID,
		WarehouseName: s.WarehouseName,
		EntityName:    s.EntityName,
		Label:         s.Label,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (uc *LedgerUseCase) logAdjustment(out *dto.AdjustmentResponse) {
	ev := uc.log.Info()
	if out.Warning != "" {
		ev = uc.log.Warn().Str("warning", out.Warning).Int64("short", out.Short)
	}
	ev.Str("op_id", out.OperationID).
		Str("action", out.Action).
		Int64("sku_id", out.SkuID).
		Int64("location_id", out.LocationID).
		Int64("previous", out.Previous).
		Int64("quantity", out.Quantity).
		Msg("ajuste de stock")
}

func (uc *LedgerUseCase) logTransfer(out *dto.TransferResponse) {
	uc.log.Info().
		Str("op_id", out.OperationID).
		Int64("source_id", out.SourceID).
		Int64("dest_id", out.DestID).
		Bool("dest_created", out.DestCreated).
		Bool("source_deleted", out.SourceDeleted).
		Int("skus", len(out.Lines)).
		Int64("moved", out.Moved).
		Msg("traslado de stock")
}
