package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/application/resolver"
	"github.com/jhoicas/honey-inventory/internal/application/session"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// LocationUseCase casos de uso para ubicaciones de inventario.
type LocationUseCase struct {
	tx     ports.TxRunner
	active *session.ActiveWarehouse
	log    *logger.Logger
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(tx ports.TxRunner, active *session.ActiveWarehouse, log *logger.Logger) *LocationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LocationUseCase{tx: tx, active: active, log: log.Named("location")}
}

// Create crea una ubicación en la bodega indicada o en la activa.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	label, err := entity.ValidateName("label", in.Label)
	if err != nil {
		return nil, err
	}
	var out *dto.LocationResponse
	err = uc.tx.Run(ctx, func(r repository.Store) error {
		w, err := uc.active.Warehouse(ctx, r, dto.OptionalWarehouseRef(in.Warehouse, in.Entity))
		if err != nil {
			return err
		}
		l := &entity.Location{WarehouseID: w.ID, Label: label}
		if err := r.Locations.Create(ctx, l); err != nil {
			return err
		}
		out, err = describeLocation(ctx, r, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("location_id", out.ID).Str("label", out.Label).Str("warehouse", out.WarehouseName).Msg("ubicación creada")
	return out, nil
}

// Resolve obtiene una ubicación con su total.
func (uc *LocationUseCase) Resolve(ctx context.Context, ref entity.LocationRef) (*dto.LocationResponse, error) {
	var out *dto.LocationResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		l, err := uc.active.Location(ctx, r, ref)
		if err != nil {
			return err
		}
		out, err = describeLocation(ctx, r, l)
		return err
	})
	return out, err
}

// Update renombra la ubicación y/o la mueve a otra bodega; su stock la acompaña.
func (uc *LocationUseCase) Update(ctx context.Context, ref entity.LocationRef, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Label == nil && in.Warehouse == nil {
		return nil, domain.NewValidationError("label", "nada que actualizar")
	}
	var out *dto.LocationResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		l, err := uc.active.Location(ctx, r, ref)
		if err != nil {
			return err
		}
		if in.Warehouse != nil {
			entityRaw := ""
			if in.Entity != nil {
				entityRaw = *in.Entity
			}
			w, err := resolver.Warehouse(ctx, r, dto.WarehouseRef(*in.Warehouse, entityRaw))
			if err != nil {
				return err
			}
			l.WarehouseID = w.ID
		}
		if in.Label != nil {
			if l.Label, err = entity.ValidateName("label", *in.Label); err != nil {
				return err
			}
		}
		if err := r.Locations.Update(ctx, l); err != nil {
			return err
		}
		out, err = describeLocation(ctx, r, l)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("location_id", out.ID).Str("label", out.Label).Msg("ubicación actualizada")
	return out, nil
}

// Delete elimina una ubicación vacía. Con stock se rechaza con ErrHasInventory;
// hay que trasladarlo antes.
func (uc *LocationUseCase) Delete(ctx context.Context, ref entity.LocationRef) error {
	var l *entity.Location
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		l, err = uc.active.Location(ctx, r, ref)
		if err != nil {
			return err
		}
		// Con la fila bloqueada ningún escaneo concurrente puede agregar stock antes del DELETE.
		if err := r.Locations.Lock(ctx, l.ID); err != nil {
			return err
		}
		rows, err := r.Stock.ListByLocation(ctx, l.ID)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			return fmt.Errorf("%w: %q tiene %d SKUs", domain.ErrHasInventory, l.Label, len(rows))
		}
		return r.Locations.Delete(ctx, l.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("location_id", l.ID).Str("label", l.Label).Msg("ubicación eliminada")
	return nil
}

// List lista ubicaciones con sus totales; ref nil = todas las bodegas.
func (uc *LocationUseCase) List(ctx context.Context, ref *entity.WarehouseRef) ([]dto.LocationResponse, error) {
	var items []dto.LocationResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		var filters []*int64
		switch {
		case ref == nil:
			filters = []*int64{nil}
		case ref.Warehouse.IsZero():
			// Solo entidad: todas las bodegas de esa entidad.
			e, err := resolver.Entity(ctx, r, *ref.Entity)
			if err != nil {
				return err
			}
			whs, err := r.Warehouses.List(ctx, &e.ID)
			if err != nil {
				return err
			}
			for _, w := range whs {
				filters = append(filters, &w.ID)
			}
		default:
			w, err := resolver.Warehouse(ctx, r, *ref)
			if err != nil {
				return err
			}
			filters = []*int64{&w.ID}
		}
		items = make([]dto.LocationResponse, 0)
		for _, f := range filters {
			list, err := r.Locations.ListSummaries(ctx, f)
			if err != nil {
				return err
			}
			for _, s := range list {
				items = append(items, toLocationResponse(s))
			}
		}
		return nil
	})
	return items, err
}

// describeLocation arma la respuesta de una ubicación con bodega, entidad y total.
func describeLocation(ctx context.Context, r repository.Store, l *entity.Location) (*dto.LocationResponse, error) {
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
	if s.Total, err = r.Stock.SumByLocation(ctx, l.ID); err != nil {
		return nil, err
	}
	resp := toLocationResponse(s)
	return &resp, nil
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

// lockWarehouseLocations bloquea, en orden de id, todas las ubicaciones de las bodegas
// antes de comprobar que no tienen stock.
func lockWarehouseLocations(ctx context.Context, r repository.Store, warehouseIDs ...int64) error {
	var ids []int64
	for _, wid := range warehouseIDs {
		list, err := r.Locations.ListSummaries(ctx, &wid)
		if err != nil {
			return err
		}
		for _, l := range list {
			ids = append(ids, l.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return r.Locations.Lock(ctx, ids...)
}
