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

// WarehouseUseCase casos de uso para bodegas, incluida la bodega activa.
type WarehouseUseCase struct {
	tx     ports.TxRunner
	active *session.ActiveWarehouse
	log    *logger.Logger
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(tx ports.TxRunner, active *session.ActiveWarehouse, log *logger.Logger) *WarehouseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WarehouseUseCase{tx: tx, active: active, log: log.Named("warehouse")}
}

// Create crea una nueva bodega bajo la entidad indicada.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name, err := entity.ValidateName("name", in.Name)
	if err != nil {
		return nil, err
	}
	var out *dto.WarehouseResponse
	err = uc.tx.Run(ctx, func(r repository.Store) error {
		e, err := resolver.Entity(ctx, r, entity.ParseIdentifier(in.Entity))
		if err != nil {
			return err
		}
		w := &entity.Warehouse{EntityID: e.ID, Name: name}
		if err := r.Warehouses.Create(ctx, w); err != nil {
			return err
		}
		out = toWarehouseResponse(w, e.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("warehouse_id", out.ID).Str("name", out.Name).Str("entity", out.EntityName).Msg("bodega creada")
	return out, nil
}

// Resolve obtiene una bodega por referencia.
func (uc *WarehouseUseCase) Resolve(ctx context.Context, ref entity.WarehouseRef) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		w, err := resolver.Warehouse(ctx, r, ref)
		if err != nil {
			return err
		}
		out, err = uc.describe(ctx, r, w)
		return err
	})
	return out, err
}

// Update renombra la bodega y/o la pasa a otra entidad. Si era la activa, la caché se refresca.
func (uc *WarehouseUseCase) Update(ctx context.Context, ref entity.WarehouseRef, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Entity == nil {
		return nil, domain.NewValidationError("name", "nada que actualizar")
	}
	var (
		out       *dto.WarehouseResponse
		updated   *entity.Warehouse
		wasActive bool
	)
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		w, err := resolver.Warehouse(ctx, r, ref)
		if err != nil {
			return err
		}
		if in.Entity != nil {
			e, err := resolver.Entity(ctx, r, entity.ParseIdentifier(*in.Entity))
			if err != nil {
				return err
			}
			w.EntityID = e.ID
		}
		if in.Name != nil {
			if w.Name, err = entity.ValidateName("name", *in.Name); err != nil {
				return err
			}
		}
		if err := r.Warehouses.Update(ctx, w); err != nil {
			return err
		}
		if cur, err := uc.active.Get(ctx, r); err == nil && cur != nil && cur.ID == w.ID {
			wasActive = true
		}
		updated = w
		out, err = uc.describe(ctx, r, w)
		return err
	})
	if err != nil {
		return nil, err
	}
	if wasActive {
		if err := uc.active.Remember(ctx, updated); err != nil {
			return nil, err
		}
		out.Active = true
	}
	uc.log.Info().Int64("warehouse_id", out.ID).Str("name", out.Name).Msg("bodega actualizada")
	return out, nil
}

// Delete elimina una bodega. Con ubicaciones se rechaza (ErrHasDependents) salvo force,
// y force solo procede si ninguna ubicación tiene stock (ErrHasInventory).
func (uc *WarehouseUseCase) Delete(ctx context.Context, ref entity.WarehouseRef, force bool) error {
	var (
		w         *entity.Warehouse
		wasActive bool
	)
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		w, err = resolver.Warehouse(ctx, r, ref)
		if err != nil {
			return err
		}
		n, err := r.Locations.CountByWarehouse(ctx, w.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			if !force {
				return fmt.Errorf("%w: la bodega %q tiene %d ubicaciones", domain.ErrHasDependents, w.Name, n)
			}
			if err := lockWarehouseLocations(ctx, r, w.ID); err != nil {
				return err
			}
			rows, err := r.Stock.CountByWarehouse(ctx, w.ID)
			if err != nil {
				return err
			}
			if rows > 0 {
				return fmt.Errorf("%w: la bodega %q tiene %d filas de stock", domain.ErrHasInventory, w.Name, rows)
			}
			if err := r.Locations.DeleteByWarehouse(ctx, w.ID); err != nil {
				return err
			}
		}
		if cur, err := uc.active.Get(ctx, r); err == nil && cur != nil && cur.ID == w.ID {
			wasActive = true
		}
		return r.Warehouses.Delete(ctx, w.ID)
	})
	if err != nil {
		return err
	}
	if wasActive {
		if err := uc.active.Deactivate(ctx); err != nil {
			return err
		}
	}
	uc.log.Info().Int64("warehouse_id", w.ID).Bool("force", force).Msg("bodega eliminada")
	return nil
}

// List lista bodegas, opcionalmente de una sola entidad, marcando la activa.
func (uc *WarehouseUseCase) List(ctx context.Context, entityRef *entity.Identifier) ([]dto.WarehouseResponse, error) {
	var items []dto.WarehouseResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		var filter *int64
		if entityRef != nil {
			e, err := resolver.Entity(ctx, r, *entityRef)
			if err != nil {
				return err
			}
			filter = &e.ID
		}
		list, err := r.Warehouses.List(ctx, filter)
		if err != nil {
			return err
		}
		entities, err := r.Entities.List(ctx)
		if err != nil {
			return err
		}
		names := make(map[int64]string, len(entities))
		for _, e := range entities {
			names[e.ID] = e.Name
		}
		active, err := uc.active.Get(ctx, r)
		if err != nil {
			return err
		}
		items = make([]dto.WarehouseResponse, 0, len(list))
		for _, w := range list {
			resp := toWarehouseResponse(w, names[w.EntityID])
			resp.Active = active != nil && active.ID == w.ID
			items = append(items, *resp)
		}
		return nil
	})
	return items, err
}

// Activate resuelve la bodega y la deja como activa.
func (uc *WarehouseUseCase) Activate(ctx context.Context, ref entity.WarehouseRef) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		w, err := uc.active.Activate(ctx, r, ref)
		if err != nil {
			return err
		}
		out, err = uc.describe(ctx, r, w)
		return err
	})
	if err != nil {
		return nil, err
	}
	out.Active = true
	return out, nil
}

// Deactivate olvida la bodega activa; sin bodega activa no hace nada.
func (uc *WarehouseUseCase) Deactivate(ctx context.Context) error {
	return uc.active.Deactivate(ctx)
}

// Active devuelve la bodega activa o nil.
func (uc *WarehouseUseCase) Active(ctx context.Context) (*dto.WarehouseResponse, error) {
	var out *dto.WarehouseResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		w, err := uc.active.Get(ctx, r)
		if err != nil || w == nil {
			return err
		}
		out, err = uc.describe(ctx, r, w)
		return err
	})
	if out != nil {
		out.Active = true
	}
	return out, err
}

func (uc *WarehouseUseCase) describe(ctx context.Context, r repository.Store, w *entity.Warehouse) (*dto.WarehouseResponse, error) {
	e, err := r.Entities.GetByID(ctx, w.EntityID)
	if err != nil {
		return nil, err
	}
	name := ""
	if e != nil {
		name = e.Name
	}
	return toWarehouseResponse(w, name), nil
}

func toWarehouseResponse(w *entity.Warehouse, entityName string) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:         w.ID,
		EntityID:   w.EntityID,
		EntityName: entityName,
		Name:       w.Name,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}
