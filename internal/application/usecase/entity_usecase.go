package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/application/resolver"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// EntityUseCase casos de uso para entidades (dueñas de bodegas y SKUs).
type EntityUseCase struct {
	tx  ports.TxRunner
	log *logger.Logger
}

// NewEntityUseCase construye el caso de uso.
func NewEntityUseCase(tx ports.TxRunner, log *logger.Logger) *EntityUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EntityUseCase{tx: tx, log: log.Named("entity")}
}

// Create crea una entidad. Nombre repetido => domain.ErrDuplicate.
func (uc *EntityUseCase) Create(ctx context.Context, in dto.CreateEntityRequest) (*dto.EntityResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name, err := entity.ValidateName("name", in.Name)
	if err != nil {
		return nil, err
	}
	e := &entity.Entity{Name: name}
	if err := uc.tx.Run(ctx, func(r repository.Store) error {
		return r.Entities.Create(ctx, e)
	}); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("entity_id", e.ID).Str("name", e.Name).Msg("entidad creada")
	return toEntityResponse(e), nil
}

// Resolve obtiene una entidad por id o nombre.
func (uc *EntityUseCase) Resolve(ctx context.Context, id entity.Identifier) (*dto.EntityResponse, error) {
	var e *entity.Entity
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		e, err = resolver.Entity(ctx, r, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toEntityResponse(e), nil
}

// List lista todas las entidades.
func (uc *EntityUseCase) List(ctx context.Context) ([]dto.EntityResponse, error) {
	var list []*entity.Entity
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		list, err = r.Entities.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.EntityResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toEntityResponse(e))
	}
	return items, nil
}

// Delete elimina una entidad. Con bodegas o SKUs se rechaza (ErrHasDependents) salvo force;
// force borra en cascada solo si no queda stock debajo (ErrHasInventory).
func (uc *EntityUseCase) Delete(ctx context.Context, id entity.Identifier, force bool) error {
	var e *entity.Entity
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		e, err = resolver.Entity(ctx, r, id)
		if err != nil {
			return err
		}
		whs, err := r.Warehouses.List(ctx, &e.ID)
		if err != nil {
			return err
		}
		skus, err := r.Skus.List(ctx, &e.ID)
		if err != nil {
			return err
		}
		if len(whs)+len(skus) > 0 {
			if !force {
				return fmt.Errorf("%w: la entidad %q tiene %d bodegas y %d SKUs", domain.ErrHasDependents, e.Name, len(whs), len(skus))
			}
			ids := make([]int64, 0, len(whs))
			for _, w := range whs {
				ids = append(ids, w.ID)
			}
			if err := lockWarehouseLocations(ctx, r, ids...); err != nil {
				return err
			}
			n, err := r.Stock.CountByEntity(ctx, e.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: la entidad %q tiene %d filas de stock", domain.ErrHasInventory, e.Name, n)
			}
		}
		return r.Entities.Delete(ctx, e.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("entity_id", e.ID).Bool("force", force).Msg("entidad eliminada")
	return nil
}

func toEntityResponse(e *entity.Entity) *dto.EntityResponse {
	if e == nil {
		return nil
	}
	return &dto.EntityResponse{
		ID:        e.ID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
