package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/packaging"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// ContainerUseCase casos de uso de la jerarquía de empaques.
type ContainerUseCase struct {
	tx  ports.TxRunner
	log *logger.Logger
}

// NewContainerUseCase construye el caso de uso.
func NewContainerUseCase(tx ports.TxRunner, log *logger.Logger) *ContainerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ContainerUseCase{tx: tx, log: log.Named("container")}
}

// Create crea un contenedor; sin padre queda como raíz.
func (uc *ContainerUseCase) Create(ctx context.Context, in dto.CreateContainerRequest) (*dto.ContainerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name, err := entity.ValidateName("name", in.Name)
	if err != nil {
		return nil, err
	}
	c := &entity.Container{Name: name, Description: strings.TrimSpace(in.Description)}
	if in.ParentID != nil {
		c.ParentID = *in.ParentID
	}
	var out *dto.ContainerResponse
	err = uc.tx.Run(ctx, func(r repository.Store) error {
		if c.ParentID != 0 {
			p, err := r.Containers.GetByID(ctx, c.ParentID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("contenedor padre #%d: %w", c.ParentID, domain.ErrNotFound)
			}
		}
		if err := r.Containers.Create(ctx, c); err != nil {
			return err
		}
		tree, err := loadTree(ctx, r)
		if err != nil {
			return err
		}
		out = toContainerResponse(c, tree)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("container_id", c.ID).Int64("parent_id", c.ParentID).Str("name", c.Name).Msg("contenedor creado")
	return out, nil
}

// Move cuelga el contenedor id bajo parentID. parentID == id lo convierte en raíz;
// un movimiento que crea un ciclo se rechaza con ValidationError.
func (uc *ContainerUseCase) Move(ctx context.Context, id int64, in dto.MoveContainerRequest) (*dto.ContainerResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var out *dto.ContainerResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		tree, err := loadTree(ctx, r)
		if err != nil {
			return err
		}
		if err := tree.Reparent(id, in.ParentID); err != nil {
			return err
		}
		if err := r.Containers.UpdateParent(ctx, id, in.ParentID); err != nil {
			return err
		}
		c, err := r.Containers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = toContainerResponse(c, tree)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("container_id", id).Int64("parent_id", in.ParentID).Msg("contenedor movido")
	return out, nil
}

// List lista los contenedores con su profundidad.
func (uc *ContainerUseCase) List(ctx context.Context) ([]dto.ContainerResponse, error) {
	var items []dto.ContainerResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		list, err := r.Containers.List(ctx)
		if err != nil {
			return err
		}
		tree, err := treeOf(list)
		if err != nil {
			return err
		}
		items = make([]dto.ContainerResponse, 0, len(list))
		for _, c := range list {
			items = append(items, *toContainerResponse(c, tree))
		}
		return nil
	})
	return items, err
}

func loadTree(ctx context.Context, r repository.Store) (*packaging.Tree, error) {
	list, err := r.Containers.List(ctx)
	if err != nil {
		return nil, err
	}
	return treeOf(list)
}

func treeOf(list []*entity.Container) (*packaging.Tree, error) {
	edges := make(map[int64]int64, len(list))
	for _, c := range list {
		edges[c.ID] = c.ParentID
	}
	return packaging.Load(edges)
}

func toContainerResponse(c *entity.Container, tree *packaging.Tree) *dto.ContainerResponse {
	return &dto.ContainerResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Description: c.Description,
		Root:        c.IsRoot(),
		Depth:       tree.Depth(c.ID),
	}
}
