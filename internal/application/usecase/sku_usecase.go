package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/honey-inventory/internal/application/dto"
	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/application/resolver"
	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

// SkuUseCase casos de uso del catálogo de SKUs y sus atributos.
type SkuUseCase struct {
	tx  ports.TxRunner
	log *logger.Logger
}

// NewSkuUseCase construye el caso de uso.
func NewSkuUseCase(tx ports.TxRunner, log *logger.Logger) *SkuUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SkuUseCase{tx: tx, log: log.Named("sku")}
}

// Create registra un SKU. Código repetido en la entidad o UPC repetido => ErrDuplicate.
func (uc *SkuUseCase) Create(ctx context.Context, in dto.CreateSkuRequest) (*dto.SkuResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	code, err := entity.ValidateName("sku", in.Sku)
	if err != nil {
		return nil, err
	}
	s := &entity.ProductSku{
		Sku:         code,
		Description: strings.TrimSpace(in.Description),
		ContainerID: in.ContainerID,
	}
	if upc := strings.TrimSpace(in.UPC); upc != "" {
		s.UPC = &upc
	}
	err = uc.tx.Run(ctx, func(r repository.Store) error {
		e, err := resolver.Entity(ctx, r, entity.ParseIdentifier(in.Entity))
		if err != nil {
			return err
		}
		s.EntityID = e.ID
		if s.ContainerID != nil {
			c, err := r.Containers.GetByID(ctx, *s.ContainerID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("contenedor #%d: %w", *s.ContainerID, domain.ErrNotFound)
			}
		}
		return r.Skus.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("sku_id", s.ID).Str("sku", s.Sku).Str("upc", s.UPCValue()).Msg("sku creado")
	return toSkuResponse(s), nil
}

// FindByUPC busca un SKU por código de barras; nil si no existe.
func (uc *SkuUseCase) FindByUPC(ctx context.Context, upc string) (*dto.SkuResponse, error) {
	var s *entity.ProductSku
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		s, err = r.Skus.GetByUPC(ctx, strings.TrimSpace(upc))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSkuResponse(s), nil
}

// Resolve obtiene un SKU por id o código.
func (uc *SkuUseCase) Resolve(ctx context.Context, ref entity.SkuRef) (*dto.SkuResponse, error) {
	var s *entity.ProductSku
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		s, err = resolver.Sku(ctx, r, ref)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSkuResponse(s), nil
}

// Show devuelve el SKU con sus atributos y en qué ubicaciones hay stock.
func (uc *SkuUseCase) Show(ctx context.Context, ref entity.SkuRef) (*dto.SkuDetailResponse, error) {
	var out *dto.SkuDetailResponse
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		s, err := resolver.Sku(ctx, r, ref)
		if err != nil {
			return err
		}
		attrs, err := r.Attributes.ListBySku(ctx, s.ID)
		if err != nil {
			return err
		}
		lines, err := r.Stock.LinesBySku(ctx, s.ID)
		if err != nil {
			return err
		}
		out = &dto.SkuDetailResponse{
			SkuResponse: *toSkuResponse(s),
			Attributes:  toAttributeResponses(attrs),
			Locations:   toStockLineResponses(lines),
		}
		for _, l := range lines {
			out.Total += l.Quantity
		}
		return nil
	})
	return out, err
}

// Locations lista las filas de stock del SKU (solo lectura).
func (uc *SkuUseCase) Locations(ctx context.Context, ref entity.SkuRef) ([]dto.StockLineResponse, error) {
	var lines []*entity.StockLine
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		s, err := resolver.Sku(ctx, r, ref)
		if err != nil {
			return err
		}
		lines, err = r.Stock.LinesBySku(ctx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toStockLineResponses(lines), nil
}

// List lista SKUs, opcionalmente de una entidad.
func (uc *SkuUseCase) List(ctx context.Context, entityRef *entity.Identifier) ([]dto.SkuResponse, error) {
	var list []*entity.ProductSku
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		var filter *int64
		if entityRef != nil {
			e, err := resolver.Entity(ctx, r, *entityRef)
			if err != nil {
				return err
			}
			filter = &e.ID
		}
		var err error
		list, err = r.Skus.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SkuResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSkuResponse(s))
	}
	return items, nil
}

// AddAttribute etiqueta el SKU con key=value. El atributo se comparte entre SKUs de la entidad.
func (uc *SkuUseCase) AddAttribute(ctx context.Context, ref entity.SkuRef, in dto.AttributeRequest) ([]dto.AttributeResponse, error) {
	key, value, err := attributePair(in)
	if err != nil {
		return nil, err
	}
	var attrs []*entity.SkuAttribute
	err = uc.tx.Run(ctx, func(r repository.Store) error {
		s, err := resolver.Sku(ctx, r, ref)
		if err != nil {
			return err
		}
		a, err := r.Attributes.FindOrCreate(ctx, s.EntityID, key, value)
		if err != nil {
			return err
		}
		if err := r.Attributes.Link(ctx, s.ID, a.ID); err != nil {
			return err
		}
		attrs, err = r.Attributes.ListBySku(ctx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAttributeResponses(attrs), nil
}

// RemoveAttribute quita la etiqueta key=value del SKU. Si no la tenía => ErrNotFound.
func (uc *SkuUseCase) RemoveAttribute(ctx context.Context, ref entity.SkuRef, in dto.AttributeRequest) ([]dto.AttributeResponse, error) {
	key, value, err := attributePair(in)
	if err != nil {
		return nil, err
	}
	var attrs []*entity.SkuAttribute
	err = uc.tx.Run(ctx, func(r repository.Store) error {
		s, err := resolver.Sku(ctx, r, ref)
		if err != nil {
			return err
		}
		a, err := r.Attributes.Get(ctx, s.EntityID, key, value)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("atributo %s=%s: %w", key, value, domain.ErrNotFound)
		}
		if err := r.Attributes.Unlink(ctx, s.ID, a.ID); err != nil {
			return err
		}
		attrs, err = r.Attributes.ListBySku(ctx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAttributeResponses(attrs), nil
}

// Attributes lista las etiquetas del SKU ordenadas por key y value.
func (uc *SkuUseCase) Attributes(ctx context.Context, ref entity.SkuRef) ([]dto.AttributeResponse, error) {
	var attrs []*entity.SkuAttribute
	err := uc.tx.Run(ctx, func(r repository.Store) error {
		s, err := resolver.Sku(ctx, r, ref)
		if err != nil {
			return err
		}
		attrs, err = r.Attributes.ListBySku(ctx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAttributeResponses(attrs), nil
}

// Delete elimina el SKU. Con stock se rechaza (ErrHasInventory) salvo force, que borra sus filas.
func (uc *SkuUseCase) Delete(ctx context.Context, ref entity.SkuRef, force bool) error {
	var (
		s    *entity.ProductSku
		rows int64
	)
	err := uc.tx.Run(ctx, func(r repository.Store) (err error) {
		s, err = resolver.Sku(ctx, r, ref)
		if err != nil {
			return err
		}
		rows, err = r.Stock.CountBySku(ctx, s.ID)
		if err != nil {
			return err
		}
		if rows > 0 && !force {
			return fmt.Errorf("%w: el sku %q está en %d ubicaciones", domain.ErrHasInventory, s.Sku, rows)
		}
		return r.Skus.Delete(ctx, s.ID)
	})
	if err != nil {
		return err
	}
	ev := uc.log.Info()
	if rows > 0 {
		ev = uc.log.Warn().Int64("stock_rows", rows)
	}
	ev.Int64("sku_id", s.ID).Str("sku", s.Sku).Msg("sku eliminado")
	return nil
}

func attributePair(in dto.AttributeRequest) (string, string, error) {
	if err := dto.Validate(in); err != nil {
		return "", "", err
	}
	key := entity.NormalizeName(in.Key)
	value := entity.NormalizeName(in.Value)
	if key == "" {
		return "", "", domain.NewValidationError("key", "no puede estar vacío")
	}
	if value == "" {
		return "", "", domain.NewValidationError("value", "no puede estar vacío")
	}
	return key, value, nil
}

func toSkuResponse(s *entity.ProductSku) *dto.SkuResponse {
	if s == nil {
		return nil
	}
	return &dto.SkuResponse{
		ID:          s.ID,
		EntityID:    s.EntityID,
		ContainerID: s.ContainerID,
		Sku:         s.Sku,
		UPC:         s.UPCValue(),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toAttributeResponses(attrs []*entity.SkuAttribute) []dto.AttributeResponse {
	out := make([]dto.AttributeResponse, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, dto.AttributeResponse{ID: a.ID, Key: a.Key, Value: a.Value})
	}
	return out
}

func toStockLineResponses(lines []*entity.StockLine) []dto.StockLineResponse {
	out := make([]dto.StockLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.StockLineResponse{
			SkuID:      l.SkuID,
			Sku:        l.Sku,
			UPC:        l.UPC,
			LocationID: l.LocationID,
			Label:      l.Label,
			Warehouse:  l.WarehouseName,
			Quantity:   l.Quantity,
		})
	}
	return out
}
