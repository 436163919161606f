// Package memory implementa los puertos de persistencia y caché en memoria.
// Se usa en las pruebas y con STORE_DRIVER=memory; respeta las mismas reglas de
// unicidad y borrado en cascada que el esquema PostgreSQL.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/jhoicas/honey-inventory/internal/application/ports"
	"github.com/jhoicas/honey-inventory/internal/domain/entity"
	"github.com/jhoicas/honey-inventory/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type stockKey struct{ sku, loc int64 }

type linkKey struct{ sku, attr int64 }

type state struct {
	seq        map[string]int64
	entities   map[int64]entity.Entity
	warehouses map[int64]entity.Warehouse
	locations  map[int64]entity.Location
	skus       map[int64]entity.ProductSku
	attributes map[int64]entity.SkuAttribute
	links      map[linkKey]struct{}
	containers map[int64]entity.Container
	stock      map[stockKey]entity.StockAssociation
}

func newState() *state {
	return &state{
		seq:        map[string]int64{},
		entities:   map[int64]entity.Entity{},
		warehouses: map[int64]entity.Warehouse{},
		locations:  map[int64]entity.Location{},
		skus:       map[int64]entity.ProductSku{},
		attributes: map[int64]entity.SkuAttribute{},
		links:      map[linkKey]struct{}{},
		containers: map[int64]entity.Container{},
		stock:      map[stockKey]entity.StockAssociation{},
	}
}

// clone copia superficial por tabla: las filas se guardan por valor y sus punteros nunca se mutan.
func (s *state) clone() *state {
	return &state{
		seq:        maps.Clone(s.seq),
		entities:   maps.Clone(s.entities),
		warehouses: maps.Clone(s.warehouses),
		locations:  maps.Clone(s.locations),
		skus:       maps.Clone(s.skus),
		attributes: maps.Clone(s.attributes),
		links:      maps.Clone(s.links),
		containers: maps.Clone(s.containers),
		stock:      maps.Clone(s.stock),
	}
}

func (s *state) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Store guarda todo el estado bajo un único mutex. Cada Run trabaja sobre una copia
// que solo reemplaza al estado confirmado si fn termina sin error.
type Store struct {
	mu    sync.Mutex
	state *state
	nowFn func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState(), nowFn: func() time.Time { return time.Now().UTC() }}
}

// Run ejecuta fn con repositorios atados a una copia del estado (Commit al terminar sin error).
// fn no debe llamar a Run de nuevo: el mutex no es reentrante.
func (s *Store) Run(ctx context.Context, fn func(store repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txState{st: s.state.clone(), now: s.nowFn()}
	if err := fn(tx.repos()); err != nil {
		return err
	}
	s.state = tx.st
	return nil
}

// txState es el estado visible dentro de una transacción.
type txState struct {
	st  *state
	now time.Time
}

func (t *txState) repos() repository.Store {
	return repository.Store{
		Entities:   entityRepo{t},
		Warehouses: warehouseRepo{t},
		Locations:  locationRepo{t},
		Skus:       skuRepo{t},
		Attributes: attributeRepo{t},
		Containers: containerRepo{t},
		Stock:      stockRepo{t},
	}
}

// cascadas equivalentes a ON DELETE CASCADE del esquema

func (t *txState) deleteLocation(id int64) {
	for k := range t.st.stock {
		if k.loc == id {
			delete(t.st.stock, k)
		}
	}
	delete(t.st.locations, id)
}

func (t *txState) deleteWarehouse(id int64) {
	for lid, l := range t.st.locations {
		if l.WarehouseID == id {
			t.deleteLocation(lid)
		}
	}
	delete(t.st.warehouses, id)
}

func (t *txState) deleteSku(id int64) {
	for k := range t.st.stock {
		if k.sku == id {
			delete(t.st.stock, k)
		}
	}
	for k := range t.st.links {
		if k.sku == id {
			delete(t.st.links, k)
		}
	}
	delete(t.st.skus, id)
}

func (t *txState) deleteAttribute(id int64) {
	for k := range t.st.links {
		if k.attr == id {
			delete(t.st.links, k)
		}
	}
	delete(t.st.attributes, id)
}

func cloneSku(p entity.ProductSku) *entity.ProductSku {
	cp := p
	if p.UPC != nil {
		upc := *p.UPC
		cp.UPC = &upc
	}
	if p.ContainerID != nil {
		cid := *p.ContainerID
		cp.ContainerID = &cid
	}
	return &cp
}
