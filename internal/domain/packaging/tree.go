// Package packaging modela la jerarquía de contenedores (empaques) como un arena de nodos
// con índice explícito al padre. La raíz se identifica porque es su propio padre.
package packaging

import (
	"fmt"
	"sort"

	"github.com/jhoicas/honey-inventory/internal/domain"
)

// Tree arena de contenedores: id -> id del padre.
type Tree struct {
	parent map[int64]int64
}

// NewTree construye un árbol vacío.
func NewTree() *Tree {
	return &Tree{parent: make(map[int64]int64)}
}

// Load construye el árbol desde pares (id, padre) ya persistidos y valida que no haya ciclos.
func Load(edges map[int64]int64) (*Tree, error) {
	t := NewTree()
	for id, p := range edges {
		t.parent[id] = p
	}
	for id, p := range edges {
		if p != id {
			if _, ok := t.parent[p]; !ok {
				return nil, fmt.Errorf("%w: contenedor %d apunta a padre inexistente %d", domain.ErrNotFound, id, p)
			}
		}
		if t.hasCycle(id) {
			return nil, fmt.Errorf("%w: ciclo en contenedor %d", domain.ErrInvalidInput, id)
		}
	}
	return t, nil
}

// Contains indica si el nodo existe.
func (t *Tree) Contains(id int64) bool {
	_, ok := t.parent[id]
	return ok
}

// Parent devuelve el padre del nodo.
func (t *Tree) Parent(id int64) (int64, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// InsertRoot agrega un nodo raíz (auto-referenciado).
func (t *Tree) InsertRoot(id int64) error {
	if t.Contains(id) {
		return fmt.Errorf("%w: contenedor %d", domain.ErrDuplicate, id)
	}
	t.parent[id] = id
	return nil
}

// Insert agrega un nodo hijo de parent. El padre debe existir.
func (t *Tree) Insert(id, parent int64) error {
	if t.Contains(id) {
		return fmt.Errorf("%w: contenedor %d", domain.ErrDuplicate, id)
	}
	if id == parent {
		return t.InsertRoot(id)
	}
	if !t.Contains(parent) {
		return fmt.Errorf("%w: contenedor padre %d", domain.ErrNotFound, parent)
	}
	t.parent[id] = parent
	return nil
}

// CanReparent valida mover id bajo newParent sin modificar el árbol.
func (t *Tree) CanReparent(id, newParent int64) error {
	if !t.Contains(id) {
		return fmt.Errorf("%w: contenedor %d", domain.ErrNotFound, id)
	}
	if id == newParent {
		return nil
	}
	if !t.Contains(newParent) {
		return fmt.Errorf("%w: contenedor padre %d", domain.ErrNotFound, newParent)
	}
	for _, a := range t.Ancestors(newParent) {
		if a == id {
			return domain.NewValidationError("parent", fmt.Sprintf("mover %d bajo %d crea un ciclo", id, newParent))
		}
	}
	return nil
}

// Reparent mueve id bajo newParent. newParent == id lo convierte en raíz.
func (t *Tree) Reparent(id, newParent int64) error {
	if err := t.CanReparent(id, newParent); err != nil {
		return err
	}
	t.parent[id] = newParent
	return nil
}

// Ancestors devuelve la cadena desde id (incluido) hasta la raíz (incluida).
func (t *Tree) Ancestors(id int64) []int64 {
	var out []int64
	seen := make(map[int64]bool)
	cur := id
	for {
		p, ok := t.parent[cur]
		if !ok || seen[cur] {
			return out
		}
		seen[cur] = true
		out = append(out, cur)
		if p == cur {
			return out
		}
		cur = p
	}
}

// Children devuelve los hijos directos ordenados (la raíz no es hija de sí misma).
func (t *Tree) Children(id int64) []int64 {
	var out []int64
	for n, p := range t.parent {
		if p == id && n != id {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Depth número de saltos hasta la raíz.
func (t *Tree) Depth(id int64) int {
	return len(t.Ancestors(id)) - 1
}

func (t *Tree) hasCycle(id int64) bool {
	seen := make(map[int64]bool)
	cur := id
	for {
		p, ok := t.parent[cur]
		if !ok || p == cur {
			return false
		}
		if seen[cur] {
			return true
		}
		seen[cur] = true
		cur = p
	}
}
