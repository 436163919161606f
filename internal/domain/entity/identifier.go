package entity

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/honey-inventory/internal/domain"
)

// Identifier referencia a una fila por id numérico o por nombre/etiqueta.
// Es una variante etiquetada: exactamente uno de los dos modos está activo.
type Identifier struct {
	id   int64
	name string
	byID bool
}

// ByID construye un Identifier por clave primaria.
func ByID(id int64) Identifier {
	return Identifier{id: id, byID: true}
}

// ByName construye un Identifier por nombre (normalizado NFC y sin espacios en los extremos).
func ByName(name string) Identifier {
	return Identifier{name: NormalizeName(name)}
}

// ParseIdentifier interpreta la entrada cruda de CLI/HTTP: solo dígitos => id, si no => nombre.
func ParseIdentifier(raw string) Identifier {
	s := strings.TrimSpace(raw)
	if s != "" && isDigits(s) {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return ByID(id)
		}
	}
	return ByName(s)
}

// ParseOptionalIdentifier devuelve nil si raw está vacío.
func ParseOptionalIdentifier(raw string) *Identifier {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	id := ParseIdentifier(raw)
	return &id
}

// IsID indica si la referencia es por id.
func (i Identifier) IsID() bool { return i.byID }

// ID devuelve el id (0 si es por nombre).
func (i Identifier) ID() int64 { return i.id }

// Name devuelve el nombre ("" si es por id).
func (i Identifier) Name() string { return i.name }

// IsZero indica una referencia vacía.
func (i Identifier) IsZero() bool { return !i.byID && i.name == "" }

func (i Identifier) String() string {
	if i.byID {
		return "#" + strconv.FormatInt(i.id, 10)
	}
	return strconv.Quote(i.name)
}

// NormalizeName aplica NFC y recorta espacios; se usa para nombres, etiquetas y códigos.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ValidateName normaliza un nombre, etiqueta o código nuevo. Se rechazan los vacíos y los
// compuestos solo por dígitos: ParseIdentifier los tomaría como id y nunca se podrían
// referenciar por nombre.
func ValidateName(field, raw string) (string, error) {
	s := NormalizeName(raw)
	if s == "" {
		return "", domain.NewValidationError(field, "no puede estar vacío")
	}
	if isDigits(s) {
		return "", domain.NewValidationError(field, "no puede ser solo dígitos")
	}
	return s, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WarehouseRef referencia a una bodega con la entidad dueña como desambiguador opcional.
type WarehouseRef struct {
	Warehouse Identifier
	Entity    *Identifier
}

// LocationRef referencia a una ubicación con la bodega como desambiguador opcional.
// Sin bodega, las referencias por etiqueta usan la bodega activa.
type LocationRef struct {
	Location  Identifier
	Warehouse *WarehouseRef
}

// SkuRef referencia a un SKU con la entidad dueña como desambiguador opcional.
type SkuRef struct {
	Sku    Identifier
	Entity *Identifier
}
