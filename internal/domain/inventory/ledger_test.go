package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/honey-inventory/internal/domain"
	"github.com/jhoicas/honey-inventory/internal/domain/inventory"
)

func TestIncrease_CreaFilaDesdeAusente(t *testing.T) {
	tr, err := inventory.Increase(0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), tr.To)
	assert.True(t, tr.Create)
	assert.False(t, tr.Delete)
}

func TestIncrease_Suma(t *testing.T) {
	tr, err := inventory.Increase(3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tr.To)
	assert.False(t, tr.Create)
}

func TestIncrease_RechazaConteoNoPositivo(t *testing.T) {
	for _, k := range []int64{0, -1} {
		_, err := inventory.Increase(3, k)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestIncrease_RechazaDesborde(t *testing.T) {
	_, err := inventory.Increase(math.MaxInt64-1, 2)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "count", verr.Field)

	tr, err := inventory.Increase(math.MaxInt64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), tr.To)
}

func TestDecrease_ExactoBorraFila(t *testing.T) {
	tr, err := inventory.Decrease(4, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tr.To)
	assert.True(t, tr.Delete)
}

func TestDecrease_InsuficienteNoCambia(t *testing.T) {
	_, err := inventory.Decrease(2, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestDecrease_SinFila(t *testing.T) {
	_, err := inventory.Decrease(0, 1)
	assert.ErrorIs(t, err, domain.ErrNoInventory)
}

func TestClampDecrease(t *testing.T) {
	cases := []struct {
		name          string
		current, k    int64
		to, short     int64
		delete, noop  bool
	}{
		{name: "resta parcial", current: 5, k: 2, to: 3},
		{name: "exacto", current: 5, k: 5, to: 0, delete: true},
		{name: "excede", current: 2, k: 5, to: 0, short: 3, delete: true},
		{name: "ausente", current: 0, k: 1, to: 0, noop: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := inventory.ClampDecrease(tc.current, tc.k)
			require.NoError(t, err)
			assert.Equal(t, tc.to, tr.To)
			assert.Equal(t, tc.short, tr.Short)
			assert.Equal(t, tc.delete, tr.Delete)
			assert.Equal(t, tc.noop, tr.Noop())
		})
	}
}

func TestSet(t *testing.T) {
	tr, err := inventory.Set(0, 7)
	require.NoError(t, err)
	assert.True(t, tr.Create)

	tr, err = inventory.Set(7, 0)
	require.NoError(t, err)
	assert.True(t, tr.Delete)

	tr, err = inventory.Set(0, 0)
	require.NoError(t, err)
	assert.True(t, tr.Noop())
	assert.False(t, tr.Delete)

	_, err = inventory.Set(3, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Ninguna secuencia de operaciones deja una cantidad <= 0 sin marcar la fila para borrado.
func TestTransiciones_NuncaPersistenCero(t *testing.T) {
	current := int64(0)
	ops := []func(int64) (inventory.Transition, error){
		func(c int64) (inventory.Transition, error) { return inventory.Increase(c, 3) },
		func(c int64) (inventory.Transition, error) { return inventory.ClampDecrease(c, 1) },
		func(c int64) (inventory.Transition, error) { return inventory.Decrease(c, 2) },
		func(c int64) (inventory.Transition, error) { return inventory.Set(c, 4) },
		func(c int64) (inventory.Transition, error) { return inventory.ClampDecrease(c, 9) },
	}
	for _, op := range ops {
		tr, err := op(current)
		require.NoError(t, err)
		if tr.To == 0 {
			assert.True(t, tr.Delete || tr.From == 0)
		}
		assert.GreaterOrEqual(t, tr.To, int64(0))
		current = tr.To
	}
	assert.Equal(t, int64(0), current)
}
