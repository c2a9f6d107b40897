package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_CheckoutIsUnique(t *testing.T) {
	p := NewPool([]string{"a", "b", "c"})

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		v, err := p.Checkout()
		require.NoError(t, err)
		assert.False(t, seen[v], "value %q checked out twice", v)
		seen[v] = true
	}
	assert.Equal(t, 0, p.Remaining())
}

func TestPool_ExhaustionFails(t *testing.T) {
	p := NewPool([]string{"only"})

	_, err := p.Checkout()
	require.NoError(t, err)

	_, err = p.Checkout()
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestPool_ReleaseMakesValueReusable(t *testing.T) {
	p := NewOrderedPool([]string{"red"})

	v, err := p.Checkout()
	require.NoError(t, err)
	assert.Equal(t, "red", v)

	_, err = p.Checkout()
	require.ErrorIs(t, err, ErrPoolExhausted)

	p.Release("red")
	v, err = p.Checkout()
	require.NoError(t, err)
	assert.Equal(t, "red", v)
}

func TestPool_DoubleReleaseIsHarmless(t *testing.T) {
	p := NewOrderedPool([]string{"red", "green"})

	v, err := p.Checkout()
	require.NoError(t, err)

	p.Release(v)
	p.Release(v)
	assert.Equal(t, 2, p.Remaining())
}

func TestOrderedPool_ChecksOutInOrder(t *testing.T) {
	p := NewOrderedPool([]string{"first", "second", "third"})

	for _, expected := range []string{"first", "second", "third"} {
		v, err := p.Checkout()
		require.NoError(t, err)
		assert.Equal(t, expected, v)
	}
}
