package pos

import (
	"testing"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widget(stock int) *models.Product {
	return &models.Product{ID: 1, Name: "Widget", Quantity: stock, UnitPriceCents: 999}
}

func TestCartAdd(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(widget(5), 3))

	require.Equal(t, 1, cart.Len())
	line := cart.Lines()[0]
	assert.Equal(t, uint(1), line.ProductID)
	assert.Equal(t, "Widget", line.ProductName)
	assert.Equal(t, int64(999), line.UnitPriceCents)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, int64(2997), cart.TotalCents())
}

func TestCartAddInsufficientStock(t *testing.T) {
	cart := NewCart()

	err := cart.Add(widget(5), 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	err = cart.Add(widget(5), 0)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	err = cart.Add(widget(5), -1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 0, cart.Len())
}

func TestCartSnapshotNotRefreshed(t *testing.T) {
	cart := NewCart()
	p := widget(5)
	require.NoError(t, cart.Add(p, 2))

	// later price change must not leak into the pending line
	p.UnitPriceCents = 1299
	assert.Equal(t, int64(999), cart.Lines()[0].UnitPriceCents)
	assert.Equal(t, int64(1998), cart.TotalCents())
}

func TestCartRemoveKeepsOrder(t *testing.T) {
	cart := NewCart()
	for _, p := range []*models.Product{
		{ID: 1, Name: "A", Quantity: 9, UnitPriceCents: 100},
		{ID: 2, Name: "B", Quantity: 9, UnitPriceCents: 200},
		{ID: 3, Name: "C", Quantity: 9, UnitPriceCents: 300},
	} {
		require.NoError(t, cart.Add(p, 1))
	}

	require.True(t, cart.Remove(1))
	require.Equal(t, 2, cart.Len())
	assert.Equal(t, "A", cart.Lines()[0].ProductName)
	assert.Equal(t, "C", cart.Lines()[1].ProductName)

	assert.False(t, cart.Remove(5))
	assert.False(t, cart.Remove(-1))
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	require.NoError(t, cart.Add(widget(5), 2))

	cart.Clear()
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, int64(0), cart.TotalCents())
}

func TestSessionCarts(t *testing.T) {
	carts := NewSessionCarts()

	a := carts.Get(1)
	b := carts.Get(2)
	assert.NotSame(t, a, b)

	// same operator gets the same cart back
	require.NoError(t, a.Add(widget(5), 1))
	assert.Equal(t, 1, carts.Get(1).Len())
	assert.Equal(t, 0, carts.Get(2).Len())

	carts.Drop(1)
	assert.Equal(t, 0, carts.Get(1).Len())
}
