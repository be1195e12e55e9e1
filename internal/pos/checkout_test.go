package pos

import (
	"context"
	"testing"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockStore tracks quantities in memory and records every write, so the
// tests can assert exactly which lines were committed.
type mockStore struct {
	quantities map[uint]int
	sales      []models.SaleRecord

	readErr error
	casErr  error
	saleErr error
}

func newMockStore(quantities map[uint]int) *mockStore {
	return &mockStore{quantities: quantities}
}

func (m *mockStore) GetProductQuantity(_ context.Context, id uint) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	q, ok := m.quantities[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	return q, nil
}

func (m *mockStore) CompareAndSetQuantity(_ context.Context, id uint, expected, quantity int) error {
	if m.casErr != nil {
		return m.casErr
	}
	if m.quantities[id] != expected {
		return store.ErrStaleQuantity
	}
	m.quantities[id] = quantity
	return nil
}

func (m *mockStore) AppendSale(_ context.Context, rec *models.SaleRecord) error {
	if m.saleErr != nil {
		return m.saleErr
	}
	m.sales = append(m.sales, *rec)
	return nil
}

func TestFinalizeEmptyCart(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5})
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	tx, err := engine.Finalize(context.Background(), NewCart())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, tx)

	// zero writes
	assert.Equal(t, 5, st.quantities[1])
	assert.Empty(t, st.sales)
}

func TestFinalizeSuccess(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5})
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	cart := NewCart()
	require.NoError(t, cart.Add(&models.Product{ID: 1, Name: "Widget", Quantity: 5, UnitPriceCents: 999}, 3))

	tx, err := engine.Finalize(context.Background(), cart)
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, 2, st.quantities[1])
	require.Len(t, st.sales, 1)
	rec := st.sales[0]
	assert.Equal(t, uint(1), rec.ProductID)
	assert.Equal(t, "Widget", rec.ProductName)
	assert.Equal(t, 3, rec.Quantity)
	assert.Equal(t, int64(999), rec.UnitPriceCents)
	assert.Equal(t, int64(2997), rec.LineTotalCents)
	assert.False(t, rec.CreatedAt.IsZero())

	assert.Equal(t, int64(2997), tx.TotalCents)
	assert.NotEmpty(t, tx.ID)
	assert.False(t, tx.FinalizedAt.IsZero())

	// the engine never clears the cart itself
	assert.Equal(t, 1, cart.Len())
}

func TestFinalizeStockExceeded(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5})
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	cart := NewCart()
	// snapshot read saw more stock than is there now
	require.NoError(t, cart.Add(&models.Product{ID: 1, Name: "Widget", Quantity: 10, UnitPriceCents: 999}, 10))

	tx, err := engine.Finalize(context.Background(), cart)
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, ErrStockExceeded)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, uint(1), lineErr.ProductID)
	assert.Equal(t, "Widget", lineErr.ProductName)

	// no write for the failed line
	assert.Equal(t, 5, st.quantities[1])
	assert.Empty(t, st.sales)
}

func TestFinalizePartialApplication(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5, 2: 1})
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	cart := NewCart()
	require.NoError(t, cart.Add(&models.Product{ID: 1, Name: "Widget", Quantity: 5, UnitPriceCents: 999}, 3))
	require.NoError(t, cart.Add(&models.Product{ID: 2, Name: "Gadget", Quantity: 4, UnitPriceCents: 500}, 4))

	tx, err := engine.Finalize(context.Background(), cart)
	require.Error(t, err)
	assert.Nil(t, tx)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.Equal(t, uint(2), lineErr.ProductID)

	// first line stays committed, second line wrote nothing
	assert.Equal(t, 2, st.quantities[1])
	assert.Equal(t, 1, st.quantities[2])
	require.Len(t, st.sales, 1)
	assert.Equal(t, uint(1), st.sales[0].ProductID)
}

func TestFinalizeRepeatedProductObservesDecrement(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5})
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	cart := NewCart()
	p := &models.Product{ID: 1, Name: "Widget", Quantity: 5, UnitPriceCents: 999}
	require.NoError(t, cart.Add(p, 3))
	require.NoError(t, cart.Add(p, 3))

	tx, err := engine.Finalize(context.Background(), cart)
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, ErrStockExceeded)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index, "the earlier line wins, the later one fails")

	assert.Equal(t, 2, st.quantities[1])
	require.Len(t, st.sales, 1)
}

func TestFinalizeStaleQuantity(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5})
	st.casErr = store.ErrStaleQuantity
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	cart := NewCart()
	require.NoError(t, cart.Add(&models.Product{ID: 1, Name: "Widget", Quantity: 5, UnitPriceCents: 999}, 3))

	tx, err := engine.Finalize(context.Background(), cart)
	require.Error(t, err)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, store.ErrStaleQuantity)
	assert.Empty(t, st.sales)
}

func TestFinalizeReadFailureIsFatal(t *testing.T) {
	st := newMockStore(map[uint]int{1: 5})
	st.readErr = store.ErrUnavailable
	engine := NewEngine(st, st, zaptest.NewLogger(t))

	cart := NewCart()
	require.NoError(t, cart.Add(&models.Product{ID: 1, Name: "Widget", Quantity: 5, UnitPriceCents: 999}, 1))

	_, err := engine.Finalize(context.Background(), cart)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, 5, st.quantities[1])
	assert.Empty(t, st.sales)
}
