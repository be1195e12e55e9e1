package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() *pos.Transaction {
	return &pos.Transaction{
		ID: "tx-1",
		Lines: []pos.CartLine{
			{ProductID: 1, ProductName: "Widget", UnitPriceCents: 999, Quantity: 3},
			{ProductID: 2, ProductName: "Żółty ser", UnitPriceCents: 1250, Quantity: 1},
		},
		TotalCents:  2997 + 1250,
		FinalizedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func fixedClockRenderer() *Renderer {
	r := NewRenderer("Sales Receipt")
	r.now = func() time.Time {
		return time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	}
	return r
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := fixedClockRenderer().Render(sampleTransaction())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output must be a PDF document")
}

func TestRenderDeterministic(t *testing.T) {
	r := fixedClockRenderer()
	tx := sampleTransaction()

	first, err := r.Render(tx)
	require.NoError(t, err)
	second, err := r.Render(tx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same transaction and clock must render identical bytes")
}

func TestRenderFooterTotalMatchesLines(t *testing.T) {
	tx := sampleTransaction()

	var sum int64
	for _, l := range tx.Lines {
		sum += l.TotalCents()
	}
	require.Equal(t, tx.TotalCents, sum)

	// the grand total string that ends up in the footer
	assert.Equal(t, "42.47", pos.FormatCents(tx.TotalCents))

	_, err := fixedClockRenderer().Render(tx)
	require.NoError(t, err)
}

func TestRenderSingleLineScenario(t *testing.T) {
	// cart [{Widget, 9.99 x 3}] -> footer shows 29.97
	tx := &pos.Transaction{
		ID:          "tx-2",
		Lines:       []pos.CartLine{{ProductID: 1, ProductName: "Widget", UnitPriceCents: 999, Quantity: 3}},
		TotalCents:  2997,
		FinalizedAt: time.Now(),
	}
	assert.Equal(t, "29.97", pos.FormatCents(tx.TotalCents))

	data, err := fixedClockRenderer().Render(tx)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderAccentedNamesDoNotError(t *testing.T) {
	tx := &pos.Transaction{
		ID: "tx-3",
		Lines: []pos.CartLine{
			{ProductID: 1, ProductName: "Świeże jabłka", UnitPriceCents: 350, Quantity: 2},
			{ProductID: 2, ProductName: "Crème brûlée", UnitPriceCents: 1500, Quantity: 1},
		},
		TotalCents:  2200,
		FinalizedAt: time.Now(),
	}
	data, err := fixedClockRenderer().Render(tx)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
