// Package receipt renders a finalized checkout transaction into a fixed
// layout PDF. Rendering is pure: no store, ledger or cart access.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"

	"github.com/go-pdf/fpdf"
)

const (
	colName  = 80.0
	colQty   = 25.0
	colPrice = 40.0
	colTotal = 45.0
	rowH     = 8.0
)

// Renderer turns transactions into PDF bytes.
type Renderer struct {
	title string
	now   func() time.Time
}

// NewRenderer creates a renderer with the given document title.
func NewRenderer(title string) *Renderer {
	if title == "" {
		title = "Sales Receipt"
	}
	return &Renderer{title: title, now: time.Now}
}

// Render produces the receipt document. The header timestamp is the wall
// clock at render time, not the transaction time. Output is deterministic
// in content for identical transactions and clock values.
func (r *Renderer) Render(tx *pos.Transaction) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.title, false)
	pdf.SetCreationDate(r.now())
	pdf.SetModificationDate(r.now())
	pdf.AddPage()

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, Latinize(r.title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated: "+r.now().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colName, rowH, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, rowH, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colPrice, rowH, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowH, "Total", "1", 1, "R", false, 0, "")

	// one row per line, cart order
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range tx.Lines {
		pdf.CellFormat(colName, rowH, Latinize(line.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowH, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, rowH, pos.FormatCents(line.UnitPriceCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowH, pos.FormatCents(line.TotalCents()), "1", 1, "R", false, 0, "")
	}

	// grand total footer
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colName+colQty+colPrice, rowH+2, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(colTotal, rowH+2, pos.FormatCents(tx.TotalCents), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
