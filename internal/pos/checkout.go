package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned by Finalize when the cart holds no lines.
// No writes happen in that case.
var ErrEmptyCart = errors.New("pos: cart is empty")

// ErrStockExceeded is returned, wrapped in a LineError, when a line's
// requested quantity exceeds the freshly read store quantity.
var ErrStockExceeded = errors.New("pos: requested quantity exceeds stock")

// LineError reports which cart line a checkout failed on. Lines before it
// in cart order stay committed; no rollback is attempted.
type LineError struct {
	Index       int
	ProductID   uint
	ProductName string
	Err         error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("checkout line %d (%s, product %d): %v", e.Index, e.ProductName, e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Transaction is the finalized result of a checkout. It is never persisted
// as one entity; it exists to drive the receipt render, then the caller
// clears the cart.
type Transaction struct {
	ID          string     `json:"id"`
	Lines       []CartLine `json:"lines"`
	TotalCents  int64      `json:"total_cents"`
	FinalizedAt time.Time  `json:"finalized_at"`
}

// StockStore is the slice of the catalog contract the engine needs.
type StockStore interface {
	GetProductQuantity(ctx context.Context, id uint) (int, error)
	CompareAndSetQuantity(ctx context.Context, id uint, expected, quantity int) error
}

// SaleAppender is the slice of the ledger contract the engine needs.
type SaleAppender interface {
	AppendSale(ctx context.Context, rec *models.SaleRecord) error
}

// Engine applies a cart against the catalog and the sales ledger.
//
// The application is transactional in intent only: lines are committed one
// by one in insertion order, and a failure aborts the remaining lines
// without undoing the committed ones. The error names the failing line.
type Engine struct {
	stock  StockStore
	ledger SaleAppender
	logger *zap.Logger

	now func() time.Time
}

// NewEngine creates a checkout engine.
func NewEngine(stock StockStore, ledger SaleAppender, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		stock:  stock,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// Finalize validates and applies the cart. For every line it re-reads the
// current quantity (the add-time snapshot may be stale), checks the
// decrement stays non-negative, writes the new quantity conditionally on
// the value it just read, and appends a ledger record with the snapshot
// name and price.
//
// Lines are processed strictly in insertion order, so when the same product
// appears twice the later line observes the earlier line's decrement.
// The engine does not clear the cart; that is the caller's call.
func (e *Engine) Finalize(ctx context.Context, cart *Cart) (*Transaction, error) {
	if cart == nil || cart.Len() == 0 {
		return nil, ErrEmptyCart
	}

	lines := cart.Lines()
	for i, line := range lines {
		current, err := e.stock.GetProductQuantity(ctx, line.ProductID)
		if err != nil {
			return nil, &LineError{Index: i, ProductID: line.ProductID, ProductName: line.ProductName, Err: err}
		}

		newQuantity := current - line.Quantity
		if newQuantity < 0 {
			e.logger.Warn("checkout line exceeds stock",
				zap.Uint("product_id", line.ProductID),
				zap.Int("requested", line.Quantity),
				zap.Int("available", current),
			)
			return nil, &LineError{Index: i, ProductID: line.ProductID, ProductName: line.ProductName, Err: ErrStockExceeded}
		}

		// Conditional on the value read above: if another register sold
		// the same product in between, fail fast instead of losing its
		// decrement. No retry.
		if err := e.stock.CompareAndSetQuantity(ctx, line.ProductID, current, newQuantity); err != nil {
			return nil, &LineError{Index: i, ProductID: line.ProductID, ProductName: line.ProductName, Err: err}
		}

		rec := &models.SaleRecord{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.TotalCents(),
			CreatedAt:      e.now(),
		}
		if err := e.ledger.AppendSale(ctx, rec); err != nil {
			// The decrement above is already committed. Stated
			// limitation: no rollback.
			return nil, &LineError{Index: i, ProductID: line.ProductID, ProductName: line.ProductName, Err: err}
		}

		e.logger.Info("checkout line committed",
			zap.Uint("product_id", line.ProductID),
			zap.Int("quantity", line.Quantity),
			zap.Int64("line_total_cents", rec.LineTotalCents),
			zap.Int("stock_left", newQuantity),
		)
	}

	tx := &Transaction{
		ID:          uuid.NewString(),
		Lines:       append([]CartLine(nil), lines...),
		TotalCents:  cart.TotalCents(),
		FinalizedAt: e.now(),
	}

	e.logger.Info("checkout finalized",
		zap.String("transaction_id", tx.ID),
		zap.Int("lines", len(tx.Lines)),
		zap.Int64("total_cents", tx.TotalCents),
	)
	return tx, nil
}
