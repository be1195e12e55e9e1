// Package store is the access layer for the catalog tables (categories,
// products) and the sales ledger. Two backends implement the same contract:
// a REST client for a remote table service and an embedded sqlite database.
//
// Every call is strongly consistent on its own; nothing here guarantees
// atomicity across calls. Callers that need freshness (checkout) must read
// through the plain backend, not through the list cache.
package store

import (
	"context"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
)

// Catalog is the narrow contract the rest of the system has with the
// categories and products tables.
type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	InsertCategory(ctx context.Context, c *models.Category) error
	// DeleteCategory fails with ErrReferentialConflict while any product
	// still references the category.
	DeleteCategory(ctx context.Context, id uint) error

	// ListProducts returns all products with CategoryName filled in from
	// the join; the name is derived, never stored.
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error

	GetProductQuantity(ctx context.Context, id uint) (int, error)
	SetProductQuantity(ctx context.Context, id uint, quantity int) error
	// CompareAndSetQuantity writes quantity only if the stored value still
	// equals expected, returning ErrStaleQuantity otherwise. Closes the
	// read-check-write race between registers without any locking.
	CompareAndSetQuantity(ctx context.Context, id uint, expected, quantity int) error
}

// Ledger is the append-only sales table.
type Ledger interface {
	AppendSale(ctx context.Context, rec *models.SaleRecord) error
	ListSales(ctx context.Context) ([]models.SaleRecord, error)
}

// Store is a combined catalog + ledger backend.
type Store interface {
	Catalog
	Ledger
}
