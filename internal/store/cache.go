package store

import (
	"context"
	"sync"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"

	"golang.org/x/sync/singleflight"
)

// CachedCatalog caches the two list reads for a few seconds so consecutive
// page renders do not hammer the backend. It is a convenience, not a
// correctness mechanism: quantity reads and writes always pass straight
// through, and checkout never reads stock through this type.
type CachedCatalog struct {
	Catalog
	ttl time.Duration
	sfg singleflight.Group

	mu           sync.Mutex
	products     []models.Product
	productsAt   time.Time
	categories   []models.Category
	categoriesAt time.Time
}

// NewCachedCatalog wraps inner with a TTL list cache. A non-positive ttl
// falls back to 5 seconds.
func NewCachedCatalog(inner Catalog, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &CachedCatalog{Catalog: inner, ttl: ttl}
}

func (c *CachedCatalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	c.mu.Lock()
	if c.products != nil && time.Since(c.productsAt) < c.ttl {
		out := c.products
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		items, err := c.Catalog.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.products = items
		c.productsAt = time.Now()
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}

func (c *CachedCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	c.mu.Lock()
	if c.categories != nil && time.Since(c.categoriesAt) < c.ttl {
		out := c.categories
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sfg.Do("categories", func() (interface{}, error) {
		items, err := c.Catalog.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.categories = items
		c.categoriesAt = time.Now()
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Category), nil
}

// Invalidate drops both cached lists.
func (c *CachedCatalog) Invalidate() {
	c.mu.Lock()
	c.products = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *CachedCatalog) InsertCategory(ctx context.Context, cat *models.Category) error {
	err := c.Catalog.InsertCategory(ctx, cat)
	c.Invalidate()
	return err
}

func (c *CachedCatalog) DeleteCategory(ctx context.Context, id uint) error {
	err := c.Catalog.DeleteCategory(ctx, id)
	c.Invalidate()
	return err
}

func (c *CachedCatalog) InsertProduct(ctx context.Context, p *models.Product) error {
	err := c.Catalog.InsertProduct(ctx, p)
	c.Invalidate()
	return err
}

func (c *CachedCatalog) UpdateProduct(ctx context.Context, p *models.Product) error {
	err := c.Catalog.UpdateProduct(ctx, p)
	c.Invalidate()
	return err
}

func (c *CachedCatalog) DeleteProduct(ctx context.Context, id uint) error {
	err := c.Catalog.DeleteProduct(ctx, id)
	c.Invalidate()
	return err
}

func (c *CachedCatalog) SetProductQuantity(ctx context.Context, id uint, quantity int) error {
	err := c.Catalog.SetProductQuantity(ctx, id, quantity)
	c.Invalidate()
	return err
}

func (c *CachedCatalog) CompareAndSetQuantity(ctx context.Context, id uint, expected, quantity int) error {
	err := c.Catalog.CompareAndSetQuantity(ctx, id, expected, quantity)
	c.Invalidate()
	return err
}
