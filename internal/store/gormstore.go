package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"

	"gorm.io/gorm"
)

// GormStore is the embedded sqlite backend. It serves small single-site
// deployments and the test suite; the contract is identical to RestStore.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func isFKViolation(err error) bool {
	// sqlite reports RESTRICT violations as a generic constraint error
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *GormStore) InsertCategory(ctx context.Context, c *models.Category) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteCategory(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		if isFKViolation(res.Error) {
			return ErrReferentialConflict
		}
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Order("products.id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("products.id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (s *GormStore) InsertProduct(ctx context.Context, p *models.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":             p.Name,
			"quantity":         p.Quantity,
			"unit_price_cents": p.UnitPriceCents,
			"category_id":      p.CategoryID,
		})
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetProductQuantity(ctx context.Context, id uint) (int, error) {
	var p models.Product
	err := s.db.WithContext(ctx).Select("quantity").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get quantity: %w", err)
	}
	return p.Quantity, nil
}

func (s *GormStore) SetProductQuantity(ctx context.Context, id uint, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("set quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CompareAndSetQuantity(ctx context.Context, id uint, expected, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity = ?", id, expected).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("compare and set quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStaleQuantity
	}
	return nil
}

func (s *GormStore) AppendSale(ctx context.Context, rec *models.SaleRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

func (s *GormStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	var out []models.SaleRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}
