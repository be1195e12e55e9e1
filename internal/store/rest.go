package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"

	"resty.dev/v3"
)

// RestStore talks to a PostgREST-style table service. Authentication is two
// opaque values: the endpoint URL and an access key sent as both apikey and
// bearer token, the way the hosted table services expect.
type RestStore struct {
	client *resty.Client
}

// NewRestStore builds a client for the given endpoint and access key.
func NewRestStore(endpoint, key string) *RestStore {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("apikey", key).
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &RestStore{client: client}
}

// Close releases the underlying transport.
func (s *RestStore) Close() error {
	return s.client.Close()
}

// restError is the error body the table service returns.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// foreignKeyViolation is the SQLSTATE the service reports when a delete is
// blocked by referencing rows.
const foreignKeyViolation = "23503"

// restProduct carries the embedded category join returned by
// select=*,categories(name).
type restProduct struct {
	models.Product
	Categories *struct {
		Name string `json:"name"`
	} `json:"categories,omitempty"`
}

func (s *RestStore) exec(ctx context.Context, method, path string, query map[string]string, body, result interface{}, prefer string) error {
	var apiErr restError
	req := s.client.R().
		SetContext(ctx).
		SetError(&apiErr)
	for k, v := range query {
		req.SetQueryParam(k, v)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	if prefer != "" {
		req.SetHeader("Prefer", prefer)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	if res.IsError() {
		if apiErr.Code == foreignKeyViolation {
			return ErrReferentialConflict
		}
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, path, res.StatusCode(), apiErr.Message)
	}
	return nil
}

func (s *RestStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.exec(ctx, "GET", "/categories", map[string]string{
		"select": "*",
		"order":  "id.asc",
	}, nil, &out, "")
	return out, err
}

func (s *RestStore) InsertCategory(ctx context.Context, c *models.Category) error {
	var out []models.Category
	err := s.exec(ctx, "POST", "/categories", nil, map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
	}, &out, "return=representation")
	if err != nil {
		return err
	}
	if len(out) == 1 {
		c.ID = out[0].ID
		c.CreatedAt = out[0].CreatedAt
	}
	return nil
}

func (s *RestStore) DeleteCategory(ctx context.Context, id uint) error {
	return s.exec(ctx, "DELETE", "/categories", map[string]string{
		"id": fmt.Sprintf("eq.%d", id),
	}, nil, nil, "")
}

func (s *RestStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []restProduct
	err := s.exec(ctx, "GET", "/products", map[string]string{
		"select": "*,categories(name)",
		"order":  "id.asc",
	}, nil, &rows, "")
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		p := r.Product
		if r.Categories != nil {
			p.CategoryName = r.Categories.Name
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *RestStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var rows []restProduct
	err := s.exec(ctx, "GET", "/products", map[string]string{
		"select": "*,categories(name)",
		"id":     fmt.Sprintf("eq.%d", id),
	}, nil, &rows, "")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	p := rows[0].Product
	if rows[0].Categories != nil {
		p.CategoryName = rows[0].Categories.Name
	}
	return &p, nil
}

func (s *RestStore) InsertProduct(ctx context.Context, p *models.Product) error {
	var out []models.Product
	err := s.exec(ctx, "POST", "/products", nil, map[string]interface{}{
		"name":             p.Name,
		"quantity":         p.Quantity,
		"unit_price_cents": p.UnitPriceCents,
		"category_id":      p.CategoryID,
	}, &out, "return=representation")
	if err != nil {
		return err
	}
	if len(out) == 1 {
		p.ID = out[0].ID
		p.CreatedAt = out[0].CreatedAt
	}
	return nil
}

func (s *RestStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	var out []models.Product
	err := s.exec(ctx, "PATCH", "/products", map[string]string{
		"id": fmt.Sprintf("eq.%d", p.ID),
	}, map[string]interface{}{
		"name":             p.Name,
		"quantity":         p.Quantity,
		"unit_price_cents": p.UnitPriceCents,
		"category_id":      p.CategoryID,
	}, &out, "return=representation")
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RestStore) DeleteProduct(ctx context.Context, id uint) error {
	return s.exec(ctx, "DELETE", "/products", map[string]string{
		"id": fmt.Sprintf("eq.%d", id),
	}, nil, nil, "")
}

func (s *RestStore) GetProductQuantity(ctx context.Context, id uint) (int, error) {
	var rows []struct {
		Quantity int `json:"quantity"`
	}
	err := s.exec(ctx, "GET", "/products", map[string]string{
		"select": "quantity",
		"id":     fmt.Sprintf("eq.%d", id),
	}, nil, &rows, "")
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrNotFound
	}
	return rows[0].Quantity, nil
}

func (s *RestStore) SetProductQuantity(ctx context.Context, id uint, quantity int) error {
	var out []models.Product
	err := s.exec(ctx, "PATCH", "/products", map[string]string{
		"id": fmt.Sprintf("eq.%d", id),
	}, map[string]interface{}{
		"quantity": quantity,
	}, &out, "return=representation")
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return ErrNotFound
	}
	return nil
}

// CompareAndSetQuantity adds the current quantity to the row filter, so the
// write matches zero rows when another register got there first.
func (s *RestStore) CompareAndSetQuantity(ctx context.Context, id uint, expected, quantity int) error {
	var out []models.Product
	err := s.exec(ctx, "PATCH", "/products", map[string]string{
		"id":       fmt.Sprintf("eq.%d", id),
		"quantity": fmt.Sprintf("eq.%d", expected),
	}, map[string]interface{}{
		"quantity": quantity,
	}, &out, "return=representation")
	if err != nil {
		return err
	}
	if len(out) == 0 {
		return ErrStaleQuantity
	}
	return nil
}

func (s *RestStore) AppendSale(ctx context.Context, rec *models.SaleRecord) error {
	var out []models.SaleRecord
	err := s.exec(ctx, "POST", "/sales", nil, map[string]interface{}{
		"product_id":       rec.ProductID,
		"product_name":     rec.ProductName,
		"quantity":         rec.Quantity,
		"unit_price_cents": rec.UnitPriceCents,
		"line_total_cents": rec.LineTotalCents,
		"created_at":       rec.CreatedAt.Format(time.RFC3339),
	}, &out, "return=representation")
	if err != nil {
		return err
	}
	if len(out) == 1 {
		rec.ID = out[0].ID
	}
	return nil
}

func (s *RestStore) ListSales(ctx context.Context) ([]models.SaleRecord, error) {
	var out []models.SaleRecord
	err := s.exec(ctx, "GET", "/sales", map[string]string{
		"select": "*",
		"order":  "created_at.desc",
	}, nil, &out, "")
	return out, err
}
