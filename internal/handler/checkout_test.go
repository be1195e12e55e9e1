package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/middleware"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/receipt"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testOperator is injected instead of the JWT middleware so the checkout
// screen can be exercised without a login round trip.
func testOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CurrentOperatorKey, &models.Operator{ID: 1, Username: "op"})
		c.Next()
	}
}

func setupCheckoutRouter(t *testing.T) (*gin.Engine, *store.GormStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}, &models.SaleRecord{}))
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.NewGormStore(db)
	zlog := zaptest.NewLogger(t)
	h := NewCheckoutHandler(st, pos.NewEngine(st, st, zlog), pos.NewSessionCarts(), receipt.NewRenderer(""), zlog)

	r := gin.New()
	r.Use(testOperator())
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddLine)
	r.DELETE("/cart/items/:index", h.RemoveLine)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/checkout", h.Finalize)
	r.GET("/checkout/receipt", h.DownloadReceipt)

	return r, st
}

func seedProduct(t *testing.T, st *store.GormStore, stock int) *models.Product {
	t.Helper()
	ctx := context.Background()
	cat := &models.Category{Name: "Tools"}
	require.NoError(t, st.InsertCategory(ctx, cat))
	p := &models.Product{Name: "Widget", Quantity: stock, UnitPriceCents: 999, CategoryID: cat.ID}
	require.NoError(t, st.InsertProduct(ctx, p))
	return p
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutFlow(t *testing.T) {
	r, st := setupCheckoutRouter(t)
	p := seedProduct(t, st, 5)
	ctx := context.Background()

	w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": p.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "29.97")

	w = doJSON(t, r, http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "29.97")

	// stock decremented, one ledger row
	quantity, err := st.GetProductQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, quantity)

	sales, err := st.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 3, sales[0].Quantity)
	assert.Equal(t, int64(2997), sales[0].LineTotalCents)

	// cart is cleared on success
	w = doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"0.00"`)

	// receipt download streams a PDF
	w = doJSON(t, r, http.MethodGet, "/checkout/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt_")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func TestCheckoutEmptyCart(t *testing.T) {
	r, st := setupCheckoutRouter(t)
	seedProduct(t, st, 5)

	w := doJSON(t, r, http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cart is empty")

	sales, err := st.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestAddLineInsufficientStock(t *testing.T) {
	r, st := setupCheckoutRouter(t)
	p := seedProduct(t, st, 5)

	w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": p.ID, "quantity": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only 5 of Widget in stock")
}

func TestCheckoutStockExceededAfterSnapshot(t *testing.T) {
	r, st := setupCheckoutRouter(t)
	p := seedProduct(t, st, 5)
	ctx := context.Background()

	w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": p.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	// another register sells 4 before this checkout runs
	require.NoError(t, st.SetProductQuantity(ctx, p.ID, 1))

	w = doJSON(t, r, http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Widget")
	// the first line failed, so nothing was committed and the message must
	// not claim otherwise
	assert.NotContains(t, w.Body.String(), "already committed")

	// stock untouched and nothing written to the ledger
	quantity, err := st.GetProductQuantity(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)

	sales, err := st.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCheckoutPartialCommitMessage(t *testing.T) {
	r, st := setupCheckoutRouter(t)
	p1 := seedProduct(t, st, 5)
	ctx := context.Background()

	p2 := &models.Product{Name: "Gadget", Quantity: 1, UnitPriceCents: 500, CategoryID: p1.CategoryID}
	require.NoError(t, st.InsertProduct(ctx, p2))

	w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": p1.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": p2.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	// the second line's stock disappears before the checkout runs
	require.NoError(t, st.SetProductQuantity(ctx, p2.ID, 0))

	w = doJSON(t, r, http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Gadget")
	assert.Contains(t, w.Body.String(), "earlier lines were already committed")

	// the first line stays committed: stock decremented, one ledger row
	quantity, err := st.GetProductQuantity(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, quantity)

	sales, err := st.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Widget", sales[0].ProductName)
}

func TestRemoveAndClearCart(t *testing.T) {
	r, st := setupCheckoutRouter(t)
	p := seedProduct(t, st, 9)

	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/cart/items", gin.H{"product_id": p.ID, "quantity": 1})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodDelete, "/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"19.98"`)

	w = doJSON(t, r, http.MethodDelete, "/cart/items/9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/cart", nil)
	assert.Contains(t, w.Body.String(), `"total":"0.00"`)
}
