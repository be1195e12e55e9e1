package router

import (
	"github.com/jpiotrowska1604-eng/g1-ns/internal/config"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/handler"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/middleware"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/receipt"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter configures the gin engine and wires every screen's API.
// db holds the operator accounts; st is the catalog/ledger backend.
func SetupRouter(cfg *config.Config, db *gorm.DB, st store.Store, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), gin.Recovery())

	// The list cache only serves browsing screens. Checkout keeps the
	// plain backend so its reads are always fresh.
	cached := store.NewCachedCatalog(st, cfg.Store.CacheTTL)
	carts := pos.NewSessionCarts()
	engine := pos.NewEngine(st, st, logger)
	renderer := receipt.NewRenderer("Sales Receipt")

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db))

	categoryHandler := handler.NewCategoryHandler(cached, logger)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	productHandler := handler.NewProductHandler(cached, logger)
	protected.GET("/products", productHandler.ListProducts)
	protected.GET("/products/:id", productHandler.GetProduct)
	protected.POST("/products", productHandler.CreateProduct)
	protected.PUT("/products/:id", productHandler.UpdateProduct)
	protected.DELETE("/products/:id", productHandler.DeleteProduct)

	checkoutHandler := handler.NewCheckoutHandler(st, engine, carts, renderer, logger)
	protected.GET("/cart", checkoutHandler.GetCart)
	protected.POST("/cart/items", checkoutHandler.AddLine)
	protected.DELETE("/cart/items/:index", checkoutHandler.RemoveLine)
	protected.DELETE("/cart", checkoutHandler.ClearCart)
	protected.POST("/checkout", checkoutHandler.Finalize)
	protected.GET("/checkout/receipt", checkoutHandler.DownloadReceipt)

	saleHandler := handler.NewSaleHandler(st, logger)
	protected.GET("/sales", saleHandler.ListSales)
	protected.GET("/sales/summary", saleHandler.GetSummary)
	protected.GET("/export/csv", saleHandler.ExportCSV)
	protected.GET("/export/xlsx", saleHandler.ExportXLSX)

	return r
}
