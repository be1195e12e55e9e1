package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler serves the catalog browsing/editing screen.
type ProductHandler struct {
	Catalog store.Catalog
	Logger  *zap.Logger
}

func NewProductHandler(catalog store.Catalog, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{Catalog: catalog, Logger: logger}
}

// productResp exposes the price both as cents and as a display string.
type productResp struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	PriceCents   int64  `json:"unit_price_cents"`
	Price        string `json:"unit_price"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
}

func toProductResp(p *models.Product) productResp {
	return productResp{
		ID:           p.ID,
		Name:         p.Name,
		Quantity:     p.Quantity,
		PriceCents:   p.UnitPriceCents,
		Price:        pos.FormatCents(p.UnitPriceCents),
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.Logger.Error("list products failed", zap.Error(err))
		storeError(c, err)
		return
	}

	items := make([]productResp, 0, len(products))
	for i := range products {
		items = append(items, toProductResp(&products[i]))
	}
	util.Success(c, util.Response{"products": items})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	p, err := h.Catalog.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{"product": toProductResp(p)})
}

type createProductReq struct {
	Name       string `json:"name" binding:"required,max=128"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"unit_price" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "product name must not be empty")
		return
	}
	if req.Quantity < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "quantity must not be negative")
		return
	}
	priceCents, err := pos.ParsePrice(req.Price)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid price")
		return
	}

	p := models.Product{
		Name:           req.Name,
		Quantity:       req.Quantity,
		UnitPriceCents: priceCents,
		CategoryID:     req.CategoryID,
	}
	if err := h.Catalog.InsertProduct(c.Request.Context(), &p); err != nil {
		h.Logger.Error("insert product failed", zap.String("name", req.Name), zap.Error(err))
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{"product": toProductResp(&p)})
}

type updateProductReq struct {
	Name       string `json:"name" binding:"required,max=128"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"unit_price" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "product name must not be empty")
		return
	}
	if req.Quantity < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "quantity must not be negative")
		return
	}
	priceCents, err := pos.ParsePrice(req.Price)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid price")
		return
	}

	p := models.Product{
		ID:             uint(id),
		Name:           req.Name,
		Quantity:       req.Quantity,
		UnitPriceCents: priceCents,
		CategoryID:     req.CategoryID,
	}
	if err := h.Catalog.UpdateProduct(c.Request.Context(), &p); err != nil {
		h.Logger.Error("update product failed", zap.Int("id", id), zap.Error(err))
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{"product": toProductResp(&p)})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Catalog.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
		h.Logger.Error("delete product failed", zap.Int("id", id), zap.Error(err))
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{"message": "product deleted"})
}
