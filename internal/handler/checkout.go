package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/middleware"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/receipt"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutHandler serves the point-of-sale screen: the session cart, the
// finalize step and the receipt download.
//
// Catalog here must be the plain backend, not the list cache: add-to-cart
// snapshots and the engine's re-reads both need fresh rows.
type CheckoutHandler struct {
	Catalog  store.Catalog
	Engine   *pos.Engine
	Carts    *pos.SessionCarts
	Renderer *receipt.Renderer
	Logger   *zap.Logger

	mu     sync.Mutex
	lastTx map[uint]*pos.Transaction
}

func NewCheckoutHandler(catalog store.Catalog, engine *pos.Engine, carts *pos.SessionCarts, renderer *receipt.Renderer, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		Catalog:  catalog,
		Engine:   engine,
		Carts:    carts,
		Renderer: renderer,
		Logger:   logger,
		lastTx:   map[uint]*pos.Transaction{},
	}
}

type cartLineResp struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

func cartResponse(cart *pos.Cart) util.Response {
	lines := make([]cartLineResp, 0, cart.Len())
	for _, l := range cart.Lines() {
		lines = append(lines, cartLineResp{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   pos.FormatCents(l.UnitPriceCents),
			LineTotal:   pos.FormatCents(l.TotalCents()),
		})
	}
	return util.Response{
		"lines": lines,
		"total": pos.FormatCents(cart.TotalCents()),
	}
}

// GetCart returns the operator's pending lines and running total.
func (h *CheckoutHandler) GetCart(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	util.Success(c, cartResponse(h.Carts.Get(op.ID)))
}

type addLineReq struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddLine reads the product and snapshots name and price into the cart.
func (h *CheckoutHandler) AddLine(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req addLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	p, err := h.Catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		storeError(c, err)
		return
	}

	cart := h.Carts.Get(op.ID)
	if err := cart.Add(p, req.Quantity); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			fmt.Sprintf("only %d of %s in stock", p.Quantity, p.Name))
		return
	}

	util.Success(c, cartResponse(cart))
}

// RemoveLine drops one pending line by its position.
func (h *CheckoutHandler) RemoveLine(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid line index")
		return
	}

	cart := h.Carts.Get(op.ID)
	if !cart.Remove(index) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no such cart line")
		return
	}
	util.Success(c, cartResponse(cart))
}

// ClearCart cancels the pending sale.
func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	h.Carts.Get(op.ID).Clear()
	util.Success(c, util.Response{"message": "cart cleared"})
}

// Finalize runs the checkout. On success the cart is cleared and the
// transaction kept for the receipt download. On a line failure the already
// committed lines stay committed; the failing line is reported by name.
func (h *CheckoutHandler) Finalize(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	cart := h.Carts.Get(op.ID)
	tx, err := h.Engine.Finalize(c.Request.Context(), cart)
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	cart.Clear()
	h.mu.Lock()
	h.lastTx[op.ID] = tx
	h.mu.Unlock()

	util.Success(c, util.Response{
		"transaction": tx,
		"total":       pos.FormatCents(tx.TotalCents),
		"receipt_url": "/api/checkout/receipt",
	})
}

func (h *CheckoutHandler) checkoutError(c *gin.Context, err error) {
	var lineErr *pos.LineError
	switch {
	case errors.Is(err, pos.ErrEmptyCart):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cart is empty")
	case errors.As(err, &lineErr):
		h.Logger.Warn("checkout failed", zap.Error(err))
		// only lines before the failing one were committed
		suffix := ""
		if lineErr.Index > 0 {
			suffix = "; earlier lines were already committed"
		}
		switch {
		case errors.Is(err, pos.ErrStockExceeded):
			util.Error(c, http.StatusConflict, util.CodeConflict,
				fmt.Sprintf("not enough stock for %s%s", lineErr.ProductName, suffix))
		case errors.Is(err, store.ErrStaleQuantity):
			util.Error(c, http.StatusConflict, util.CodeConflict,
				fmt.Sprintf("stock for %s changed on another register%s", lineErr.ProductName, suffix))
		default:
			util.Error(c, http.StatusBadGateway, util.CodeStoreErr,
				fmt.Sprintf("store failure on %s%s", lineErr.ProductName, suffix))
		}
	default:
		h.Logger.Error("checkout failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "checkout failed")
	}
}

// DownloadReceipt renders the operator's last finalized transaction as PDF.
func (h *CheckoutHandler) DownloadReceipt(c *gin.Context) {
	op := middleware.CurrentOperator(c)
	if op == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	h.mu.Lock()
	tx := h.lastTx[op.ID]
	h.mu.Unlock()
	if tx == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no finalized transaction")
		return
	}

	data, err := h.Renderer.Render(tx)
	if err != nil {
		h.Logger.Error("receipt render failed", zap.String("transaction_id", tx.ID), zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "receipt render failed")
		return
	}

	filename := fmt.Sprintf("receipt_%s.pdf", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
