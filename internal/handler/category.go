package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryHandler serves the category management screen.
type CategoryHandler struct {
	Catalog store.Catalog
	Logger  *zap.Logger
}

func NewCategoryHandler(catalog store.Catalog, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{Catalog: catalog, Logger: logger}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.Logger.Error("list categories failed", zap.Error(err))
		storeError(c, err)
		return
	}
	util.Success(c, util.Response{"categories": categories})
}

type createCategoryReq struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=255"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category name must not be empty")
		return
	}

	cat := models.Category{Name: req.Name, Description: req.Description}
	if err := h.Catalog.InsertCategory(c.Request.Context(), &cat); err != nil {
		h.Logger.Error("insert category failed", zap.String("name", req.Name), zap.Error(err))
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{"category": cat})
}

// DeleteCategory removes a category. A category still referenced by
// products is reported as a specific warning, not a generic fault.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Catalog.DeleteCategory(c.Request.Context(), uint(id)); err != nil {
		h.Logger.Warn("delete category failed", zap.Int("id", id), zap.Error(err))
		storeError(c, err)
		return
	}

	util.Success(c, util.Response{"message": "category deleted"})
}
