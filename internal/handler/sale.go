package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/pos"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/store"
	"github.com/jpiotrowska1604-eng/g1-ns/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SaleHandler serves the sales ledger: listing, dashboard aggregation and
// export. The ledger is append-only; nothing here writes to it.
type SaleHandler struct {
	Ledger store.Ledger
	Logger *zap.Logger
}

func NewSaleHandler(ledger store.Ledger, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{Ledger: ledger, Logger: logger}
}

type saleResp struct {
	ID          uint      `json:"id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	sales, err := h.Ledger.ListSales(c.Request.Context())
	if err != nil {
		h.Logger.Error("list sales failed", zap.Error(err))
		storeError(c, err)
		return
	}

	items := make([]saleResp, 0, len(sales))
	var totalCents int64
	for _, s := range sales {
		items = append(items, saleResp{
			ID:          s.ID,
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Quantity:    s.Quantity,
			UnitPrice:   pos.FormatCents(s.UnitPriceCents),
			LineTotal:   pos.FormatCents(s.LineTotalCents),
			CreatedAt:   s.CreatedAt,
		})
		totalCents += s.LineTotalCents
	}

	util.Success(c, util.Response{
		"sales": items,
		"total": pos.FormatCents(totalCents),
	})
}

// GetSummary aggregates the ledger per day and per product for the
// dashboard screen.
func (h *SaleHandler) GetSummary(c *gin.Context) {
	sales, err := h.Ledger.ListSales(c.Request.Context())
	if err != nil {
		h.Logger.Error("sales summary failed", zap.Error(err))
		storeError(c, err)
		return
	}

	type dailyStat struct {
		Date       string `json:"date"`
		Quantity   int    `json:"quantity"`
		TotalCents int64  `json:"total_cents"`
		Total      string `json:"total"`
	}
	type productStat struct {
		ProductID   uint   `json:"product_id"`
		ProductName string `json:"product_name"`
		Quantity    int    `json:"quantity"`
		TotalCents  int64  `json:"total_cents"`
		Total       string `json:"total"`
	}

	dailyMap := make(map[string]*dailyStat)
	productMap := make(map[uint]*productStat)
	var grandTotalCents int64

	for _, s := range sales {
		dateKey := s.CreatedAt.Format("2006-01-02")
		ds, ok := dailyMap[dateKey]
		if !ok {
			ds = &dailyStat{Date: dateKey}
			dailyMap[dateKey] = ds
		}
		ds.Quantity += s.Quantity
		ds.TotalCents += s.LineTotalCents

		ps, ok := productMap[s.ProductID]
		if !ok {
			ps = &productStat{ProductID: s.ProductID, ProductName: s.ProductName}
			productMap[s.ProductID] = ps
		}
		ps.Quantity += s.Quantity
		ps.TotalCents += s.LineTotalCents

		grandTotalCents += s.LineTotalCents
	}

	daily := make([]dailyStat, 0, len(dailyMap))
	for _, ds := range dailyMap {
		ds.Total = pos.FormatCents(ds.TotalCents)
		daily = append(daily, *ds)
	}
	byProduct := make([]productStat, 0, len(productMap))
	for _, ps := range productMap {
		ps.Total = pos.FormatCents(ps.TotalCents)
		byProduct = append(byProduct, *ps)
	}

	util.Success(c, util.Response{
		"daily":       daily,
		"by_product":  byProduct,
		"grand_total": pos.FormatCents(grandTotalCents),
	})
}

var exportHeaders = []string{"Product", "Quantity", "Unit Price", "Line Total", "Sold At"}

// ExportCSV streams the ledger as CSV.
func (h *SaleHandler) ExportCSV(c *gin.Context) {
	sales, err := h.Ledger.ListSales(c.Request.Context())
	if err != nil {
		h.Logger.Error("sales export failed", zap.Error(err))
		storeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sales_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, s := range sales {
		writer.Write([]string{
			s.ProductName,
			fmt.Sprintf("%d", s.Quantity),
			pos.FormatCents(s.UnitPriceCents),
			pos.FormatCents(s.LineTotalCents),
			s.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// ExportXLSX streams the ledger as an Excel workbook.
func (h *SaleHandler) ExportXLSX(c *gin.Context) {
	sales, err := h.Ledger.ListSales(c.Request.Context())
	if err != nil {
		h.Logger.Error("sales export failed", zap.Error(err))
		storeError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Sales"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)

	for i, head := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, s := range sales {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.ProductName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Quantity)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), pos.FormatCents(s.UnitPriceCents))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), pos.FormatCents(s.LineTotalCents))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 20)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"sales_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
