package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MichaelDViau/Kunaay-Demo/internal/models"
	"github.com/MichaelDViau/Kunaay-Demo/internal/store"
	"github.com/MichaelDViau/Kunaay-Demo/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出房源列表（CSV / XLSX）
type ExportHandler struct {
	Listings *store.ListingStore
}

func NewExportHandler(listings *store.ListingStore) *ExportHandler {
	return &ExportHandler{Listings: listings}
}

var exportHeaders = []string{"ID", "Title", "Slug", "Category", "Summary", "Images", "Created"}

func exportRow(l *models.Listing) []string {
	return []string{
		strconv.FormatUint(uint64(l.ID), 10),
		l.Title,
		l.Slug,
		l.Category,
		l.Summary,
		strconv.Itoa(len(l.Images)),
		l.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func exportFilename(ext string) string {
	return fmt.Sprintf("listings_%s.%s", time.Now().Format("20060102"), ext)
}

// ExportCSV 导出房源为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	listings, err := h.Listings.List(c.Request.Context(), store.ListQuery{Category: c.Query("type")})
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("csv")))
	c.Status(http.StatusOK)

	// UTF-8 BOM so spreadsheet apps pick the right encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeaders)
	for i := range listings {
		_ = w.Write(exportRow(&listings[i]))
	}
	w.Flush()
}

// ExportXLSX 导出房源为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	listings, err := h.Listings.List(c.Request.Context(), store.ListQuery{Category: c.Query("type")})
	if err != nil {
		util.Fail(c, err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Listings"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		util.Fail(c, err)
		return
	}

	for col, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for i := range listings {
		for col, v := range exportRow(&listings[i]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "B", "B", 30)
	_ = f.SetColWidth(sheet, "C", "C", 24)
	_ = f.SetColWidth(sheet, "E", "E", 50)
	_ = f.SetColWidth(sheet, "G", "G", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		util.Fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename("xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
