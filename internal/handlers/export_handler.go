package handlers

import (
	"net/http"
	"strings"

	"go-drug-pricing/internal/database"
	"go-drug-pricing/internal/export"
	"go-drug-pricing/internal/pricing"

	"github.com/gin-gonic/gin"
)

// The export endpoints serialize the selected working set from its SAVED
// prices - what the summary drawer shows, not the live preview.

func exportRows(c *gin.Context) ([]pricing.SummaryRow, bool) {
	raw := strings.Split(c.Query("codes"), ",")
	codes := make([]string, 0, len(raw))
	for _, code := range raw {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items selected"})
		return nil, false
	}

	items, err := database.ItemsByCodes(database.DB, codes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return nil, false
	}

	return pricing.BuildSummaryRows(items), true
}

// --- GET /api/export/xlsx?codes=A,B,C ---
func ExportXlsx(c *gin.Context) {
	rows, ok := exportRows(c)
	if !ok {
		return
	}

	data, err := export.WriteXlsx(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pricing-summary.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// --- GET /api/export/pdf?codes=A,B,C ---
func ExportPdf(c *gin.Context) {
	rows, ok := exportRows(c)
	if !ok {
		return
	}

	data, err := export.WritePdf(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pricing-summary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
