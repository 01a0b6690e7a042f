package export

import (
	"bytes"
	"fmt"

	"go-drug-pricing/internal/pricing"

	"github.com/jung-kurt/gofpdf"
)

// Column widths tuned for landscape A4 (277mm printable).
var pdfWidths = []float64{30, 77, 20, 24, 24, 26, 26, 25, 25}

// WritePdf renders summary rows as a landscape table titled "Pricing Summary".
func WritePdf(rows []pricing.SummaryRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Pricing Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range summaryHeaders {
		pdf.CellFormat(pdfWidths[i], 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range rows {
		cells := []string{
			r.ItemCode,
			r.ItemName,
			fmt.Sprintf("%.2f", r.Cost),
			fmt.Sprintf("%.2f", r.OPDPrice),
			fmt.Sprintf("%.2f", r.IPDPrice),
			fmt.Sprintf("%.2f", r.ProfitOPD),
			fmt.Sprintf("%.2f", r.ProfitIPD),
			fmt.Sprintf("%.2f", r.GMOPD),
			fmt.Sprintf("%.2f", r.GMIPD),
		}
		for i, cell := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(pdfWidths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
