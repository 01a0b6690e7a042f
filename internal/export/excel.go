package export

import (
	"math"

	"go-drug-pricing/internal/pricing"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

var summaryHeaders = []string{
	"Item Code", "Item Name", "Cost",
	"OPD Price", "IPD Price",
	"Profit OPD", "Profit IPD",
	"%GM OPD", "%GM IPD",
}

// WriteXlsx serializes summary rows into a one-sheet workbook.
func WriteXlsx(rows []pricing.SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	for col, h := range summaryHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		values := []interface{}{
			r.ItemCode, r.ItemName, r.Cost,
			r.OPDPrice, r.IPDPrice,
			r.ProfitOPD, r.ProfitIPD,
			round2(r.GMOPD), round2(r.GMIPD),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// round2 matches the 2-decimal GM display used everywhere else.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
