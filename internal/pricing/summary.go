package pricing

import (
	"go-drug-pricing/internal/models"
)

// SummaryRow is the flat export row built from an item's saved prices.
// It reports what is currently persisted, not what is being previewed.
type SummaryRow struct {
	ItemCode  string  `json:"item_code"`
	ItemName  string  `json:"item_name"`
	Cost      float64 `json:"cost"`
	OPDPrice  float64 `json:"opd_price"`
	IPDPrice  float64 `json:"ipd_price"`
	ProfitOPD float64 `json:"profit_opd"`
	ProfitIPD float64 `json:"profit_ipd"`
	GMOPD     float64 `json:"gm_opd"`
	GMIPD     float64 `json:"gm_ipd"`
}

// BuildSummaryRows projects items into export rows. Missing numerics count
// as 0 so the table never shows a NaN.
func BuildSummaryRows(items []models.Item) []SummaryRow {
	rows := make([]SummaryRow, 0, len(items))
	for _, it := range items {
		cost := num(it.Cost)
		opd := deref(it.OPDPrice)
		ipd := deref(it.IPDPrice)

		name := it.FullName
		if name == "" {
			name = it.GenericName
		}

		rows = append(rows, SummaryRow{
			ItemCode:  it.ItemCode,
			ItemName:  name,
			Cost:      cost,
			OPDPrice:  opd,
			IPDPrice:  ipd,
			ProfitOPD: opd - cost,
			ProfitIPD: ipd - cost,
			GMOPD:     GM(opd, cost),
			GMIPD:     GM(ipd, cost),
		})
	}
	return rows
}
