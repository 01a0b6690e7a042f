package database

import (
	"go-drug-pricing/internal/models"

	"gorm.io/gorm"
)

// SubclassSummaryRow is the per-subclass margin rollup. Averages are nil
// when no item in the subclass has a positive saved price - NULL, not 0,
// so the report can tell "unpriced" apart from "zero margin".
type SubclassSummaryRow struct {
	SubClass  string   `json:"sub_class"`
	ItemCount int64    `json:"item_count"`
	AvgGMOPD  *float64 `json:"avg_gm_opd"`
	AvgGMIPD  *float64 `json:"avg_gm_ipd"`
}

// GetSubclassSummary aggregates saved margins per catalog subclass.
// The CASE guards keep non-positive prices out of the average entirely.
func GetSubclassSummary(db *gorm.DB) ([]SubclassSummaryRow, error) {
	var rows []SubclassSummaryRow

	err := db.Model(&models.Item{}).
		Select(`sub_class,
			COUNT(*) AS item_count,
			AVG(CASE WHEN opd_price > 0 THEN (opd_price - cost) / opd_price * 100 END) AS avg_gm_opd,
			AVG(CASE WHEN ipd_price > 0 THEN (ipd_price - cost) / ipd_price * 100 END) AS avg_gm_ipd`).
		Group("sub_class").
		Order("sub_class").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
