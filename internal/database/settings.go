package database

import (
	"strconv"

	"go-drug-pricing/internal/models"

	"gorm.io/gorm"
)

// PricingConfig is the ambient pricing configuration the frontend fetches
// once per session. It is always passed into computations explicitly, never
// read as global state from inside the pricing package.
type PricingConfig struct {
	SKGDiscountPct            float64 `json:"skg_discount_pct"`
	MinMarginPctWarning       float64 `json:"min_margin_pct_warning"`
	DefaultIPDFactor          float64 `json:"default_ipd_factor"`
	DefaultForeignerUpliftPct float64 `json:"default_foreigner_uplift_pct"`
}

// House defaults, used until a settings row overrides them.
func defaultPricingConfig() PricingConfig {
	return PricingConfig{
		SKGDiscountPct:            20,
		MinMarginPctWarning:       10,
		DefaultIPDFactor:          1.6,
		DefaultForeignerUpliftPct: 30,
	}
}

// GetPricingConfig reads the settings table over the compiled defaults.
// Unparseable rows keep the default rather than failing the fetch.
func GetPricingConfig(db *gorm.DB) (PricingConfig, error) {
	cfg := defaultPricingConfig()

	var rows []models.Setting
	if err := db.Find(&rows).Error; err != nil {
		return cfg, err
	}

	for _, row := range rows {
		v, err := strconv.ParseFloat(row.Value, 64)
		if err != nil {
			continue
		}
		switch row.Key {
		case "skg_discount_pct":
			cfg.SKGDiscountPct = v
		case "min_margin_pct_warning":
			cfg.MinMarginPctWarning = v
		case "default_ipd_factor":
			cfg.DefaultIPDFactor = v
		case "default_foreigner_uplift_pct":
			cfg.DefaultForeignerUpliftPct = v
		}
	}

	return cfg, nil
}
