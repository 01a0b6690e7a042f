package handlers

import (
	"net/http"

	"go-drug-pricing/internal/database"
	"go-drug-pricing/internal/pricing"

	"github.com/gin-gonic/gin"
)

type previewRequest struct {
	ItemCodes []string     `json:"item_codes"`
	Mode      pricing.Mode `json:"mode"`
	OPDTarget float64      `json:"opd_target"`
	GMTarget  float64      `json:"gm_target"`

	// Optional; falls back to the configured channel discount
	SKGDiscountPct *float64 `json:"skg_discount_pct"`

	// The editing session's unsaved overrides, keyed by item code
	FactorOverrides map[string]pricing.FactorOverride `json:"factor_overrides"`
	PriceOverrides  map[string]pricing.PriceOverride  `json:"price_overrides"`
}

// --- POST /api/pricing/preview ---
// Recomputes the full ladder for a working set. Stateless: the same request
// always produces the same response, which is what makes the
// preview-then-save flow trustworthy.
func PreviewPricing(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		storeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.ItemCodes) == 0 {
		storeError(c, http.StatusBadRequest, "No items selected")
		return
	}
	if req.Mode == "" {
		req.Mode = pricing.ModeOPD
	}
	if req.Mode != pricing.ModeOPD && req.Mode != pricing.ModeGM {
		storeError(c, http.StatusBadRequest, "Mode must be 'opd' or 'gm'")
		return
	}

	discount, err := resolveDiscount(req.SKGDiscountPct)
	if err != nil {
		storeError(c, http.StatusInternalServerError, "Failed to fetch config")
		return
	}

	items, err := database.ItemsByCodes(database.DB, req.ItemCodes)
	if err != nil {
		storeError(c, http.StatusInternalServerError, "Failed to fetch items")
		return
	}

	// Rebuild the caller's session; factor patches first so the later price
	// edits win the seed, matching the composer's precedence rule.
	sess := pricing.NewSession()
	for code, fo := range req.FactorOverrides {
		sess.SetFactors(code, fo)
	}
	for code, po := range req.PriceOverrides {
		sess.SetPrices(code, po)
	}

	compute := pricing.Request{
		Mode:           req.Mode,
		OPDTarget:      req.OPDTarget,
		GMTarget:       req.GMTarget,
		SKGDiscountPct: discount,
	}

	results := pricing.ComputeAll(items, compute, sess)
	lossCodes := pricing.LossCodes(items, results)
	if lossCodes == nil {
		lossCodes = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":               true,
		"results":          results,
		"loss_codes":       lossCodes,
		"skg_discount_pct": discount,
	})
}

func resolveDiscount(override *float64) (float64, error) {
	if override != nil {
		return *override, nil
	}
	cfg, err := database.GetPricingConfig(database.DB)
	if err != nil {
		return 0, err
	}
	return cfg.SKGDiscountPct, nil
}
