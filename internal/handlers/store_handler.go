package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"go-drug-pricing/internal/database"
	"go-drug-pricing/internal/models"

	"github.com/gin-gonic/gin"
)

// The store API mirrors the action-based contract the frontend speaks:
// every response is a tagged envelope - {ok:true, ...} with a payload, or
// {ok:false, error} whose message is shown to the user verbatim.

// How many loss codes we spell out before collapsing to "+N more"
const lossDisplayCap = 8

func storeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// --- GET /api/store?action=... ---
func StoreQuery(c *gin.Context) {
	switch c.Query("action") {

	case "items":
		items, err := database.SearchItems(database.DB, strings.TrimSpace(c.Query("q")))
		if err != nil {
			storeError(c, http.StatusInternalServerError, "Failed to fetch items")
			return
		}
		if items == nil {
			items = []models.Item{}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})

	case "config":
		cfg, err := database.GetPricingConfig(database.DB)
		if err != nil {
			storeError(c, http.StatusInternalServerError, "Failed to fetch config")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "config": cfg})

	case "summarySubclass":
		rows, err := database.GetSubclassSummary(database.DB)
		if err != nil {
			storeError(c, http.StatusInternalServerError, "Failed to fetch summary")
			return
		}
		if rows == nil {
			rows = []database.SubclassSummaryRow{}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "rows": rows})

	default:
		storeError(c, http.StatusBadRequest, "Unknown action")
	}
}

type mutateRequest struct {
	Action          string                   `json:"action"`
	Item            *models.Item             `json:"item"`
	Items           []database.PricingUpdate `json:"items"`
	UpdatedBy       string                   `json:"updatedBy"`
	AcknowledgeLoss bool                     `json:"acknowledgeLoss"`
}

// --- POST /api/store ---
func StoreMutate(c *gin.Context) {
	var req mutateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		storeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "createItem":
		createItem(c, req)
	case "bulkUpdatePricing":
		bulkUpdatePricing(c, req)
	default:
		storeError(c, http.StatusBadRequest, "Unknown action")
	}
}

func createItem(c *gin.Context, req mutateRequest) {
	if req.Item == nil || strings.TrimSpace(req.Item.ItemCode) == "" {
		storeError(c, http.StatusBadRequest, "Item code is required")
		return
	}
	if req.Item.Cost < 0 {
		storeError(c, http.StatusBadRequest, "Cost must not be negative")
		return
	}
	actor := strings.TrimSpace(req.UpdatedBy)
	if actor == "" {
		storeError(c, http.StatusBadRequest, "Updated By is required")
		return
	}

	item := *req.Item
	item.ItemCode = strings.TrimSpace(item.ItemCode)

	// New items without explicit factors pick up the house defaults
	cfg, err := database.GetPricingConfig(database.DB)
	if err != nil {
		storeError(c, http.StatusInternalServerError, "Failed to fetch config")
		return
	}
	if item.IPDFactor == nil {
		v := cfg.DefaultIPDFactor
		item.IPDFactor = &v
	}
	if item.ForeignerUpliftPct == nil {
		v := cfg.DefaultForeignerUpliftPct
		item.ForeignerUpliftPct = &v
	}

	saved, mode, err := database.UpsertItem(database.DB, item, actor)
	if err != nil {
		storeError(c, http.StatusInternalServerError, "Failed to save item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "item": saved, "mode": mode})
}

func bulkUpdatePricing(c *gin.Context, req mutateRequest) {
	// Precondition guards: reject before touching the database
	if len(req.Items) == 0 {
		storeError(c, http.StatusBadRequest, "No items selected")
		return
	}
	actor := strings.TrimSpace(req.UpdatedBy)
	if actor == "" {
		storeError(c, http.StatusBadRequest, "Updated By is required")
		return
	}

	// Loss gate: a save that would sell below cost after the SKG discount
	// needs an explicit acknowledgement from the caller
	if !req.AcknowledgeLoss {
		lossCodes, err := lossCodesForSave(req.Items)
		if err != nil {
			storeError(c, http.StatusInternalServerError, "Failed to verify pricing")
			return
		}
		if len(lossCodes) > 0 {
			c.JSON(http.StatusConflict, gin.H{
				"ok":         false,
				"error":      lossGateMessage(lossCodes),
				"loss_codes": lossCodes,
			})
			return
		}
	}

	count, err := database.BulkUpdatePricing(database.DB, req.Items, actor)
	if err != nil {
		storeError(c, http.StatusInternalServerError, "Failed to save pricing")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "updatedCount": count})
}

// lossCodesForSave re-checks the submitted SKG prices against each item's
// cost under the configured discount, in the order they were submitted.
func lossCodesForSave(updates []database.PricingUpdate) ([]string, error) {
	cfg, err := database.GetPricingConfig(database.DB)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(updates))
	for _, u := range updates {
		codes = append(codes, u.ItemCode)
	}
	items, err := database.ItemsByCodes(database.DB, codes)
	if err != nil {
		return nil, err
	}
	costByCode := make(map[string]float64, len(items))
	for _, it := range items {
		costByCode[it.ItemCode] = it.Cost
	}

	keep := 1 - cfg.SKGDiscountPct/100
	var losses []string
	for _, u := range updates {
		cost, ok := costByCode[u.ItemCode]
		if !ok {
			continue
		}
		loss := false
		if u.Pricing.SKGOPDPrice != nil && *u.Pricing.SKGOPDPrice*keep-cost < 0 {
			loss = true
		}
		if u.Pricing.SKGIPDPrice != nil && *u.Pricing.SKGIPDPrice*keep-cost < 0 {
			loss = true
		}
		if loss {
			losses = append(losses, u.ItemCode)
		}
	}
	return losses, nil
}

func lossGateMessage(lossCodes []string) string {
	shown := lossCodes
	more := ""
	if len(shown) > lossDisplayCap {
		more = fmt.Sprintf(" (+%d more)", len(shown)-lossDisplayCap)
		shown = shown[:lossDisplayCap]
	}
	return fmt.Sprintf(
		"Loss after SKG discount on: %s%s. Re-submit with acknowledgeLoss to save anyway.",
		strings.Join(shown, ", "), more,
	)
}
