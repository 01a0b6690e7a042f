package pricing

import (
	"go-drug-pricing/internal/models"
)

// Mode selects which target drives the ladder.
type Mode string

const (
	ModeOPD Mode = "opd" // price from a target OPD list price
	ModeGM  Mode = "gm"  // price from a target gross margin %
)

// Request carries everything one recomputation needs. Ambient config (the
// SKG discount) rides along explicitly so the computation stays pure.
type Request struct {
	Mode           Mode    `json:"mode"`
	OPDTarget      float64 `json:"opd_target"`
	GMTarget       float64 `json:"gm_target"`
	SKGDiscountPct float64 `json:"skg_discount_pct"`
}

// ComputeItem prices a single item under the request and session overrides.
// A hand-edited OPD/IPD pair, when it is the most recent edit, seeds the
// computation instead of the target; the missing half of the pair still
// derives the usual way.
func ComputeItem(it models.Item, req Request, sess *Session) Result {
	eff := sess.EffectiveItem(it)

	if po, ok := sess.PriceSeed(it.ItemCode); ok {
		var opd float64
		if po.OPDPrice != nil {
			opd = num(*po.OPDPrice)
		} else if req.Mode == ModeGM {
			opd = opdForGMTarget(num(eff.Cost), req.GMTarget)
		} else {
			opd = num(req.OPDTarget)
		}
		var ipd float64
		if po.IPDPrice != nil {
			ipd = num(*po.IPDPrice)
		} else {
			ipd = opd * ResolveFactors(eff).IPD
		}
		return ComputeFromPrices(eff, opd, ipd, req.SKGDiscountPct)
	}

	if req.Mode == ModeGM {
		return ComputeFromGM(eff, req.GMTarget, req.SKGDiscountPct)
	}
	return ComputeFromOPD(eff, req.OPDTarget, req.SKGDiscountPct)
}

// ComputeAll prices every selected item and keys the results by item code.
func ComputeAll(items []models.Item, req Request, sess *Session) map[string]Result {
	results := make(map[string]Result, len(items))
	for _, it := range items {
		results[it.ItemCode] = ComputeItem(it, req, sess)
	}
	return results
}

// LossCodes lists the items whose SKG channel sells at a loss after the
// discount, on either line. Order follows the selection slice - that is a
// display convenience, not a guaranteed total order.
func LossCodes(items []models.Item, results map[string]Result) []string {
	var losses []string
	for _, it := range items {
		r, ok := results[it.ItemCode]
		if !ok {
			continue
		}
		if r.LossAfterSKGDiscountOPD || r.LossAfterSKGDiscountIPD {
			losses = append(losses, it.ItemCode)
		}
	}
	return losses
}
