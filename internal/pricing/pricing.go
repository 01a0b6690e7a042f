package pricing

import (
	"math"

	"go-drug-pricing/internal/models"
)

// num coerces NaN/Inf to 0 so a half-typed input can never poison a preview.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// deref reads an optional numeric field, treating NULL as 0.
func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return num(*p)
}

// GM returns the gross margin percentage for a price against a cost.
// A price of zero or below has no meaningful margin, so it reports 0
// instead of erroring - the preview table needs a stable value to render.
func GM(price, cost float64) float64 {
	price = num(price)
	cost = num(cost)
	if price <= 0 {
		return 0
	}
	return (price - cost) / price * 100
}

// Factors is the effective per-item factor set after defaults are applied.
type Factors struct {
	IPD       float64 // IPD price = OPD price * IPD
	UpliftPct float64 // foreigner price = base * (1 + UpliftPct/100)
	SKGOPD    float64 // SKG OPD list price = OPD price * SKGOPD
	SKGIPD    float64 // SKG IPD list price = IPD price * SKGIPD
}

// ResolveFactors reads an item's factors with the compute-level defaults:
// missing ratios fall back to 1, a missing uplift to 0. These are the
// neutral values, not the house defaults - those live in config and are
// applied when an item is created.
func ResolveFactors(it models.Item) Factors {
	f := Factors{IPD: 1, UpliftPct: 0, SKGOPD: 1, SKGIPD: 1}
	if it.IPDFactor != nil {
		f.IPD = num(*it.IPDFactor)
	}
	if it.ForeignerUpliftPct != nil {
		f.UpliftPct = num(*it.ForeignerUpliftPct)
	}
	if it.SKGOPDFactor != nil {
		f.SKGOPD = num(*it.SKGOPDFactor)
	}
	if it.SKGIPDFactor != nil {
		f.SKGIPD = num(*it.SKGIPDFactor)
	}
	return f
}

// Result is the full computed price ladder for one item. It is derived on
// every input change and never stored.
type Result struct {
	OPDPrice          float64 `json:"opd_price"`
	IPDPrice          float64 `json:"ipd_price"`
	SKGOPDPrice       float64 `json:"skg_opd_price"`
	SKGIPDPrice       float64 `json:"skg_ipd_price"`
	OPDForeignerPrice float64 `json:"opd_foreigner_price"`
	IPDForeignerPrice float64 `json:"ipd_foreigner_price"`

	GMOPD          float64 `json:"gm_opd"`
	GMIPD          float64 `json:"gm_ipd"`
	GMSKGOPD       float64 `json:"gm_skg_opd"`
	GMSKGIPD       float64 `json:"gm_skg_ipd"`
	GMOPDForeigner float64 `json:"gm_opd_foreigner"`
	GMIPDForeigner float64 `json:"gm_ipd_foreigner"`

	SKGDiscountPct         float64 `json:"skg_discount_pct"`
	SKGOPDDiscounted       float64 `json:"skg_opd_discounted"`
	SKGIPDDiscounted       float64 `json:"skg_ipd_discounted"`
	ProfitSKGOPDDiscounted float64 `json:"profit_skg_opd_discounted"`
	ProfitSKGIPDDiscounted float64 `json:"profit_skg_ipd_discounted"`

	LossAfterSKGDiscountOPD bool `json:"loss_after_skg_discount_opd"`
	LossAfterSKGDiscountIPD bool `json:"loss_after_skg_discount_ipd"`
}

// ComputeFromPrices derives the rest of the ladder from a fixed OPD/IPD pair.
// The SKG and foreigner lines always come from here, whichever way the pair
// itself was produced (target, margin inversion, or a hand-edited cell).
func ComputeFromPrices(it models.Item, opdPrice, ipdPrice, skgDiscountPct float64) Result {
	cost := num(it.Cost)
	opdPrice = num(opdPrice)
	ipdPrice = num(ipdPrice)
	skgDiscountPct = num(skgDiscountPct)
	f := ResolveFactors(it)

	skgOPD := opdPrice * f.SKGOPD
	skgIPD := ipdPrice * f.SKGIPD

	uplift := 1 + f.UpliftPct/100
	opdForeigner := opdPrice * uplift
	ipdForeigner := ipdPrice * uplift

	skgOPDDiscounted := skgOPD * (1 - skgDiscountPct/100)
	skgIPDDiscounted := skgIPD * (1 - skgDiscountPct/100)

	profitOPD := skgOPDDiscounted - cost
	profitIPD := skgIPDDiscounted - cost

	return Result{
		OPDPrice:          opdPrice,
		IPDPrice:          ipdPrice,
		SKGOPDPrice:       skgOPD,
		SKGIPDPrice:       skgIPD,
		OPDForeignerPrice: opdForeigner,
		IPDForeignerPrice: ipdForeigner,

		GMOPD:          GM(opdPrice, cost),
		GMIPD:          GM(ipdPrice, cost),
		GMSKGOPD:       GM(skgOPD, cost),
		GMSKGIPD:       GM(skgIPD, cost),
		GMOPDForeigner: GM(opdForeigner, cost),
		GMIPDForeigner: GM(ipdForeigner, cost),

		SKGDiscountPct:         skgDiscountPct,
		SKGOPDDiscounted:       skgOPDDiscounted,
		SKGIPDDiscounted:       skgIPDDiscounted,
		ProfitSKGOPDDiscounted: profitOPD,
		ProfitSKGIPDDiscounted: profitIPD,

		LossAfterSKGDiscountOPD: profitOPD < 0,
		LossAfterSKGDiscountIPD: profitIPD < 0,
	}
}

// ComputeFromOPD prices the ladder from a target OPD list price.
// The target is taken as-is; callers are expected to pass something >= 0.
func ComputeFromOPD(it models.Item, opdTarget, skgDiscountPct float64) Result {
	opdPrice := num(opdTarget)
	ipdPrice := opdPrice * ResolveFactors(it).IPD
	return ComputeFromPrices(it, opdPrice, ipdPrice, skgDiscountPct)
}

// ComputeFromGM prices the ladder from a target gross margin percentage by
// inverting gm = (p - c) / p. The target is clamped to [0, 99.99]: 100%
// would mean dividing by zero, and there is nothing sensible to solve for.
func ComputeFromGM(it models.Item, gmTargetPct, skgDiscountPct float64) Result {
	opdPrice := opdForGMTarget(num(it.Cost), gmTargetPct)
	return ComputeFromOPD(it, opdPrice, skgDiscountPct)
}

func opdForGMTarget(cost, gmTargetPct float64) float64 {
	target := math.Max(0, math.Min(99.99, num(gmTargetPct)))
	denom := 1 - target/100
	if denom <= 0 {
		return 0
	}
	return cost / denom
}
