package pricing

import (
	"go-drug-pricing/internal/models"
)

// FactorOverride is a not-yet-saved patch to an item's factor set. Any
// subset of fields may be present; nil means "keep the persisted value".
// An explicit 0 is honored, only nil falls through.
type FactorOverride struct {
	IPDFactor          *float64 `json:"ipd_factor,omitempty"`
	ForeignerUpliftPct *float64 `json:"foreigner_uplift_pct,omitempty"`
	SKGOPDFactor       *float64 `json:"skg_opd_factor,omitempty"`
	SKGIPDFactor       *float64 `json:"skg_ipd_factor,omitempty"`
}

// PriceOverride is a hand-edited OPD/IPD cell, used instead of recomputing
// the pair from the active target. SKG/foreigner lines are still derived
// fresh from it.
type PriceOverride struct {
	OPDPrice *float64 `json:"opd_price,omitempty"`
	IPDPrice *float64 `json:"ipd_price,omitempty"`
}

type editAxis int

const (
	axisNone editAxis = iota
	axisFactor
	axisPrice
)

// Session holds one editing session's unsaved overrides, keyed by item code.
// It is owned by the caller: created empty when editing starts, cleared on a
// successful save or when the selection is abandoned. Nothing in here is
// ever persisted directly - only the recomputed ladder is.
type Session struct {
	factors  map[string]FactorOverride
	prices   map[string]PriceOverride
	lastEdit map[string]editAxis
}

func NewSession() *Session {
	return &Session{
		factors:  make(map[string]FactorOverride),
		prices:   make(map[string]PriceOverride),
		lastEdit: make(map[string]editAxis),
	}
}

// SetFactors records a factor patch for an item and makes the factor axis
// the most recent edit, so the OPD/IPD pair goes back to being derived from
// the active target.
func (s *Session) SetFactors(code string, ov FactorOverride) {
	s.factors[code] = ov
	s.lastEdit[code] = axisFactor
}

// SetOPDPrice records a direct OPD edit. The IPD price cascades down the
// ladder through the item's effective IPD factor at the moment of the edit.
func (s *Session) SetOPDPrice(it models.Item, v float64) {
	v = num(v)
	ipd := v * ResolveFactors(s.EffectiveItem(it)).IPD
	po := s.prices[it.ItemCode]
	po.OPDPrice = &v
	po.IPDPrice = &ipd
	s.prices[it.ItemCode] = po
	s.lastEdit[it.ItemCode] = axisPrice
}

// SetIPDPrice records a direct IPD edit. It does not push back up to OPD.
func (s *Session) SetIPDPrice(code string, v float64) {
	v = num(v)
	po := s.prices[code]
	po.IPDPrice = &v
	s.prices[code] = po
	s.lastEdit[code] = axisPrice
}

// SetPrices restores an already-cascaded OPD/IPD pair, e.g. when a preview
// request replays a session that was edited elsewhere. No cascade is applied.
func (s *Session) SetPrices(code string, po PriceOverride) {
	s.prices[code] = po
	s.lastEdit[code] = axisPrice
}

// PriceSeed reports the hand-edited OPD/IPD pair for an item, and whether a
// price edit is the most recent edit and should seed the computation.
func (s *Session) PriceSeed(code string) (PriceOverride, bool) {
	if s == nil || s.lastEdit[code] != axisPrice {
		return PriceOverride{}, false
	}
	po, ok := s.prices[code]
	return po, ok
}

// EffectiveItem merges an item's persisted factors with the session's factor
// override. The result, not the raw item, is what every computation and the
// save payload see.
func (s *Session) EffectiveItem(it models.Item) models.Item {
	if s == nil {
		return it
	}
	ov, ok := s.factors[it.ItemCode]
	if !ok {
		return it
	}
	out := it
	if ov.IPDFactor != nil {
		v := *ov.IPDFactor
		out.IPDFactor = &v
	}
	if ov.ForeignerUpliftPct != nil {
		v := *ov.ForeignerUpliftPct
		out.ForeignerUpliftPct = &v
	}
	if ov.SKGOPDFactor != nil {
		v := *ov.SKGOPDFactor
		out.SKGOPDFactor = &v
	}
	if ov.SKGIPDFactor != nil {
		v := *ov.SKGIPDFactor
		out.SKGIPDFactor = &v
	}
	return out
}

// Clear drops all overrides for one item.
func (s *Session) Clear(code string) {
	delete(s.factors, code)
	delete(s.prices, code)
	delete(s.lastEdit, code)
}

// Reset empties the session, e.g. after a successful save.
func (s *Session) Reset() {
	s.factors = make(map[string]FactorOverride)
	s.prices = make(map[string]PriceOverride)
	s.lastEdit = make(map[string]editAxis)
}
