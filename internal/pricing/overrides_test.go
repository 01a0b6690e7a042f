package pricing

import (
	"testing"

	"go-drug-pricing/internal/models"
)

func TestEffectiveItemOverridePrecedence(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0001", Cost: 100, IPDFactor: fptr(1.6)}
	sess := NewSession()

	// No override: persisted value flows through
	nearlyEqual(t, "persisted ipd factor", ResolveFactors(sess.EffectiveItem(it)).IPD, 1.6)

	sess.SetFactors("DRG-0001", FactorOverride{IPDFactor: fptr(2.0)})
	nearlyEqual(t, "overridden ipd factor", ResolveFactors(sess.EffectiveItem(it)).IPD, 2.0)

	// Removing the override restores the persisted value
	sess.Clear("DRG-0001")
	nearlyEqual(t, "restored ipd factor", ResolveFactors(sess.EffectiveItem(it)).IPD, 1.6)
}

func TestEffectiveItemHonorsZeroOverride(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0002", Cost: 50, ForeignerUpliftPct: fptr(30)}
	sess := NewSession()

	// An explicit 0 is a real value, not "absent"
	sess.SetFactors("DRG-0002", FactorOverride{ForeignerUpliftPct: fptr(0)})
	nearlyEqual(t, "zero uplift honored", ResolveFactors(sess.EffectiveItem(it)).UpliftPct, 0)

	// Fields left nil in the override fall through
	nearlyEqual(t, "ipd factor untouched", ResolveFactors(sess.EffectiveItem(it)).IPD, 1)
}

func TestEffectiveItemDoesNotMutateOriginal(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0003", Cost: 10, IPDFactor: fptr(1.6)}
	sess := NewSession()
	sess.SetFactors("DRG-0003", FactorOverride{IPDFactor: fptr(3)})

	_ = sess.EffectiveItem(it)
	nearlyEqual(t, "original factor", *it.IPDFactor, 1.6)
}

func TestOPDEditCascadesToIPD(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0004", Cost: 100, IPDFactor: fptr(1.5)}
	sess := NewSession()

	sess.SetOPDPrice(it, 200)

	po, ok := sess.PriceSeed("DRG-0004")
	if !ok {
		t.Fatal("expected a price seed after an OPD edit")
	}
	nearlyEqual(t, "opd", *po.OPDPrice, 200)
	nearlyEqual(t, "cascaded ipd", *po.IPDPrice, 300)
}

func TestOPDEditCascadesThroughOverriddenFactor(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0005", Cost: 100, IPDFactor: fptr(1.5)}
	sess := NewSession()

	// The cascade uses the factor in effect, including an unsaved override
	sess.SetFactors("DRG-0005", FactorOverride{IPDFactor: fptr(2.0)})
	sess.SetOPDPrice(it, 100)

	po, _ := sess.PriceSeed("DRG-0005")
	nearlyEqual(t, "cascaded ipd via override", *po.IPDPrice, 200)
}

func TestIPDEditStandsAlone(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0006", Cost: 100, IPDFactor: fptr(1.2)}
	sess := NewSession()

	sess.SetIPDPrice("DRG-0006", 500)

	po, ok := sess.PriceSeed("DRG-0006")
	if !ok {
		t.Fatal("expected a price seed after an IPD edit")
	}
	if po.OPDPrice != nil {
		t.Fatalf("IPD edit must not push back up to OPD, got %v", *po.OPDPrice)
	}
	nearlyEqual(t, "ipd", *po.IPDPrice, 500)

	// The missing OPD half still derives from the active target
	r := ComputeItem(it, Request{Mode: ModeOPD, OPDTarget: 100, SKGDiscountPct: 0}, sess)
	nearlyEqual(t, "opd from target", r.OPDPrice, 100)
	nearlyEqual(t, "ipd from edit", r.IPDPrice, 500)
}

func TestFactorEditAfterPriceEditWinsTheSeed(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0007", Cost: 100, IPDFactor: fptr(1.2)}
	sess := NewSession()

	sess.SetOPDPrice(it, 999)
	sess.SetFactors("DRG-0007", FactorOverride{IPDFactor: fptr(1.4)})

	// Most recent edit is a factor, so the pair derives from the target again
	if _, ok := sess.PriceSeed("DRG-0007"); ok {
		t.Fatal("factor edit should supersede the stale price seed")
	}
	r := ComputeItem(it, Request{Mode: ModeOPD, OPDTarget: 100, SKGDiscountPct: 0}, sess)
	nearlyEqual(t, "opd from target", r.OPDPrice, 100)
	nearlyEqual(t, "ipd via new factor", r.IPDPrice, 140)
}

func TestSessionReset(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0008", Cost: 10, IPDFactor: fptr(1.6)}
	sess := NewSession()
	sess.SetFactors("DRG-0008", FactorOverride{IPDFactor: fptr(2)})
	sess.SetOPDPrice(it, 50)

	sess.Reset()

	if _, ok := sess.PriceSeed("DRG-0008"); ok {
		t.Fatal("reset should drop price overrides")
	}
	nearlyEqual(t, "factor back to persisted", ResolveFactors(sess.EffectiveItem(it)).IPD, 1.6)
}

func TestNilSessionIsNeutral(t *testing.T) {
	it := models.Item{ItemCode: "DRG-0009", Cost: 100, IPDFactor: fptr(1.2)}
	var sess *Session

	r := ComputeItem(it, Request{Mode: ModeOPD, OPDTarget: 150, SKGDiscountPct: 20}, sess)
	nearlyEqual(t, "opd", r.OPDPrice, 150)
	nearlyEqual(t, "ipd", r.IPDPrice, 180)
}
