package database

import (
	"fmt"
	"time"

	"go-drug-pricing/internal/models"

	"gorm.io/gorm"
)

// SearchItems filters the catalog with one free-text needle matched as a
// substring against code, names and both class columns. An empty query
// returns everything.
func SearchItems(db *gorm.DB, q string) ([]models.Item, error) {
	var items []models.Item

	tx := db.Order("item_code")
	if q != "" {
		needle := "%" + q + "%"
		tx = tx.Where(
			"item_code LIKE ? OR generic_name LIKE ? OR full_name LIKE ? OR major_class LIKE ? OR sub_class LIKE ?",
			needle, needle, needle, needle, needle,
		)
	}

	if err := tx.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ItemsByCodes fetches a working set in the order the codes were selected.
func ItemsByCodes(db *gorm.DB, codes []string) ([]models.Item, error) {
	var items []models.Item
	if err := db.Where("item_code IN ?", codes).Find(&items).Error; err != nil {
		return nil, err
	}

	byCode := make(map[string]models.Item, len(items))
	for _, it := range items {
		byCode[it.ItemCode] = it
	}

	ordered := make([]models.Item, 0, len(items))
	for _, code := range codes {
		if it, ok := byCode[code]; ok {
			ordered = append(ordered, it)
		}
	}
	return ordered, nil
}

// UpsertItem creates the item, or updates it in place when the code already
// exists. Returns the stored row and whether it was "created" or "updated".
func UpsertItem(db *gorm.DB, in models.Item, actor string) (models.Item, string, error) {
	mode := "created"

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Item
		findErr := tx.Where("item_code = ?", in.ItemCode).First(&existing).Error

		in.UpdatedBy = actor
		in.UpdatedAt = time.Now()

		switch {
		case findErr == nil:
			// Keep the surrogate key, replace everything else
			in.ID = existing.ID
			mode = "updated"
			if err := tx.Save(&in).Error; err != nil {
				return err
			}
		case findErr == gorm.ErrRecordNotFound:
			if err := tx.Create(&in).Error; err != nil {
				return err
			}
		default:
			return findErr
		}

		return tx.Create(&models.AuditLog{
			Action:   "createItem",
			ItemCode: in.ItemCode,
			Actor:    actor,
			Detail:   mode,
		}).Error
	})
	if err != nil {
		return models.Item{}, "", err
	}

	return in, mode, nil
}

// PricingFields is the per-item payload of a bulk price save. Every field is
// optional; only the fields that were sent are written.
type PricingFields struct {
	OPDPrice          *float64 `json:"opd_price,omitempty"`
	IPDPrice          *float64 `json:"ipd_price,omitempty"`
	SKGOPDPrice       *float64 `json:"skg_opd_price,omitempty"`
	SKGIPDPrice       *float64 `json:"skg_ipd_price,omitempty"`
	OPDForeignerPrice *float64 `json:"opd_foreigner_price,omitempty"`
	IPDForeignerPrice *float64 `json:"ipd_foreigner_price,omitempty"`

	IPDFactor          *float64 `json:"ipd_factor,omitempty"`
	ForeignerUpliftPct *float64 `json:"foreigner_uplift_pct,omitempty"`
	SKGOPDFactor       *float64 `json:"skg_opd_factor,omitempty"`
	SKGIPDFactor       *float64 `json:"skg_ipd_factor,omitempty"`
}

// PricingUpdate targets one item in a bulk save.
type PricingUpdate struct {
	ItemCode string        `json:"item_code"`
	Pricing  PricingFields `json:"pricing"`
}

// columns builds the partial update map, so we only touch what was sent.
func (p PricingFields) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	set := func(name string, v *float64) {
		if v != nil {
			cols[name] = *v
		}
	}
	set("opd_price", p.OPDPrice)
	set("ipd_price", p.IPDPrice)
	set("skg_opd_price", p.SKGOPDPrice)
	set("skg_ipd_price", p.SKGIPDPrice)
	set("opd_foreigner_price", p.OPDForeignerPrice)
	set("ipd_foreigner_price", p.IPDForeignerPrice)
	set("ipd_factor", p.IPDFactor)
	set("foreigner_uplift_pct", p.ForeignerUpliftPct)
	set("skg_opd_factor", p.SKGOPDFactor)
	set("skg_ipd_factor", p.SKGIPDFactor)
	return cols
}

// BulkUpdatePricing writes a batch of approved prices in one transaction.
// Unknown codes are skipped; the returned count is rows actually written.
// Either every row commits or none does.
func BulkUpdatePricing(db *gorm.DB, updates []PricingUpdate, actor string) (int64, error) {
	var updated int64

	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, u := range updates {
			cols := u.Pricing.columns()
			if len(cols) == 0 {
				continue
			}
			cols["updated_by"] = actor
			cols["updated_at"] = now

			res := tx.Model(&models.Item{}).Where("item_code = ?", u.ItemCode).Updates(cols)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			updated += res.RowsAffected

			if err := tx.Create(&models.AuditLog{
				Action:   "bulkUpdatePricing",
				ItemCode: u.ItemCode,
				Actor:    actor,
				Detail:   fmt.Sprintf("%d field(s)", len(cols)-2),
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}
