package models

import (
	"time"
)

// User - The staff member logging into the pricing tool
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'pricing', 'viewer'
	CreatedAt    time.Time `json:"created_at"`
}

// Item - One catalog entry. item_code is assigned externally and never changes.
// Factor fields are pointers: NULL means "not set", which is different from 0.
type Item struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	ItemCode    string `gorm:"uniqueIndex;size:60" json:"item_code"`
	GenericName string `gorm:"size:255" json:"generic_name"`
	FullName    string `gorm:"size:255" json:"full_name"`
	DosageForm  string `gorm:"size:20" json:"dosage_form"`
	MajorClass  string `gorm:"size:120" json:"major_class"`
	SubClass    string `gorm:"size:120" json:"sub_class"`

	Cost float64 `json:"cost"` // Acquisition cost, the margin baseline

	// Last saved price ladder
	OPDPrice          *float64 `json:"opd_price,omitempty"`
	IPDPrice          *float64 `json:"ipd_price,omitempty"`
	SKGOPDPrice       *float64 `json:"skg_opd_price,omitempty"`
	SKGIPDPrice       *float64 `json:"skg_ipd_price,omitempty"`
	OPDForeignerPrice *float64 `json:"opd_foreigner_price,omitempty"`
	IPDForeignerPrice *float64 `json:"ipd_foreigner_price,omitempty"`

	// Per-item pricing factors
	IPDFactor          *float64 `json:"ipd_factor,omitempty"`           // IPD/OPD ratio
	ForeignerUpliftPct *float64 `json:"foreigner_uplift_pct,omitempty"` // % uplift on OPD/IPD
	SKGOPDFactor       *float64 `json:"skg_opd_factor,omitempty"`
	SKGIPDFactor       *float64 `json:"skg_ipd_factor,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `gorm:"size:100" json:"updated_by"`
}

// Setting - Key/value row for ambient pricing config (SKG discount, defaults)
type Setting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"uniqueIndex;size:60" json:"key"`
	Value string `gorm:"size:255" json:"value"`
}

// AuditLog - Who changed what, written on createItem and bulkUpdatePricing
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Action    string    `gorm:"size:40" json:"action"`
	ItemCode  string    `gorm:"size:60;index" json:"item_code"`
	Actor     string    `gorm:"size:100" json:"actor"`
	Detail    string    `gorm:"size:500" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
