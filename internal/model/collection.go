package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection statuses
const (
	CollectionPending  = "pending"
	CollectionApproved = "approved"
	CollectionRejected = "rejected"
)

// Collection 回收记录 (one live pickup by a collector)
type Collection struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID  string   `gorm:"type:varchar(64);not null;index" json:"customer_id"`
	CollectorID string   `gorm:"type:varchar(64);not null;index" json:"collector_id"`
	AddressID   string   `gorm:"type:varchar(64)" json:"address_id,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	PhotoRefs   string   `gorm:"type:text" json:"photo_refs,omitempty"` // JSON array
	Fingerprint string   `gorm:"type:varchar(64);not null;index" json:"fingerprint"`

	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectReason string     `gorm:"type:text" json:"reject_reason,omitempty"`
	ApprovedBy   string     `gorm:"type:varchar(64)" json:"approved_by,omitempty"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`

	// Settlement snapshot, filled on approval.
	TotalKg          decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_kg"`
	TotalValue       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_value"`
	CO2Saved         decimal.Decimal `gorm:"column:co2_saved;type:decimal(14,2);not null;default:0" json:"co2_saved"`
	WaterSaved       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"water_saved"`
	LandfillSaved    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"landfill_saved"`
	TreesEquivalent  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"trees_equivalent"`
	PointsEarned     int64           `gorm:"not null;default:0" json:"points_earned"`
	GreenScholarFund decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"green_scholar_fund"`
	UserWallet       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"user_wallet"`
	SkippedItems     int             `gorm:"not null;default:0" json:"skipped_items"`

	Items     []CollectionItem `gorm:"foreignKey:CollectionID" json:"items,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (Collection) TableName() string {
	return "collections"
}

// CollectionItem 回收明细
type CollectionItem struct {
	ID                   uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CollectionID         string          `gorm:"type:varchar(36);not null;index" json:"collection_id"`
	Position             int             `gorm:"not null" json:"position"` // index in the submission
	MaterialID           string          `gorm:"type:varchar(64);not null" json:"material_id"`
	Kilograms            decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"kilograms"`
	ContaminationPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"contamination_percent"`
	Notes                string          `gorm:"type:text" json:"notes,omitempty"`

	// Filled on settlement with the rate in effect at that time.
	RatePerKg decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"rate_per_kg,omitempty"`
	Value     decimal.NullDecimal `gorm:"type:decimal(14,4)" json:"value,omitempty"`
	Category  string              `gorm:"type:varchar(20)" json:"category,omitempty"`
	Skipped   bool                `gorm:"not null;default:false" json:"skipped"`
}

func (CollectionItem) TableName() string {
	return "collection_items"
}
