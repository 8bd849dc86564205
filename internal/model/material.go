package model

import (
	"time"

	"github.com/shopspring/decimal"

	"wozamali-core/internal/settlement"
)

// Material 可回收物料目录
type Material struct {
	ID             string              `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name           string              `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Category       string              `gorm:"type:varchar(20)" json:"category"` // aluminum, pet, other; empty = derive from name
	RatePerKg      decimal.Decimal     `gorm:"type:decimal(12,4);not null;default:0" json:"rate_per_kg"`
	CO2PerKg       decimal.Decimal     `gorm:"column:co2_per_kg;type:decimal(12,4);not null;default:0" json:"co2_per_kg"`
	WaterLPerKg    decimal.Decimal     `gorm:"column:water_l_per_kg;type:decimal(12,4);not null;default:0" json:"water_l_per_kg"`
	LandfillLPerKg decimal.Decimal     `gorm:"column:landfill_l_per_kg;type:decimal(12,4);not null;default:0" json:"landfill_l_per_kg"`
	PointsPerRand  decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"points_per_rand"`
	Active         bool                `gorm:"not null" json:"active"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func (Material) TableName() string {
	return "materials"
}

// ToSettlement converts the row into the engine's view; the category is
// resolved here, once, not on every settlement.
func (m Material) ToSettlement() settlement.Material {
	return settlement.Material{
		ID:             m.ID,
		Name:           m.Name,
		Category:       settlement.ResolveCategory(m.Category, m.Name),
		RatePerKg:      m.RatePerKg,
		CO2PerKg:       m.CO2PerKg,
		WaterLPerKg:    m.WaterLPerKg,
		LandfillLPerKg: m.LandfillLPerKg,
		PointsPerRand:  m.PointsPerRand,
	}
}
