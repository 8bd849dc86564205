package request

import (
	"github.com/shopspring/decimal"

	"wozamali-core/internal/model"
)

type UpsertMaterialRequest struct {
	Name           string           `json:"name" binding:"required,max=255"`
	Category       string           `json:"category" binding:"omitempty,oneof=aluminum pet other"`
	RatePerKg      decimal.Decimal  `json:"rate_per_kg" binding:"dec_gte0"`
	CO2PerKg       decimal.Decimal  `json:"co2_per_kg" binding:"dec_gte0"`
	WaterLPerKg    decimal.Decimal  `json:"water_l_per_kg" binding:"dec_gte0"`
	LandfillLPerKg decimal.Decimal  `json:"landfill_l_per_kg" binding:"dec_gte0"`
	PointsPerRand  *decimal.Decimal `json:"points_per_rand"`
	Active         *bool            `json:"active"` // defaults to true
}

func (r *UpsertMaterialRequest) ToModel(id string) *model.Material {
	m := &model.Material{
		ID:             id,
		Name:           r.Name,
		Category:       r.Category,
		RatePerKg:      r.RatePerKg,
		CO2PerKg:       r.CO2PerKg,
		WaterLPerKg:    r.WaterLPerKg,
		LandfillLPerKg: r.LandfillLPerKg,
		Active:         true,
	}
	if r.PointsPerRand != nil {
		m.PointsPerRand = decimal.NewNullDecimal(*r.PointsPerRand)
	}
	if r.Active != nil {
		m.Active = *r.Active
	}
	return m
}
