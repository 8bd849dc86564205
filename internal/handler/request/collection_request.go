package request

import (
	"github.com/shopspring/decimal"

	"wozamali-core/internal/settlement"
)

type LineItemRequest struct {
	MaterialID           string          `json:"material_id" binding:"required"`
	Kilograms            decimal.Decimal `json:"kilograms" binding:"dec_kg"` // <= 0 is ignored by settlement
	ContaminationPercent decimal.Decimal `json:"contamination_percent" binding:"dec_pct"`
	Notes                string          `json:"notes" binding:"max=500"`
}

type GeoPointRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

// SubmitCollectionRequest 回收员提交回收单
type SubmitCollectionRequest struct {
	CustomerID  string            `json:"customer_id" binding:"required"`
	CollectorID string            `json:"collector_id" binding:"required"`
	AddressID   string            `json:"address_id"`
	Items       []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	PhotoRefs   []string          `json:"photo_refs" binding:"max=20"`
	Location    *GeoPointRequest  `json:"location"`
}

// QuoteRequest previews a settlement; an empty item list quotes zero.
type QuoteRequest struct {
	CustomerID string            `json:"customer_id"`
	Items      []LineItemRequest `json:"items" binding:"dive"`
}

type RejectCollectionRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ListCollectionsQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

func toLineItems(items []LineItemRequest) []settlement.LineItem {
	out := make([]settlement.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, settlement.LineItem{
			MaterialID:           it.MaterialID,
			Kilograms:            it.Kilograms,
			ContaminationPercent: it.ContaminationPercent,
			Notes:                it.Notes,
		})
	}
	return out
}

func (r *SubmitCollectionRequest) ToSubmission() settlement.Submission {
	sub := settlement.Submission{
		CustomerID:  r.CustomerID,
		CollectorID: r.CollectorID,
		AddressID:   r.AddressID,
		Items:       toLineItems(r.Items),
		PhotoRefs:   r.PhotoRefs,
	}
	if r.Location != nil {
		sub.Location = &settlement.GeoPoint{Latitude: r.Location.Latitude, Longitude: r.Location.Longitude}
	}
	return sub
}

func (r *QuoteRequest) ToSubmission() settlement.Submission {
	return settlement.Submission{
		CustomerID: r.CustomerID,
		Items:      toLineItems(r.Items),
	}
}
