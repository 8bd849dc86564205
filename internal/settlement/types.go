package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Material is a catalog entry as seen by the engine. It is read-only here.
type Material struct {
	ID             string
	Name           string
	Category       Category
	RatePerKg      decimal.Decimal
	CO2PerKg       decimal.Decimal
	WaterLPerKg    decimal.Decimal
	LandfillLPerKg decimal.Decimal
	// PointsPerRand defaults to 1 when not set.
	PointsPerRand decimal.NullDecimal
}

// pointsRate returns the points multiplier, applying the default.
func (m Material) pointsRate() decimal.Decimal {
	if !m.PointsPerRand.Valid {
		return decimal.NewFromInt(1)
	}
	return m.PointsPerRand.Decimal
}

// category falls back to the display name for entries built without one.
func (m Material) category() Category {
	if m.Category.Valid() {
		return m.Category
	}
	return ClassifyName(m.Name)
}

// MaterialLookup resolves a material ID to the entry in effect right now.
// Implementations return ErrMaterialNotFound for unknown IDs; any other error
// is treated as the store being unavailable.
type MaterialLookup interface {
	Lookup(ctx context.Context, id string) (Material, error)
}

// LookupFunc adapts a function to MaterialLookup.
type LookupFunc func(ctx context.Context, id string) (Material, error)

func (f LookupFunc) Lookup(ctx context.Context, id string) (Material, error) {
	return f(ctx, id)
}

// StaticCatalog is an in-memory lookup, used by the CLI and tests.
type StaticCatalog map[string]Material

func (c StaticCatalog) Lookup(_ context.Context, id string) (Material, error) {
	m, ok := c[id]
	if !ok {
		return Material{}, ErrMaterialNotFound
	}
	return m, nil
}

// LineItem is one material entry of a submitted collection.
type LineItem struct {
	MaterialID string          `json:"material_id" yaml:"material_id"`
	Kilograms  decimal.Decimal `json:"kilograms" yaml:"kilograms"`
	// ContaminationPercent is informational and never affects the result.
	ContaminationPercent decimal.Decimal `json:"contamination_percent" yaml:"contamination_percent"`
	Notes                string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Submission is the input to settlement. Settle never mutates it.
type Submission struct {
	CustomerID  string     `json:"customer_id" yaml:"customer_id"`
	CollectorID string     `json:"collector_id" yaml:"collector_id"`
	AddressID   string     `json:"address_id,omitempty" yaml:"address_id,omitempty"`
	Items       []LineItem `json:"items" yaml:"items"`
	PhotoRefs   []string   `json:"photo_refs,omitempty" yaml:"photo_refs,omitempty"`
	Location    *GeoPoint  `json:"location,omitempty" yaml:"location,omitempty"`
}

// HasPositiveWeight reports whether at least one item would count towards
// the totals, ignoring catalog resolution.
func (s Submission) HasPositiveWeight() bool {
	for _, it := range s.Items {
		if it.Kilograms.IsPositive() {
			return true
		}
	}
	return false
}

type Impact struct {
	CO2Saved        decimal.Decimal `json:"co2_saved"`
	WaterSaved      decimal.Decimal `json:"water_saved"`
	LandfillSaved   decimal.Decimal `json:"landfill_saved"`
	TreesEquivalent decimal.Decimal `json:"trees_equivalent"`
}

// FundAllocation halves are rounded independently and may drift from the
// total by up to one cent each.
type FundAllocation struct {
	GreenScholarFund decimal.Decimal `json:"green_scholar_fund"`
	UserWallet       decimal.Decimal `json:"user_wallet"`
}

func (f FundAllocation) Total() decimal.Decimal {
	return f.GreenScholarFund.Add(f.UserWallet)
}

// SkippedItem reports a line item whose material could not be resolved.
type SkippedItem struct {
	Index      int    `json:"index"`
	MaterialID string `json:"material_id"`
	Reason     string `json:"reason"`
}

// LineResult is the priced view of one counted line item, using the rates in
// effect at settlement time. Figures are unrounded.
type LineResult struct {
	Index        int             `json:"index"`
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Category     Category        `json:"category"`
	Kilograms    decimal.Decimal `json:"kilograms"`
	RatePerKg    decimal.Decimal `json:"rate_per_kg"`
	Value        decimal.Decimal `json:"value"`
	FundShare    decimal.Decimal `json:"fund_share"`
	WalletShare  decimal.Decimal `json:"wallet_share"`
}

// Result is the outcome of one Settle call.
type Result struct {
	TotalKilograms decimal.Decimal `json:"total_kilograms"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Impact         Impact          `json:"environmental_impact"`
	PointsEarned   int64           `json:"points_earned"`
	Funds          FundAllocation  `json:"fund_allocation"`
	Lines          []LineResult    `json:"lines"`
	Skipped        []SkippedItem   `json:"skipped,omitempty"`
}

// PartiallyProcessed is true when some line items referenced unknown materials.
func (r *Result) PartiallyProcessed() bool {
	return len(r.Skipped) > 0
}

// SkippedIndices returns the submission indices of skipped line items.
func (r *Result) SkippedIndices() []int {
	idx := make([]int, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		idx = append(idx, s.Index)
	}
	return idx
}

// LedgerEntry carries everything a wallet ledger row needs.
type LedgerEntry struct {
	UserID       string          `json:"user_id"`
	CollectionID string          `json:"collection_id"`
	Points       int64           `json:"points"`
	ZARAmount    decimal.Decimal `json:"zar_amount"`
	Description  string          `json:"description"`
}

// LedgerEntry derives the wallet ledger row for this settlement.
func (r *Result) LedgerEntry(userID, collectionID string) LedgerEntry {
	return LedgerEntry{
		UserID:       userID,
		CollectionID: collectionID,
		Points:       r.PointsEarned,
		ZARAmount:    r.Funds.UserWallet,
		Description: fmt.Sprintf("Collection %s: %s kg recycled, R%s to wallet, R%s to Green Scholar Fund",
			collectionID,
			r.TotalKilograms.StringFixed(2),
			r.Funds.UserWallet.StringFixed(2),
			r.Funds.GreenScholarFund.StringFixed(2),
		),
	}
}
