// Package settlement prices a recycling collection against the material
// catalog: totals, environmental impact, loyalty points and the split between
// the Green Scholar Fund and the customer wallet.
//
// The engine holds no state and does no I/O of its own. The catalog is passed
// in on every call, so rates are always the ones in effect at settlement time.
package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DisplayPlaces is the rounding applied to money, weight and impact figures.
	DisplayPlaces = 2

	SkipReasonUnknownMaterial = "unknown_material"
)

var (
	// CO2PerTreeKg is the yearly CO2 absorption of one tree.
	CO2PerTreeKg = decimal.NewFromInt(22)

	otherFundShare   = decimal.RequireFromString("0.70")
	otherWalletShare = decimal.RequireFromString("0.30")
)

// Engine runs settlements. The zero value is usable.
type Engine struct {
	log *zap.Logger
}

type Option func(*Engine)

// WithLogger reports skipped line items to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) logger() *zap.Logger {
	if e == nil || e.log == nil {
		return zap.NewNop()
	}
	return e.log
}

// Settle prices a submission with a default engine.
func Settle(ctx context.Context, sub Submission, lookup MaterialLookup) (*Result, error) {
	return (&Engine{}).Settle(ctx, sub, lookup)
}

// Settle computes the settlement for sub.
//
// Items with a non-positive weight are ignored. Items whose material the
// lookup does not know are skipped and reported in Result.Skipped. Any other
// lookup error aborts the call and is returned wrapped in
// ErrCatalogUnavailable. A submission with nothing to count yields a zero
// result.
func (e *Engine) Settle(ctx context.Context, sub Submission, lookup MaterialLookup) (*Result, error) {
	var (
		totalKg, totalValue      decimal.Decimal
		co2, water, landfill     decimal.Decimal
		points                   decimal.Decimal
		fundBucket, walletBucket decimal.Decimal
		lines                    []LineResult
		skipped                  []SkippedItem
	)

	// Resolved entries are reused within this call only.
	resolved := make(map[string]*Material)
	missing := make(map[string]bool)

	for i, item := range sub.Items {
		if !item.Kilograms.IsPositive() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mat, err := e.resolve(ctx, lookup, item.MaterialID, resolved, missing)
		if err != nil {
			return nil, err
		}
		if mat == nil {
			skipped = append(skipped, SkippedItem{
				Index:      i,
				MaterialID: item.MaterialID,
				Reason:     SkipReasonUnknownMaterial,
			})
			e.logger().Warn("skipping line item with unknown material",
				zap.Int("index", i),
				zap.String("material_id", item.MaterialID),
				zap.String("customer_id", sub.CustomerID),
			)
			continue
		}

		kg := item.Kilograms
		value := kg.Mul(mat.RatePerKg)

		totalKg = totalKg.Add(kg)
		totalValue = totalValue.Add(value)

		co2 = co2.Add(kg.Mul(mat.CO2PerKg))
		water = water.Add(kg.Mul(mat.WaterLPerKg))
		landfill = landfill.Add(kg.Mul(mat.LandfillLPerKg))

		points = points.Add(value.Mul(mat.pointsRate()))

		cat := mat.category()
		fund, wallet := split(cat, value)
		fundBucket = fundBucket.Add(fund)
		walletBucket = walletBucket.Add(wallet)

		lines = append(lines, LineResult{
			Index:        i,
			MaterialID:   mat.ID,
			MaterialName: mat.Name,
			Category:     cat,
			Kilograms:    kg,
			RatePerKg:    mat.RatePerKg,
			Value:        value,
			FundShare:    fund,
			WalletShare:  wallet,
		})
	}

	return &Result{
		TotalKilograms: totalKg.Round(DisplayPlaces),
		TotalValue:     totalValue.Round(DisplayPlaces),
		Impact: Impact{
			CO2Saved:        co2.Round(DisplayPlaces),
			WaterSaved:      water.Round(DisplayPlaces),
			LandfillSaved:   landfill.Round(DisplayPlaces),
			TreesEquivalent: co2.Div(CO2PerTreeKg).Round(DisplayPlaces),
		},
		PointsEarned: points.Round(0).IntPart(),
		Funds: FundAllocation{
			GreenScholarFund: fundBucket.Round(DisplayPlaces),
			UserWallet:       walletBucket.Round(DisplayPlaces),
		},
		Lines:   lines,
		Skipped: skipped,
	}, nil
}

// resolve returns nil, nil for an unknown material.
func (e *Engine) resolve(ctx context.Context, lookup MaterialLookup, id string, resolved map[string]*Material, missing map[string]bool) (*Material, error) {
	if m, ok := resolved[id]; ok {
		return m, nil
	}
	if missing[id] {
		return nil, nil
	}

	m, err := lookup.Lookup(ctx, id)
	switch {
	case err == nil:
		resolved[id] = &m
		return &m, nil
	case errors.Is(err, ErrMaterialNotFound):
		missing[id] = true
		return nil, nil
	case errors.Is(err, ErrCatalogUnavailable):
		return nil, err
	default:
		return nil, fmt.Errorf("lookup material %s: %w: %w", id, ErrCatalogUnavailable, err)
	}
}

// split returns the (fund, wallet) shares of value for a category.
func split(c Category, value decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	switch c {
	case CategoryAluminum:
		return decimal.Zero, value
	case CategoryPET:
		return value, decimal.Zero
	default:
		return value.Mul(otherFundShare), value.Mul(otherWalletShare)
	}
}
