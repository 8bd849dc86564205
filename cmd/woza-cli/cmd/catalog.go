package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"wozamali-core/internal/settlement"
)

// catalogFile is the on-disk layout of catalog.yaml.
type catalogFile struct {
	Materials []catalogEntry `yaml:"materials"`
}

type catalogEntry struct {
	ID             string              `yaml:"id"`
	Name           string              `yaml:"name"`
	Category       string              `yaml:"category"`
	RatePerKg      decimal.Decimal     `yaml:"rate_per_kg"`
	CO2PerKg       decimal.Decimal     `yaml:"co2_per_kg"`
	WaterLPerKg    decimal.Decimal     `yaml:"water_l_per_kg"`
	LandfillLPerKg decimal.Decimal     `yaml:"landfill_l_per_kg"`
	PointsPerRand  decimal.NullDecimal `yaml:"points_per_rand"`
}

// loadCatalog reads path into a lookup. Entries keep file order in the
// returned slice.
func loadCatalog(path string) (settlement.StaticCatalog, []settlement.Material, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	catalog := make(settlement.StaticCatalog, len(f.Materials))
	ordered := make([]settlement.Material, 0, len(f.Materials))
	for i, e := range f.Materials {
		if e.ID == "" {
			return nil, nil, fmt.Errorf("catalog entry %d: missing id", i)
		}
		if _, dup := catalog[e.ID]; dup {
			return nil, nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, e.ID)
		}
		if e.Category != "" {
			if _, ok := settlement.ParseCategory(e.Category); !ok {
				return nil, nil, fmt.Errorf("catalog entry %q: unknown category %q", e.ID, e.Category)
			}
		}
		m := settlement.Material{
			ID:             e.ID,
			Name:           e.Name,
			Category:       settlement.ResolveCategory(e.Category, e.Name),
			RatePerKg:      e.RatePerKg,
			CO2PerKg:       e.CO2PerKg,
			WaterLPerKg:    e.WaterLPerKg,
			LandfillLPerKg: e.LandfillLPerKg,
			PointsPerRand:  e.PointsPerRand,
		}
		catalog[e.ID] = m
		ordered = append(ordered, m)
	}
	return catalog, ordered, nil
}

func loadSubmission(path string) (settlement.Submission, error) {
	var sub settlement.Submission
	raw, err := os.ReadFile(path)
	if err != nil {
		return sub, fmt.Errorf("read submission: %w", err)
	}
	if err := yaml.Unmarshal(raw, &sub); err != nil {
		return sub, fmt.Errorf("parse submission %s: %w", path, err)
	}
	return sub, nil
}
