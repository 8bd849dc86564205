package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wozamali-core/internal/settlement"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadCatalog(t *testing.T) {
	catalog, ordered, err := loadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)
	require.Len(t, ordered, 4)
	assert.Equal(t, "alu", ordered[0].ID)

	assert.Equal(t, settlement.CategoryAluminum, catalog["alu"].Category)
	assert.Equal(t, settlement.CategoryPET, catalog["pet"].Category)
	assert.Equal(t, settlement.CategoryOther, catalog["glass"].Category)
	assert.True(t, catalog["alu"].RatePerKg.Equal(decimal.RequireFromString("18.55")))
	assert.False(t, catalog["alu"].PointsPerRand.Valid)
	assert.True(t, catalog["cardboard"].PointsPerRand.Valid)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing id":       "materials:\n  - name: Foo\n",
		"duplicate id":     "materials:\n  - id: a\n  - id: a\n",
		"unknown category": "materials:\n  - id: a\n    category: metal\n",
		"bad rate":         "materials:\n  - id: a\n    rate_per_kg: lots\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "catalog.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, _, err := loadCatalog(path)
			assert.Error(t, err)
		})
	}

	_, _, err := loadCatalog(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestQuoteCommand(t *testing.T) {
	out, err := run(t, "quote", "--catalog", "testdata/catalog.yaml", "--submission", "testdata/submission.yaml")
	require.NoError(t, err, out)

	var got struct {
		TotalValue string `json:"total_value"`
		Points     int64  `json:"points_earned"`
		Funds      struct {
			GreenScholarFund string `json:"green_scholar_fund"`
			UserWallet       string `json:"user_wallet"`
		} `json:"fund_allocation"`
		Impact struct {
			TreesEquivalent string `json:"trees_equivalent"`
		} `json:"environmental_impact"`
		PartiallyProcessed bool  `json:"partially_processed"`
		SkippedIndices     []int `json:"skipped_indices"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)

	assert.Equal(t, "197", got.TotalValue)
	assert.Equal(t, int64(201), got.Points)
	assert.Equal(t, "10.3", got.Funds.GreenScholarFund)
	assert.Equal(t, "186.7", got.Funds.UserWallet)
	assert.Equal(t, "4.79", got.Impact.TreesEquivalent)
	assert.True(t, got.PartiallyProcessed)
	assert.Equal(t, []int{3}, got.SkippedIndices)
}

func TestMaterialsCommand(t *testing.T) {
	out, err := run(t, "materials", "--catalog", "testdata/catalog.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Aluminium Cans")
	assert.Contains(t, out, "aluminum")
	assert.Contains(t, out, "18.55")
}
