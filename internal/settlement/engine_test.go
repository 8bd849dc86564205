package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func testCatalog() StaticCatalog {
	return StaticCatalog{
		"alu": {
			ID: "alu", Name: "Aluminium Cans", Category: ResolveCategory("", "Aluminium Cans"),
			RatePerKg: d("18.55"), CO2PerKg: d("9.1"), WaterLPerKg: d("5"), LandfillLPerKg: d("1.2"),
		},
		"pet": {
			ID: "pet", Name: "PET Bottles", Category: ResolveCategory("", "PET Bottles"),
			RatePerKg: d("1.50"), CO2PerKg: d("2"), WaterLPerKg: d("3"), LandfillLPerKg: d("0.5"),
		},
		"cardboard": {
			ID: "cardboard", Name: "Cardboard", Category: ResolveCategory("", "Cardboard"),
			RatePerKg: d("1.00"), CO2PerKg: d("1"), WaterLPerKg: d("2"), LandfillLPerKg: d("0.8"),
		},
		"glass": {
			ID: "glass", Name: "Glass", Category: ResolveCategory("", "Glass"),
			RatePerKg: d("2.00"),
		},
	}
}

func item(id, kg string) LineItem {
	return LineItem{MaterialID: id, Kilograms: d(kg)}
}

func TestSettle_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		items      []LineItem
		wantValue  string
		wantFund   string
		wantWallet string
		wantPoints int64
	}{
		{"aluminium goes to wallet", []LineItem{item("alu", "10")}, "185.50", "0", "185.50", 186},
		{"PET goes to fund", []LineItem{item("pet", "5")}, "7.50", "7.50", "0", 8},
		{"other material is split 70/30", []LineItem{item("cardboard", "4")}, "4.00", "2.80", "1.20", 4},
		{
			"mixed collection",
			[]LineItem{item("alu", "10"), item("pet", "5"), item("cardboard", "4")},
			"197.00", "10.30", "186.70", 197,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Settle(context.Background(), Submission{CustomerID: "c1", Items: tt.items}, testCatalog())
			require.NoError(t, err)

			assertDecimal(t, tt.wantValue, res.TotalValue, "total value")
			assertDecimal(t, tt.wantFund, res.Funds.GreenScholarFund, "green scholar fund")
			assertDecimal(t, tt.wantWallet, res.Funds.UserWallet, "user wallet")
			assert.Equal(t, tt.wantPoints, res.PointsEarned)
			assert.Empty(t, res.Skipped)
		})
	}
}

func TestSettle_UnknownMaterialIsSkipped(t *testing.T) {
	sub := Submission{Items: []LineItem{item("deleted-material", "3"), item("glass", "2")}}

	res, err := Settle(context.Background(), sub, testCatalog())
	require.NoError(t, err)

	assertDecimal(t, "4.00", res.TotalValue, "total value")
	assertDecimal(t, "2.00", res.TotalKilograms, "total kg")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 0, res.Skipped[0].Index)
	assert.Equal(t, "deleted-material", res.Skipped[0].MaterialID)
	assert.Equal(t, []int{0}, res.SkippedIndices())
	assert.True(t, res.PartiallyProcessed())
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 1, res.Lines[0].Index)
}

func TestSettle_EnvironmentalImpact(t *testing.T) {
	res, err := Settle(context.Background(), Submission{Items: []LineItem{item("alu", "10")}}, testCatalog())
	require.NoError(t, err)

	assertDecimal(t, "91.00", res.Impact.CO2Saved, "co2")
	assertDecimal(t, "4.14", res.Impact.TreesEquivalent, "trees")
	assertDecimal(t, "50", res.Impact.WaterSaved, "water")
	assertDecimal(t, "12", res.Impact.LandfillSaved, "landfill")
}

func TestSettle_TreesUseUnroundedCO2(t *testing.T) {
	cat := StaticCatalog{"x": {ID: "x", Name: "Tins", RatePerKg: d("1"), CO2PerKg: d("0.333")}}
	sub := Submission{Items: []LineItem{item("x", "1"), item("x", "1"), item("x", "1")}}

	res, err := Settle(context.Background(), sub, cat)
	require.NoError(t, err)

	assertDecimal(t, "1.00", res.Impact.CO2Saved, "co2")
	// 0.999 / 22 = 0.0454 -> 0.05
	want := d("0.999").Div(CO2PerTreeKg).Round(2)
	assert.True(t, want.Equal(res.Impact.TreesEquivalent))
}

func TestSettle_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
	}{
		{"no items", nil},
		{"zero and negative weights", []LineItem{item("alu", "0"), item("pet", "-2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Settle(context.Background(), Submission{Items: tt.items}, testCatalog())
			require.NoError(t, err)

			assert.True(t, res.TotalKilograms.IsZero())
			assert.True(t, res.TotalValue.IsZero())
			assert.Zero(t, res.PointsEarned)
			assert.True(t, res.Funds.GreenScholarFund.IsZero())
			assert.True(t, res.Funds.UserWallet.IsZero())
			assert.Empty(t, res.Skipped)
		})
	}
}

func TestSettle_NonPositiveWeightNeverLooksUp(t *testing.T) {
	lookup := LookupFunc(func(ctx context.Context, id string) (Material, error) {
		t.Fatalf("unexpected lookup of %s", id)
		return Material{}, nil
	})

	_, err := Settle(context.Background(), Submission{Items: []LineItem{item("alu", "0")}}, lookup)
	require.NoError(t, err)
}

func TestSettle_PointsRoundHalfUp(t *testing.T) {
	cat := StaticCatalog{
		"half":   {ID: "half", Name: "Paper", RatePerKg: d("2.5")},
		"double": {ID: "double", Name: "Tetra Pak", RatePerKg: d("1.2"), PointsPerRand: decimal.NewNullDecimal(d("2"))},
	}

	res, err := Settle(context.Background(), Submission{Items: []LineItem{item("half", "1")}}, cat)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.PointsEarned)

	// 1.2 * 2 + 2.5 = 4.9
	res, err = Settle(context.Background(), Submission{Items: []LineItem{item("double", "1"), item("half", "1")}}, cat)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.PointsEarned)
}

func TestSettle_ExplicitCategoryWinsOverName(t *testing.T) {
	cat := StaticCatalog{
		"tins": {ID: "tins", Name: "Aluminium Tins", Category: ResolveCategory("aluminum", "Aluminium Tins"), RatePerKg: d("10")},
		"typo": {ID: "typo", Name: "aluminium cans", RatePerKg: d("10")},
	}

	res, err := Settle(context.Background(), Submission{Items: []LineItem{item("tins", "1")}}, cat)
	require.NoError(t, err)
	assertDecimal(t, "10", res.Funds.UserWallet, "wallet")
	assertDecimal(t, "0", res.Funds.GreenScholarFund, "fund")

	// Near-miss names fall into the 70/30 bucket.
	res, err = Settle(context.Background(), Submission{Items: []LineItem{item("typo", "1")}}, cat)
	require.NoError(t, err)
	assertDecimal(t, "7", res.Funds.GreenScholarFund, "fund")
	assertDecimal(t, "3", res.Funds.UserWallet, "wallet")
}

func TestSettle_CatalogUnavailable(t *testing.T) {
	storeErr := errors.New("dial tcp: connection refused")
	lookup := LookupFunc(func(ctx context.Context, id string) (Material, error) {
		return Material{}, storeErr
	})

	res, err := Settle(context.Background(), Submission{Items: []LineItem{item("alu", "1")}}, lookup)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorIs(t, err, storeErr)
	assert.True(t, IsRetryable(err))
	assert.False(t, IsRetryable(ErrMaterialNotFound))
}

func TestSettle_LooksUpEachMaterialOncePerCall(t *testing.T) {
	cat := testCatalog()
	calls := map[string]int{}
	lookup := LookupFunc(func(ctx context.Context, id string) (Material, error) {
		calls[id]++
		return cat.Lookup(ctx, id)
	})
	sub := Submission{Items: []LineItem{item("alu", "1"), item("alu", "2"), item("gone", "1"), item("gone", "1")}}

	res, err := Settle(context.Background(), sub, lookup)
	require.NoError(t, err)
	assert.Equal(t, 1, calls["alu"])
	assert.Equal(t, 1, calls["gone"])
	assert.Len(t, res.Skipped, 2)

	// A second call sees the catalog again.
	_, err = Settle(context.Background(), sub, lookup)
	require.NoError(t, err)
	assert.Equal(t, 2, calls["alu"])
}

func TestSettle_UsesRateInEffect(t *testing.T) {
	cat := testCatalog()
	sub := Submission{Items: []LineItem{item("glass", "2")}}

	res, err := Settle(context.Background(), sub, cat)
	require.NoError(t, err)
	assertDecimal(t, "4", res.TotalValue, "before")

	g := cat["glass"]
	g.RatePerKg = d("3")
	cat["glass"] = g

	res, err = Settle(context.Background(), sub, cat)
	require.NoError(t, err)
	assertDecimal(t, "6", res.TotalValue, "after")
}

func TestSettle_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Settle(ctx, Submission{Items: []LineItem{item("alu", "1")}}, testCatalog())
	assert.ErrorIs(t, err, context.Canceled)
}

func randomSubmission(r *rand.Rand) Submission {
	ids := []string{"alu", "pet", "cardboard", "glass", "missing"}
	n := r.Intn(8)
	items := make([]LineItem, 0, n)
	for i := 0; i < n; i++ {
		kg := decimal.New(int64(r.Intn(5000))-200, -2)
		items = append(items, LineItem{MaterialID: ids[r.Intn(len(ids))], Kilograms: kg})
	}
	return Submission{CustomerID: "c", Items: items}
}

func TestSettle_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	cat := testCatalog()
	tolerance := d("0.02")

	for i := 0; i < 500; i++ {
		sub := randomSubmission(r)

		res, err := Settle(context.Background(), sub, cat)
		require.NoError(t, err)

		// Additivity.
		want := decimal.Zero
		for _, it := range sub.Items {
			m, err := cat.Lookup(context.Background(), it.MaterialID)
			if err != nil || !it.Kilograms.IsPositive() {
				continue
			}
			want = want.Add(it.Kilograms.Mul(m.RatePerKg))
		}
		assert.True(t, want.Round(2).Equal(res.TotalValue), "additivity: %s vs %s", want, res.TotalValue)

		// Fund conservation within two cents.
		drift := res.Funds.Total().Sub(res.TotalValue).Abs()
		assert.True(t, drift.LessThanOrEqual(tolerance), "drift %s", drift)

		// Order independence.
		shuffled := Submission{Items: append([]LineItem(nil), sub.Items...)}
		r.Shuffle(len(shuffled.Items), func(a, b int) {
			shuffled.Items[a], shuffled.Items[b] = shuffled.Items[b], shuffled.Items[a]
		})
		res2, err := Settle(context.Background(), shuffled, cat)
		require.NoError(t, err)
		assert.True(t, res.TotalValue.Equal(res2.TotalValue))
		assert.True(t, res.TotalKilograms.Equal(res2.TotalKilograms))

		// Determinism.
		res3, err := Settle(context.Background(), sub, cat)
		require.NoError(t, err)
		b1, _ := json.Marshal(res)
		b3, _ := json.Marshal(res3)
		assert.Equal(t, string(b1), string(b3))
	}
}

func TestSettle_DoesNotMutateSubmission(t *testing.T) {
	sub := Submission{Items: []LineItem{item("alu", "10"), item("missing", "1")}}
	before, _ := json.Marshal(sub)

	_, err := Settle(context.Background(), sub, testCatalog())
	require.NoError(t, err)

	after, _ := json.Marshal(sub)
	assert.Equal(t, string(before), string(after))
}

func TestResult_LedgerEntry(t *testing.T) {
	res, err := Settle(context.Background(), Submission{Items: []LineItem{item("alu", "10"), item("cardboard", "4")}}, testCatalog())
	require.NoError(t, err)

	entry := res.LedgerEntry("user-1", "col-1")
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "col-1", entry.CollectionID)
	assert.Equal(t, res.PointsEarned, entry.Points)
	assertDecimal(t, "186.70", entry.ZARAmount, "zar")
	assert.Contains(t, entry.Description, "R186.70 to wallet")
	assert.Contains(t, entry.Description, "14.00 kg")
}
