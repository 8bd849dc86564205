package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wozamali-core/internal/model"
	"wozamali-core/internal/settlement"
	"wozamali-core/pkg/config"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestDB opens a private in-memory database. A single connection keeps
// every query, including those inside transactions, on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func testSettlementConfig() config.SettlementConfig {
	return config.SettlementConfig{
		SettledTopic:     "wozamali_events_collection_settled",
		LockTTL:          30 * time.Second,
		CatalogCacheTTL:  time.Minute,
		RelayInterval:    10 * time.Millisecond,
		RelayBatchSize:   10,
		RelayMaxAttempts: 3,
		RelayBaseBackoff: time.Second,
	}
}

func seedCatalog(t *testing.T, store *CatalogStore) {
	t.Helper()
	ctx := context.Background()
	for _, m := range []model.Material{
		{ID: "alu", Name: "Aluminium Cans", RatePerKg: d("18.55"), CO2PerKg: d("9.1"), WaterLPerKg: d("5"), LandfillLPerKg: d("1.2"), Active: true},
		{ID: "pet", Name: "PET Bottles", RatePerKg: d("1.50"), CO2PerKg: d("2"), WaterLPerKg: d("3"), LandfillLPerKg: d("0.5"), Active: true},
		{ID: "cardboard", Name: "Cardboard", RatePerKg: d("1.00"), CO2PerKg: d("1"), WaterLPerKg: d("2"), LandfillLPerKg: d("0.8"), Active: true},
		{ID: "retired", Name: "Retired Tins", RatePerKg: d("5.00"), Active: false},
	} {
		m := m
		require.NoError(t, store.Upsert(ctx, &m))
	}
}

func submission(items ...settlement.LineItem) settlement.Submission {
	return settlement.Submission{
		CustomerID:  "cust-1",
		CollectorID: "collector-1",
		Items:       items,
	}
}

func line(id, kg string) settlement.LineItem {
	return settlement.LineItem{MaterialID: id, Kilograms: d(kg)}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	require.Truef(t, d(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}
