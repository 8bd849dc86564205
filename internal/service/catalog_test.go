package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wozamali-core/internal/model"
	"wozamali-core/internal/settlement"
	"wozamali-core/pkg/cache"
)

func TestCatalogStore_Lookup(t *testing.T) {
	db := newTestDB(t)
	store := NewCatalogStore(db, nil, time.Minute)
	seedCatalog(t, store)
	ctx := context.Background()

	t.Run("resolves category from name", func(t *testing.T) {
		m, err := store.Lookup(ctx, "alu")
		require.NoError(t, err)
		assert.Equal(t, settlement.CategoryAluminum, m.Category)
		assertDecimal(t, "18.55", m.RatePerKg, "rate")
		assert.False(t, m.PointsPerRand.Valid)
	})

	t.Run("explicit category wins", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, &model.Material{
			ID: "pet-tray", Name: "Cardboard Trays", Category: "PET", RatePerKg: d("0.80"), Active: true,
		}))
		m, err := store.Lookup(ctx, "pet-tray")
		require.NoError(t, err)
		assert.Equal(t, settlement.CategoryPET, m.Category)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Lookup(ctx, "ghost")
		assert.ErrorIs(t, err, settlement.ErrMaterialNotFound)
	})

	t.Run("inactive entry is unknown", func(t *testing.T) {
		_, err := store.Lookup(ctx, "retired")
		assert.ErrorIs(t, err, settlement.ErrMaterialNotFound)
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		broken := newTestDB(t)
		require.NoError(t, broken.Migrator().DropTable(&model.Material{}))
		_, err := NewCatalogStore(broken, nil, time.Minute).Lookup(ctx, "alu")
		require.Error(t, err)
		assert.ErrorIs(t, err, settlement.ErrCatalogUnavailable)
		assert.True(t, settlement.IsRetryable(err))
	})
}

func TestCatalogStore_UpsertRejectsUnknownCategory(t *testing.T) {
	store := NewCatalogStore(newTestDB(t), nil, time.Minute)
	err := store.Upsert(context.Background(), &model.Material{ID: "x", Name: "X", Category: "metal", Active: true})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCatalogStore_ListCacheInvalidatedOnUpsert(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestRedis(t)
	c := cache.NewMultiLevelCache(cache.NewMemoryCache(time.Minute, time.Minute), cache.NewRedisCache(client, ""))
	store := NewCatalogStore(newTestDB(t), c, time.Minute)
	seedCatalog(t, store)

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "Aluminium Cans", items[0].Name)

	var cached []model.Material
	require.NoError(t, c.Get(ctx, materialsCacheKey, &cached))
	assert.Len(t, cached, 4)

	require.NoError(t, store.Upsert(ctx, &model.Material{ID: "pet", Name: "PET Bottles", RatePerKg: d("2.10"), Active: true}))
	assert.ErrorIs(t, c.Get(ctx, materialsCacheKey, &cached), cache.ErrMiss)

	items, err = store.List(ctx)
	require.NoError(t, err)
	for _, m := range items {
		if m.ID == "pet" {
			assertDecimal(t, "2.10", m.RatePerKg, "pet rate")
		}
	}

	// settlement reads bypass the cache
	m, err := store.Lookup(ctx, "pet")
	require.NoError(t, err)
	assertDecimal(t, "2.10", m.RatePerKg, "lookup rate")
}
