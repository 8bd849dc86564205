package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wozamali-core/internal/model"
	"wozamali-core/internal/settlement"
	"wozamali-core/pkg/cache"
	"wozamali-core/pkg/logger"
)

const materialsCacheKey = "materials"

// ErrInvalidCategory is returned by Upsert for an unknown category value.
var ErrInvalidCategory = errors.New("invalid material category")

// CatalogStore 物料目录
//
// Lookup always reads the row in effect at call time; the cache only serves
// List, which is used for display.
type CatalogStore struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewCatalogStore builds a store. c may be nil to disable list caching.
func NewCatalogStore(db *gorm.DB, c cache.Cache, ttl time.Duration) *CatalogStore {
	return &CatalogStore{db: db, cache: c, ttl: ttl}
}

// WithTx returns a store whose reads run inside tx.
func (s *CatalogStore) WithTx(tx *gorm.DB) *CatalogStore {
	return &CatalogStore{db: tx, cache: s.cache, ttl: s.ttl}
}

// Lookup implements settlement.MaterialLookup. Inactive entries are unknown.
func (s *CatalogStore) Lookup(ctx context.Context, id string) (settlement.Material, error) {
	var m model.Material
	err := s.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settlement.Material{}, settlement.ErrMaterialNotFound
	}
	if err != nil {
		return settlement.Material{}, fmt.Errorf("load material %s: %w: %w", id, settlement.ErrCatalogUnavailable, err)
	}
	return m.ToSettlement(), nil
}

// List returns every catalog entry ordered by name.
func (s *CatalogStore) List(ctx context.Context) ([]model.Material, error) {
	var items []model.Material
	if s.cache != nil {
		if err := s.cache.Get(ctx, materialsCacheKey, &items); err == nil {
			return items, nil
		}
	}

	if err := s.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, materialsCacheKey, items, s.ttl); err != nil {
			logger.Warn("cache materials failed", zap.Error(err))
		}
	}
	return items, nil
}

// Upsert creates or replaces a catalog entry by ID. The new rate applies to
// every settlement that starts after the write commits.
func (s *CatalogStore) Upsert(ctx context.Context, m *model.Material) error {
	if m.Category != "" {
		c, ok := settlement.ParseCategory(m.Category)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, m.Category)
		}
		m.Category = string(c)
	}
	m.Name = strings.TrimSpace(m.Name)

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("upsert material %s: %w", m.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, materialsCacheKey); err != nil {
			logger.Warn("invalidate materials cache failed", zap.Error(err))
		}
	}
	logger.Info("material upserted",
		zap.String("id", m.ID),
		zap.String("name", m.Name),
		zap.String("rate_per_kg", m.RatePerKg.String()),
	)
	return nil
}
