package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wozamali-core/internal/model"
	"wozamali-core/pkg/cache"
	"wozamali-core/pkg/logger"
)

const fundSummaryCacheKey = "fund:summary"

// FundSummary 绿色奖学金基金汇总
type FundSummary struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	PETAmount   decimal.Decimal `json:"pet_amount"`
	OtherAmount decimal.Decimal `json:"other_amount"`
	Collections int64           `json:"collections"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type FundService struct {
	db    *gorm.DB
	cache cache.Cache
	ttl   time.Duration
}

// NewFundService builds the service. c may be nil.
func NewFundService(db *gorm.DB, c cache.Cache, ttl time.Duration) *FundService {
	return &FundService{db: db, cache: c, ttl: ttl}
}

// Summary serves the cached totals, computing them on a miss.
func (s *FundService) Summary(ctx context.Context) (*FundSummary, error) {
	if s.cache != nil {
		var cached FundSummary
		if err := s.cache.Get(ctx, fundSummaryCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the totals from the fund entries and re-caches them.
func (s *FundService) Refresh(ctx context.Context) (*FundSummary, error) {
	var row struct {
		TotalAmount decimal.Decimal
		PETAmount   decimal.Decimal `gorm:"column:pet_amount"`
		OtherAmount decimal.Decimal
		Collections int64
	}
	err := s.db.WithContext(ctx).Model(&model.GreenScholarFundEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total_amount, " +
			"COALESCE(SUM(pet_amount), 0) AS pet_amount, " +
			"COALESCE(SUM(other_amount), 0) AS other_amount, " +
			"COUNT(*) AS collections").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("sum fund entries: %w", err)
	}

	summary := &FundSummary{
		TotalAmount: row.TotalAmount,
		PETAmount:   row.PETAmount,
		OtherAmount: row.OtherAmount,
		Collections: row.Collections,
		UpdatedAt:   time.Now(),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, fundSummaryCacheKey, summary, s.ttl); err != nil {
			logger.Warn("cache fund summary failed", zap.Error(err))
		}
	}
	return summary, nil
}
