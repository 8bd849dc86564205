package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wozamali-core/internal/model"
	"wozamali-core/internal/settlement"
)

var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrWalletConflict = errors.New("wallet updated concurrently, retries exhausted")
)

// maxCreditRetries bounds the optimistic-lock loop in Credit.
const maxCreditRetries = 3

// LedgerWriter 钱包流水写入
// One row per collection; the unique index on collection_id makes a retried
// settlement a no-op instead of a second credit.
type LedgerWriter struct{}

func NewLedgerWriter() *LedgerWriter {
	return &LedgerWriter{}
}

// BuildLedgerEntry derives the ledger row from a settlement result alone.
func BuildLedgerEntry(userID, collectionID string, res *settlement.Result) settlement.LedgerEntry {
	return res.LedgerEntry(userID, collectionID)
}

// Write inserts e inside tx. When the collection already has an entry the
// existing row is returned with created=false.
func (w *LedgerWriter) Write(tx *gorm.DB, e settlement.LedgerEntry) (*model.WalletLedgerEntry, bool, error) {
	row := model.WalletLedgerEntry{
		ID:           uuid.NewString(),
		UserID:       e.UserID,
		CollectionID: e.CollectionID,
		Points:       e.Points,
		ZARAmount:    e.ZARAmount,
		Description:  e.Description,
	}

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return nil, false, fmt.Errorf("insert ledger entry: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return &row, true, nil
	}

	var existing model.WalletLedgerEntry
	if err := tx.Where("collection_id = ?", e.CollectionID).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("load ledger entry: %w", err)
	}
	return &existing, false, nil
}

// RecordFundEntry stores the Green Scholar Fund share of one collection,
// split into its PET and other parts. Repeated calls are no-ops.
func (w *LedgerWriter) RecordFundEntry(tx *gorm.DB, customerID, collectionID string, res *settlement.Result) (*model.GreenScholarFundEntry, error) {
	pet, other := FundByCategory(res)
	row := model.GreenScholarFundEntry{
		CollectionID: collectionID,
		CustomerID:   customerID,
		Amount:       res.Funds.GreenScholarFund,
		PETAmount:    pet,
		OtherAmount:  other,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("insert fund entry: %w", err)
	}
	return &row, nil
}

// FundByCategory splits the rounded fund total into its PET part and the
// rest. PET is rounded to cents and other takes the remainder, so the two
// always add up to GreenScholarFund.
func FundByCategory(res *settlement.Result) (pet, other decimal.Decimal) {
	for _, l := range res.Lines {
		if l.Category == settlement.CategoryPET {
			pet = pet.Add(l.FundShare)
		}
	}
	pet = pet.Round(settlement.DisplayPlaces)
	// 四舍五入单调, pet <= GreenScholarFund
	return pet, res.Funds.GreenScholarFund.Sub(pet)
}

// WalletService 居民钱包
type WalletService struct {
	db *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{db: db}
}

// Get returns the wallet of userID.
func (s *WalletService) Get(ctx context.Context, userID string) (*model.Wallet, error) {
	var w model.Wallet
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit adds amount and points to the wallet of userID inside tx, creating
// the wallet on first credit. Updates are guarded by the version column.
func (s *WalletService) Credit(tx *gorm.DB, userID string, amount decimal.Decimal, points int64) (*model.Wallet, error) {
	for attempt := 0; attempt < maxCreditRetries; attempt++ {
		var w model.Wallet
		err := tx.Where("user_id = ?", userID).First(&w).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w = model.Wallet{
				UserID:      userID,
				Balance:     amount,
				TotalPoints: points,
				Version:     1,
			}
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).Create(&w)
			if res.Error != nil {
				return nil, fmt.Errorf("create wallet: %w", res.Error)
			}
			if res.RowsAffected == 1 {
				return &w, nil
			}
			// created by someone else in the meantime
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load wallet: %w", err)
		}

		balance := w.Balance.Add(amount)
		totalPoints := w.TotalPoints + points
		res := tx.Model(&model.Wallet{}).
			Where("id = ? AND version = ?", w.ID, w.Version).
			Updates(map[string]interface{}{
				"balance":      balance,
				"total_points": totalPoints,
				"version":      w.Version + 1,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("update wallet: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			w.Balance = balance
			w.TotalPoints = totalPoints
			w.Version++
			return &w, nil
		}
	}
	return nil, ErrWalletConflict
}
