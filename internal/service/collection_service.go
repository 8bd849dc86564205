package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wozamali-core/internal/event"
	"wozamali-core/internal/model"
	"wozamali-core/internal/settlement"
	"wozamali-core/pkg/config"
	"wozamali-core/pkg/crypto_util"
	"wozamali-core/pkg/logger"
	"wozamali-core/pkg/monitor"
	"wozamali-core/pkg/utils/lock"
)

var (
	ErrCollectionNotFound   = errors.New("collection not found")
	ErrAlreadySettled       = errors.New("collection already settled")
	ErrCollectionRejected   = errors.New("collection rejected")
	ErrEmptySubmission      = errors.New("submission has no material with a positive weight")
	ErrSettlementInProgress = errors.New("collection is being settled")
)

// Settlement is the outcome of approving a collection.
type Settlement struct {
	Collection  *model.Collection        `json:"collection"`
	Result      *settlement.Result       `json:"result"`
	LedgerEntry *model.WalletLedgerEntry `json:"ledger_entry"`
}

// SkippedIndices lists the submission positions that were not counted.
func (s *Settlement) SkippedIndices() []int {
	return s.Result.SkippedIndices()
}

// CollectionService 回收单生命周期: submit -> approve (settle) / reject
type CollectionService struct {
	db           *gorm.DB
	catalog      *CatalogStore
	engine       *settlement.Engine
	ledger       *LedgerWriter
	wallets      *WalletService
	locker       lock.DistributedLock
	settledTopic string
	lockTTL      time.Duration
}

func NewCollectionService(db *gorm.DB, catalog *CatalogStore, locker lock.DistributedLock, cfg config.SettlementConfig) *CollectionService {
	return &CollectionService{
		db:           db,
		catalog:      catalog,
		engine:       settlement.NewEngine(settlement.WithLogger(logger.Named("settlement"))),
		ledger:       NewLedgerWriter(),
		wallets:      NewWalletService(db),
		locker:       locker,
		settledTopic: cfg.SettledTopic,
		lockTTL:      cfg.LockTTL,
	}
}

// Fingerprint identifies a submission by its content, so a collector's
// double-tap does not create two pending collections.
func Fingerprint(sub settlement.Submission) string {
	type item struct {
		MaterialID string `json:"m"`
		Kilograms  string `json:"kg"`
	}
	canon := struct {
		CustomerID  string `json:"c"`
		CollectorID string `json:"r"`
		AddressID   string `json:"a"`
		Items       []item `json:"i"`
	}{
		CustomerID:  sub.CustomerID,
		CollectorID: sub.CollectorID,
		AddressID:   sub.AddressID,
	}
	for _, it := range sub.Items {
		canon.Items = append(canon.Items, item{MaterialID: it.MaterialID, Kilograms: it.Kilograms.String()})
	}
	b, _ := json.Marshal(canon)
	return crypto_util.Fingerprint(b)
}

// Submit stores a pending collection. A pending collection with the same
// fingerprint is returned as-is with created=false.
func (s *CollectionService) Submit(ctx context.Context, sub settlement.Submission) (*model.Collection, bool, error) {
	if !sub.HasPositiveWeight() {
		return nil, false, ErrEmptySubmission
	}
	fp := Fingerprint(sub)

	var existing model.Collection
	err := s.db.WithContext(ctx).
		Where("fingerprint = ? AND status = ?", fp, model.CollectionPending).
		Preload("Items", orderByPosition).
		First(&existing).Error
	if err == nil {
		logger.Info("duplicate submission, returning pending collection",
			zap.String("collection_id", existing.ID),
			zap.String("customer_id", sub.CustomerID),
		)
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("check duplicate submission: %w", err)
	}

	col := model.Collection{
		ID:          uuid.NewString(),
		CustomerID:  sub.CustomerID,
		CollectorID: sub.CollectorID,
		AddressID:   sub.AddressID,
		Fingerprint: fp,
		Status:      model.CollectionPending,
	}
	if sub.Location != nil {
		lat, lng := sub.Location.Latitude, sub.Location.Longitude
		col.Latitude, col.Longitude = &lat, &lng
	}
	if len(sub.PhotoRefs) > 0 {
		b, err := json.Marshal(sub.PhotoRefs)
		if err != nil {
			return nil, false, err
		}
		col.PhotoRefs = string(b)
	}
	for i, it := range sub.Items {
		col.Items = append(col.Items, model.CollectionItem{
			CollectionID:         col.ID,
			Position:             i,
			MaterialID:           it.MaterialID,
			Kilograms:            it.Kilograms,
			ContaminationPercent: it.ContaminationPercent,
			Notes:                it.Notes,
		})
	}

	if err := s.db.WithContext(ctx).Create(&col).Error; err != nil {
		return nil, false, fmt.Errorf("create collection: %w", err)
	}

	monitor.Business.CollectionsSubmitted.Inc()
	logger.Info("collection submitted",
		zap.String("collection_id", col.ID),
		zap.String("customer_id", col.CustomerID),
		zap.Int("items", len(col.Items)),
	)
	return &col, true, nil
}

// Quote prices a submission against the live catalog without storing
// anything.
func (s *CollectionService) Quote(ctx context.Context, sub settlement.Submission) (*settlement.Result, error) {
	return s.engine.Settle(ctx, sub, s.catalog)
}

// Approve settles a pending collection: the engine runs against the catalog
// inside the same transaction that writes the snapshot, the ledger entry,
// the wallet credit, the fund entry and the outbox message.
func (s *CollectionService) Approve(ctx context.Context, collectionID, approverID string) (*Settlement, error) {
	start := time.Now()

	key := "settle:collection:" + collectionID
	ok, err := s.locker.Acquire(ctx, key, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire settlement lock: %w", err)
	}
	if !ok {
		return nil, ErrSettlementInProgress
	}
	defer func() {
		if err := s.locker.Release(context.Background(), key); err != nil {
			logger.Warn("release settlement lock failed", zap.String("key", key), zap.Error(err))
		}
	}()

	var out Settlement
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 悲观锁读取回收单
		var col model.Collection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&col, "id = ?", collectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCollectionNotFound
			}
			return err
		}

		// 2. 状态检查
		switch col.Status {
		case model.CollectionApproved:
			return ErrAlreadySettled
		case model.CollectionRejected:
			return ErrCollectionRejected
		}

		var items []model.CollectionItem
		if err := tx.Where("collection_id = ?", col.ID).Order("position").Find(&items).Error; err != nil {
			return err
		}

		// 3. 结算 (rates read inside this transaction)
		res, err := s.engine.Settle(ctx, submissionOf(&col, items), s.catalog.WithTx(tx))
		if err != nil {
			return err
		}

		if err := annotateItems(tx, items, res); err != nil {
			return err
		}

		now := time.Now()
		col.Status = model.CollectionApproved
		col.ApprovedBy = approverID
		col.SettledAt = &now
		col.TotalKg = res.TotalKilograms
		col.TotalValue = res.TotalValue
		col.CO2Saved = res.Impact.CO2Saved
		col.WaterSaved = res.Impact.WaterSaved
		col.LandfillSaved = res.Impact.LandfillSaved
		col.TreesEquivalent = res.Impact.TreesEquivalent
		col.PointsEarned = res.PointsEarned
		col.GreenScholarFund = res.Funds.GreenScholarFund
		col.UserWallet = res.Funds.UserWallet
		col.SkippedItems = len(res.Skipped)
		if err := tx.Omit(clause.Associations).Save(&col).Error; err != nil {
			return fmt.Errorf("save collection: %w", err)
		}

		// 4. 钱包流水 + 入账
		entry, created, err := s.ledger.Write(tx, BuildLedgerEntry(col.CustomerID, col.ID, res))
		if err != nil {
			return err
		}
		if created {
			if _, err := s.wallets.Credit(tx, col.CustomerID, entry.ZARAmount, entry.Points); err != nil {
				return err
			}
		}

		// 5. 基金记录
		if _, err := s.ledger.RecordFundEntry(tx, col.CustomerID, col.ID, res); err != nil {
			return err
		}

		// 6. Outbox: 与业务数据同一事务
		pet, other := FundByCategory(res)
		evt := event.CollectionSettledEvent{
			CollectionID:     col.ID,
			CustomerID:       col.CustomerID,
			CollectorID:      col.CollectorID,
			TotalKilograms:   res.TotalKilograms,
			TotalValue:       res.TotalValue,
			PointsEarned:     res.PointsEarned,
			GreenScholarFund: res.Funds.GreenScholarFund,
			UserWallet:       res.Funds.UserWallet,
			PETFundAmount:    pet,
			OtherFundAmount:  other,
			SkippedIndices:   res.SkippedIndices(),
			SettledAt:        now,
		}
		if _, err := model.CreateOutboxMessage(tx, s.settledTopic, col.CustomerID, evt); err != nil {
			return fmt.Errorf("write outbox: %w", err)
		}

		col.Items = items
		out = Settlement{Collection: &col, Result: res, LedgerEntry: entry}
		return nil
	})
	if err != nil {
		if settlement.IsRetryable(err) {
			logger.Warn("settlement aborted, catalog unavailable",
				zap.String("collection_id", collectionID), zap.Error(err))
		}
		return nil, err
	}

	res := out.Result
	monitor.Business.SettlementDuration.Observe(time.Since(start).Seconds())
	monitor.Business.ObserveSettlement(res.TotalKilograms, res.Funds.GreenScholarFund, res.Funds.UserWallet,
		res.PointsEarned, len(res.Skipped))

	logger.Info("collection settled",
		zap.String("collection_id", collectionID),
		zap.String("customer_id", out.Collection.CustomerID),
		zap.String("total_value", res.TotalValue.String()),
		zap.Int64("points", res.PointsEarned),
		zap.Ints("skipped", res.SkippedIndices()),
	)
	return &out, nil
}

// Reject closes a pending collection without settling it.
func (s *CollectionService) Reject(ctx context.Context, collectionID, reason string) (*model.Collection, error) {
	var col model.Collection
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&col, "id = ?", collectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCollectionNotFound
			}
			return err
		}
		switch col.Status {
		case model.CollectionApproved:
			return ErrAlreadySettled
		case model.CollectionRejected:
			return ErrCollectionRejected
		}

		col.Status = model.CollectionRejected
		col.RejectReason = reason
		return tx.Omit(clause.Associations).Save(&col).Error
	})
	if err != nil {
		return nil, err
	}
	logger.Info("collection rejected", zap.String("collection_id", collectionID), zap.String("reason", reason))
	return &col, nil
}

// Get returns a collection with its items.
func (s *CollectionService) Get(ctx context.Context, id string) (*model.Collection, error) {
	var col model.Collection
	err := s.db.WithContext(ctx).Preload("Items", orderByPosition).First(&col, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// ListByCustomer pages through a customer's collections, newest first.
func (s *CollectionService) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]model.Collection, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	// Session makes q safe to reuse for the count and the page query.
	q := s.db.WithContext(ctx).Model(&model.Collection{}).Where("customer_id = ?", customerID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cols []model.Collection
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).
		Preload("Items", orderByPosition).
		Find(&cols).Error
	if err != nil {
		return nil, 0, err
	}
	return cols, total, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// submissionOf rebuilds the engine input from stored rows. items must be
// ordered by position so result indices map back onto them.
func submissionOf(col *model.Collection, items []model.CollectionItem) settlement.Submission {
	sub := settlement.Submission{
		CustomerID:  col.CustomerID,
		CollectorID: col.CollectorID,
		AddressID:   col.AddressID,
	}
	for _, it := range items {
		sub.Items = append(sub.Items, settlement.LineItem{
			MaterialID:           it.MaterialID,
			Kilograms:            it.Kilograms,
			ContaminationPercent: it.ContaminationPercent,
			Notes:                it.Notes,
		})
	}
	return sub
}

// annotateItems stores the rate and value in effect on each counted item and
// flags the skipped ones.
func annotateItems(tx *gorm.DB, items []model.CollectionItem, res *settlement.Result) error {
	for _, l := range res.Lines {
		it := &items[l.Index]
		it.RatePerKg = decimal.NewNullDecimal(l.RatePerKg)
		it.Value = decimal.NewNullDecimal(l.Value)
		it.Category = string(l.Category)
		if err := tx.Save(it).Error; err != nil {
			return fmt.Errorf("save collection item: %w", err)
		}
	}
	for _, sk := range res.Skipped {
		it := &items[sk.Index]
		it.Skipped = true
		if err := tx.Save(it).Error; err != nil {
			return fmt.Errorf("save collection item: %w", err)
		}
	}
	return nil
}
