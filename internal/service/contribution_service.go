package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wozamali-core/internal/event"
	"wozamali-core/internal/model"
	"wozamali-core/internal/service/mq"
	"wozamali-core/internal/worker/tasks"
	"wozamali-core/pkg/logger"
	"wozamali-core/pkg/monitor"
	"wozamali-core/pkg/utils/lock"
)

const contributionLockTTL = 30 * time.Second

// ErrContributionBusy means another consumer holds the collection; the
// message stays unacknowledged and is redelivered.
var ErrContributionBusy = errors.New("contribution is being processed elsewhere")

// ReceiptEnqueuer queues the customer's settlement receipt.
type ReceiptEnqueuer interface {
	EnqueueReceipt(ctx context.Context, p tasks.ReceiptPayload) error
}

// ContributionService 消费结算事件, 记录绿色奖学金基金贡献
type ContributionService struct {
	db       *gorm.DB
	locker   lock.DistributedLock
	receipts ReceiptEnqueuer
}

func NewContributionService(db *gorm.DB, locker lock.DistributedLock, receipts ReceiptEnqueuer) *ContributionService {
	return &ContributionService{
		db:       db,
		locker:   locker,
		receipts: receipts,
	}
}

// Start consumes topic until ctx is done.
func (s *ContributionService) Start(ctx context.Context, consumer mq.Consumer, topic string) error {
	return consumer.Subscribe(ctx, topic, s.Handle)
}

// Handle processes one settled event. Redelivered events are no-ops.
func (s *ContributionService) Handle(ctx context.Context, msg *mq.Message) error {
	var evt event.CollectionSettledEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil || evt.CollectionID == "" {
		// 格式错误, 重试也没用
		logger.Error("dropping malformed settled event", zap.String("id", msg.ID), zap.Error(err))
		return nil
	}

	key := "contribution:" + evt.CollectionID
	ok, err := s.locker.Acquire(ctx, key, contributionLockTTL)
	if err != nil {
		return fmt.Errorf("acquire contribution lock: %w", err)
	}
	if !ok {
		return ErrContributionBusy
	}
	defer func() {
		if err := s.locker.Release(context.Background(), key); err != nil {
			logger.Warn("release contribution lock failed", zap.String("key", key), zap.Error(err))
		}
	}()

	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.GreenScholarContribution{
			CollectionID: evt.CollectionID,
			CustomerID:   evt.CustomerID,
			PETAmount:    evt.PETFundAmount,
			OtherAmount:  evt.OtherFundAmount,
			ProcessedAt:  time.Now(),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_id"}},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		// rolled back with the contribution if the queue is down
		return s.receipts.EnqueueReceipt(ctx, tasks.ReceiptPayload{
			CollectionID: evt.CollectionID,
			CustomerID:   evt.CustomerID,
			ZARAmount:    evt.UserWallet,
			FundAmount:   evt.GreenScholarFund,
			Points:       evt.PointsEarned,
		})
	})
	if err != nil {
		return fmt.Errorf("record contribution %s: %w", evt.CollectionID, err)
	}

	log := logger.With(zap.String("collection_id", evt.CollectionID))
	if !created {
		log.Debug("contribution already processed")
		return nil
	}

	if evt.PETFundAmount.IsPositive() {
		monitor.Business.ContributionsProcessed.WithLabelValues("pet").Inc()
	}
	if evt.OtherFundAmount.IsPositive() {
		monitor.Business.ContributionsProcessed.WithLabelValues("other").Inc()
	}
	log.Info("green scholar contribution recorded",
		zap.String("pet_amount", evt.PETFundAmount.StringFixed(2)),
		zap.String("other_amount", evt.OtherFundAmount.StringFixed(2)),
	)
	return nil
}
