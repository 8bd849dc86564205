package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wozamali-core/internal/model"
	"wozamali-core/internal/service/mq"
	"wozamali-core/pkg/config"
	"wozamali-core/pkg/logger"
	"wozamali-core/pkg/monitor"
)

const maxRelayBackoff = 10 * time.Minute

// RelayService 负责将本地消息表的消息搬运到 MQ
//
// Delivery is at-least-once: a message is marked SENT only after Publish
// succeeds, so consumers must be idempotent.
type RelayService struct {
	db          *gorm.DB
	producer    mq.Producer
	interval    time.Duration
	batchSize   int
	maxAttempts int
	baseBackoff time.Duration
	now         func() time.Time
}

func NewRelayService(db *gorm.DB, producer mq.Producer, cfg config.SettlementConfig) *RelayService {
	return &RelayService{
		db:          db,
		producer:    producer,
		interval:    cfg.RelayInterval,
		batchSize:   cfg.RelayBatchSize,
		maxAttempts: cfg.RelayMaxAttempts,
		baseBackoff: cfg.RelayBaseBackoff,
		now:         time.Now,
	}
}

// Start polls until ctx is done.
func (s *RelayService) Start(ctx context.Context) {
	logger.Info("outbox relay started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := s.ProcessPending(ctx); err != nil {
				logger.Error("outbox relay pass failed", zap.Error(err))
			}
		}
	}
}

// ProcessPending publishes one batch of due messages and returns how many
// were sent.
func (s *RelayService) ProcessPending(ctx context.Context) (int, error) {
	// 1. 获取一批到期的 Pending 消息
	var messages []model.OutboxMessage
	err := s.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", model.OutboxPending, s.now()).
		Order("id").
		Limit(s.batchSize).
		Find(&messages).Error
	if err != nil {
		return 0, fmt.Errorf("query outbox: %w", err)
	}
	monitor.Business.OutboxPending.Set(float64(len(messages)))
	if len(messages) == 0 {
		return 0, nil
	}

	sent := 0
	for i := range messages {
		msg := &messages[i]

		// 2. 发送 MQ
		if err := s.producer.Publish(ctx, msg.Topic, msg.Key, msg.Payload); err != nil {
			monitor.Business.OutboxPublishFailures.Inc()
			s.markFailedAttempt(ctx, msg, err)
			continue
		}

		// 3. 更新状态为 SENT; if this update fails the message is sent again
		now := s.now()
		err := s.db.WithContext(ctx).Model(msg).Updates(map[string]interface{}{
			"status":   model.OutboxSent,
			"attempts": msg.Attempts + 1,
			"sent_at":  now,
		}).Error
		if err != nil {
			logger.Error("mark outbox message sent failed", zap.Uint64("id", msg.ID), zap.Error(err))
			continue
		}
		sent++
	}

	logger.Debug("outbox relay pass", zap.Int("picked", len(messages)), zap.Int("sent", sent))
	return sent, nil
}

func (s *RelayService) markFailedAttempt(ctx context.Context, msg *model.OutboxMessage, cause error) {
	attempts := msg.Attempts + 1
	updates := map[string]interface{}{
		"attempts":   attempts,
		"last_error": cause.Error(),
	}
	if attempts >= s.maxAttempts {
		updates["status"] = model.OutboxFailed
		logger.Error("outbox message gave up",
			zap.Uint64("id", msg.ID),
			zap.String("topic", msg.Topic),
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
	} else {
		updates["next_attempt_at"] = s.now().Add(s.retryDelay(attempts))
		logger.Warn("outbox publish failed, will retry",
			zap.Uint64("id", msg.ID),
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
	}

	if err := s.db.WithContext(ctx).Model(msg).Updates(updates).Error; err != nil {
		logger.Error("record outbox failure failed", zap.Uint64("id", msg.ID), zap.Error(err))
	}
}

// retryDelay doubles the base backoff per attempt, capped.
func (s *RelayService) retryDelay(attempts int) time.Duration {
	d := s.baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxRelayBackoff {
			return maxRelayBackoff
		}
	}
	return d
}

// RequeueFailed gives FAILED messages a fresh set of attempts.
func (s *RelayService) RequeueFailed(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("status = ?", model.OutboxFailed).
		Updates(map[string]interface{}{
			"status":          model.OutboxPending,
			"attempts":        0,
			"next_attempt_at": s.now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("requeue failed outbox messages: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Info("requeued failed outbox messages", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
