package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"wozamali-core/pkg/logger"
	"wozamali-core/pkg/utils/lock"
)

type CronService struct {
	cron   *cron.Cron
	locker lock.DistributedLock
	relay  *RelayService
	fund   *FundService
}

func NewCronService(locker lock.DistributedLock, relay *RelayService, fund *FundService) *CronService {
	// 标准配置 (分钟级), @every 描述符不受影响
	c := cron.New()
	return &CronService{
		cron:   c,
		locker: locker,
		relay:  relay,
		fund:   fund,
	}
}

func (s *CronService) Start() {
	// 注册任务
	_, _ = s.cron.AddFunc("@every 5m", s.RequeueFailedOutbox)
	_, _ = s.cron.AddFunc("@every 1m", s.RefreshFundSummary)

	s.cron.Start()
	logger.Info("Cron Service started")
}

func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Cron Service stopped")
}

// RequeueFailedOutbox gives messages that exhausted their attempts another
// round.
func (s *CronService) RequeueFailedOutbox() {
	s.exclusive("cron:lock:outbox_requeue", time.Minute, func(ctx context.Context) {
		if _, err := s.relay.RequeueFailed(ctx); err != nil {
			logger.Error("requeue failed outbox messages", zap.Error(err))
		}
	})
}

func (s *CronService) RefreshFundSummary() {
	s.exclusive("cron:lock:fund_summary", 30*time.Second, func(ctx context.Context) {
		summary, err := s.fund.Refresh(ctx)
		if err != nil {
			logger.Error("refresh fund summary", zap.Error(err))
			return
		}
		logger.Debug("fund summary refreshed", zap.String("total", summary.TotalAmount.StringFixed(2)))
	})
}

// exclusive runs fn on one instance only (防止多实例同时执行).
func (s *CronService) exclusive(key string, ttl time.Duration, fn func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), ttl)
	defer cancel()

	locked, err := s.locker.Acquire(ctx, key, ttl)
	if err != nil || !locked {
		// 获取锁失败，说明有其他节点在运行，跳过
		logger.Debug("cron job skipped, lock held elsewhere", zap.String("key", key), zap.Error(err))
		return
	}
	defer func() {
		_ = s.locker.Release(context.Background(), key)
	}()

	fn(ctx)
}
