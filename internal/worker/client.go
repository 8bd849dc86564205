package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"wozamali-core/internal/worker/tasks"
	"wozamali-core/pkg/logger"
)

// Client 封装 Asynq Client
type Client struct {
	client *asynq.Client
}

// NewClient 初始化 Client
// addr: "localhost:6379"
func NewClient(addr string, password string, db int) *Client {
	c := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Client{client: c}
}

// Enqueue 将任务推送到队列
func (c *Client) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, task, opts...)
}

// EnqueueReceipt queues the settlement receipt. A receipt already queued for
// the collection counts as success.
func (c *Client) EnqueueReceipt(ctx context.Context, p tasks.ReceiptPayload) error {
	task, err := tasks.NewReceiptTask(p)
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debug("receipt already queued", zap.String("collection_id", p.CollectionID))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debug("receipt queued", zap.String("task_id", info.ID), zap.String("queue", info.Queue))
	return nil
}

// Close 关闭客户端连接
func (c *Client) Close() error {
	return c.client.Close()
}
