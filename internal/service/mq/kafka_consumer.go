package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wozamali-core/pkg/logger"
)

// KafkaConsumer 实现 Consumer 接口
type KafkaConsumer struct {
	brokers []string
	groupID string
	reader  *kafka.Reader
}

// NewKafkaConsumer 创建 Kafka 消费者
func NewKafkaConsumer(brokers []string, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
	}
}

// Subscribe 订阅 Kafka 主题
// Offsets are committed only after the handler succeeds. A failing message is
// retried with a pause instead of being committed, so it is never lost.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, handler Handler) error {
	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     c.groupID,
		Topic:       topic,
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
		StartOffset: kafka.FirstOffset,
	})
	defer c.reader.Close()

	logger.Info("kafka consumer listening", zap.String("topic", topic), zap.String("group", c.groupID))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("kafka fetch failed", zap.Error(err))
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
			continue
		}

		msg := &Message{
			ID:      fmt.Sprintf("%d/%d", m.Partition, m.Offset),
			Topic:   topic,
			Key:     string(m.Key),
			Payload: m.Value,
		}

		for attempt := 1; ; attempt++ {
			err := handler(ctx, msg)
			if err == nil {
				break
			}
			logger.Warn("kafka handler failed",
				zap.String("id", msg.ID), zap.Int("attempt", attempt), zap.Error(err))
			if !sleepCtx(ctx, backoff(attempt)) {
				return nil
			}
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			logger.Error("kafka commit failed", zap.String("id", msg.ID), zap.Error(err))
		}
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
