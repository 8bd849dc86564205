package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wozamali-core/pkg/logger"
)

// RedisProducer 实现 Producer 接口 (Redis Streams)
type RedisProducer struct {
	client *redis.Client
}

func NewRedisProducer(client *redis.Client) *RedisProducer {
	return &RedisProducer{
		client: client,
	}
}

// Publish appends to the stream named after the topic (XADD).
func (p *RedisProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}).Err()
	if err != nil {
		logger.Error("redis publish failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Errorf("redis xadd error: %w", err)
	}
	return nil
}

// Close is a no-op: the client is shared and closed by its owner.
func (p *RedisProducer) Close() error {
	return nil
}

// RedisConsumer 实现 Consumer 接口 (consumer group)
type RedisConsumer struct {
	client *redis.Client
	group  string
	name   string
	block  time.Duration
}

func NewRedisConsumer(client *redis.Client, group, name string) *RedisConsumer {
	return &RedisConsumer{
		client: client,
		group:  group,
		name:   name,
		block:  2 * time.Second,
	}
}

// Subscribe reads with XREADGROUP. Messages whose handler fails stay in the
// pending list and are re-read from id "0" on the next pass.
func (c *RedisConsumer) Subscribe(ctx context.Context, topic string, handler Handler) error {
	err := c.client.XGroupCreateMkStream(ctx, topic, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group: %w", err)
	}

	logger.Info("redis consumer listening", zap.String("topic", topic), zap.String("group", c.group))

	// Start with our own pending entries, then switch to new ones.
	cursor := "0"
	for {
		if ctx.Err() != nil {
			return nil
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.group,
			Consumer: c.name,
			Streams:  []string{topic, cursor},
			Count:    10,
			Block:    c.block,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("redis read failed", zap.Error(err))
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
			continue
		}

		delivered := 0
		failed := 0
		for _, stream := range streams {
			for _, x := range stream.Messages {
				delivered++
				if c.handle(ctx, topic, x, handler) != nil {
					failed++
				}
			}
		}

		switch {
		case cursor == "0" && delivered == 0:
			cursor = ">"
		case failed > 0:
			cursor = "0"
			if !sleepCtx(ctx, time.Second) {
				return nil
			}
		}
	}
}

func (c *RedisConsumer) handle(ctx context.Context, topic string, x redis.XMessage, handler Handler) error {
	payload, ok := x.Values["payload"].(string)
	if !ok {
		logger.Warn("redis message without payload, dropping", zap.String("id", x.ID))
		c.ack(ctx, topic, x.ID)
		return nil
	}
	key, _ := x.Values["key"].(string)

	msg := &Message{
		ID:      x.ID,
		Topic:   topic,
		Key:     key,
		Payload: []byte(payload),
	}
	if err := handler(ctx, msg); err != nil {
		logger.Warn("redis handler failed", zap.String("id", x.ID), zap.Error(err))
		return err
	}
	c.ack(ctx, topic, x.ID)
	return nil
}

func (c *RedisConsumer) ack(ctx context.Context, topic, id string) {
	if err := c.client.XAck(ctx, topic, c.group, id).Err(); err != nil {
		logger.Error("redis ack failed", zap.String("id", id), zap.Error(err))
	}
}

// Close is a no-op: the client is shared and closed by its owner.
func (c *RedisConsumer) Close() error {
	return nil
}
