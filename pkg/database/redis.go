package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wozamali-core/pkg/logger"
)

// ConnectRedis 连接到 Redis
// addr: "localhost:6379"
func ConnectRedis(ctx context.Context, addr string, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	logger.Info("Redis connected", zap.String("addr", addr))
	return rdb, nil
}
