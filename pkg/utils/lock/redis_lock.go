package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DistributedLock 定义分布式锁接口
type DistributedLock interface {
	// Acquire tries once; false means another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the key if this instance still owns it.
	Release(ctx context.Context, key string) error
}

// ErrNotHeld is returned by Release when the lock expired or belongs to
// someone else.
var ErrNotHeld = errors.New("lock not held")

// compare-and-delete so an expired holder cannot release a successor's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock 基于 Redis SETNX 的实现
type RedisLock struct {
	client *redis.Client
	owner  string
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client, owner: uuid.NewString()}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, "lock:"+key, l.owner, ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	n, err := releaseScript.Run(ctx, l.client, []string{"lock:" + key}, l.owner).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}
