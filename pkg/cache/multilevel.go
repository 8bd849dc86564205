package cache

import (
	"context"
	"time"
)

// maxBackfillTTL caps how long an entry copied down from Redis lives in L1.
// A rate change made through another instance only clears Redis, so this is
// the longest a stale rate can survive here.
const maxBackfillTTL = time.Minute

// MultiLevelCache 价目表/基金汇总的两级缓存 (L1: Memory, L2: Redis)
type MultiLevelCache struct {
	local  Cache
	remote Cache
}

func NewMultiLevelCache(local, remote Cache) *MultiLevelCache {
	return &MultiLevelCache{local: local, remote: remote}
}

// Set writes both levels. L1 keeps the entry for half the TTL, at most
// maxBackfillTTL.
func (m *MultiLevelCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	_ = m.local.Set(ctx, key, value, localTTL(ttl/2))
	return m.remote.Set(ctx, key, value, ttl)
}

func (m *MultiLevelCache) Get(ctx context.Context, key string, target interface{}) error {
	if err := m.local.Get(ctx, key, target); err == nil {
		return nil
	}
	if err := m.remote.Get(ctx, key, target); err != nil {
		return err
	}
	_ = m.local.Set(ctx, key, target, maxBackfillTTL)
	return nil
}

// Delete clears L1 first; a failure on L2 is still reported so the caller
// can log that other instances may serve the old entry until it expires.
func (m *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}

func localTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > maxBackfillTTL {
		return maxBackfillTTL
	}
	return ttl
}
