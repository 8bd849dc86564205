package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
	Rate string `json:"rate"`
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, ""), mr
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	var got entry
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)

	in := entry{Name: "PET", Rate: "1.50"}
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))
	in.Name = "mutated"

	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, entry{Name: "PET", Rate: "1.50"}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	var got []entry
	assert.ErrorIs(t, c.Get(ctx, "materials", &got), ErrMiss)

	require.NoError(t, c.Set(ctx, "materials", []entry{{Name: "Glass", Rate: "2.00"}}, time.Minute))
	require.NoError(t, c.Get(ctx, "materials", &got))
	assert.Equal(t, []entry{{Name: "Glass", Rate: "2.00"}}, got)
	assert.True(t, mr.Exists(DefaultKeyPrefix+"materials"))
	assert.False(t, mr.Exists("materials"))

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, "materials", &got), ErrMiss)
}

func TestMultiLevelCache_BackfillsLocal(t *testing.T) {
	ctx := context.Background()
	local := NewMemoryCache(time.Minute, time.Minute)
	remote, _ := newRedisCache(t)
	m := NewMultiLevelCache(local, remote)

	require.NoError(t, remote.Set(ctx, "k", entry{Name: "Cardboard"}, time.Minute))

	var got entry
	require.NoError(t, m.Get(ctx, "k", &got))
	assert.Equal(t, "Cardboard", got.Name)

	var fromLocal entry
	require.NoError(t, local.Get(ctx, "k", &fromLocal))
	assert.Equal(t, "Cardboard", fromLocal.Name)

	require.NoError(t, m.Delete(ctx, "k"))
	assert.ErrorIs(t, m.Get(ctx, "k", &got), ErrMiss)
}

func TestRedisCache_Prefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	staging := NewRedisCache(client, "staging:")
	prod := NewRedisCache(client, "prod:")
	require.NoError(t, staging.Set(ctx, "fund:summary", entry{Name: "fund", Rate: "10.30"}, time.Minute))

	var got entry
	assert.ErrorIs(t, prod.Get(ctx, "fund:summary", &got), ErrMiss)
	require.NoError(t, staging.Get(ctx, "fund:summary", &got))
	assert.Equal(t, "10.30", got.Rate)

	require.NoError(t, staging.Delete(ctx, "fund:summary"))
	assert.False(t, mr.Exists("staging:fund:summary"))
}

func TestLocalTTL(t *testing.T) {
	assert.Equal(t, maxBackfillTTL, localTTL(0))
	assert.Equal(t, maxBackfillTTL, localTTL(5*time.Minute))
	assert.Equal(t, 30*time.Second, localTTL(30*time.Second))
}
