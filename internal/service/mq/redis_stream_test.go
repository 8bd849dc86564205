package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStream_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	producer := NewRedisProducer(client)
	require.NoError(t, producer.Publish(ctx, "settled", "customer-1", []byte(`{"n":1}`)))
	require.NoError(t, producer.Publish(ctx, "settled", "customer-2", []byte(`{"n":2}`)))

	consumer := NewRedisConsumer(client, "grp", "c-0")
	consumer.block = 50 * time.Millisecond

	var (
		mu       sync.Mutex
		got      []*Message
		attempts int
	)
	handler := func(ctx context.Context, msg *Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("transient")
		}
		got = append(got, msg)
		if len(got) == 2 {
			cancel()
		}
		return nil
	}

	require.NoError(t, consumer.Subscribe(ctx, "settled", handler))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	keys := []string{got[0].Key, got[1].Key}
	assert.ElementsMatch(t, []string{"customer-1", "customer-2"}, keys)
	assert.Equal(t, 3, attempts, "the failed message is redelivered")

	pending, err := client.XPending(context.Background(), "settled", "grp").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, backoff(1))
	assert.Equal(t, time.Second, backoff(2))
	assert.Equal(t, 4*time.Second, backoff(4))
	assert.Equal(t, maxBackoff, backoff(20))
}
