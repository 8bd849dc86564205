package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wozamali-core/internal/model"
	"wozamali-core/pkg/utils/lock"
)

func TestCronService_RequeueFailedOutbox(t *testing.T) {
	db := newTestDB(t)
	client, _ := newTestRedis(t)
	relay := NewRelayService(db, &fakeProducer{}, testSettlementConfig())
	svc := NewCronService(lock.NewRedisLock(client), relay, NewFundService(db, nil, time.Minute))

	msg, err := model.CreateOutboxMessage(db, "settled", "cust-1", map[string]string{"collection_id": "col-1"})
	require.NoError(t, err)
	require.NoError(t, db.Model(msg).Update("status", model.OutboxFailed).Error)

	svc.RequeueFailedOutbox()

	var got model.OutboxMessage
	require.NoError(t, db.First(&got, msg.ID).Error)
	assert.Equal(t, model.OutboxPending, got.Status)
}

func TestCronService_SkipsWhenLockHeld(t *testing.T) {
	db := newTestDB(t)
	client, _ := newTestRedis(t)
	relay := NewRelayService(db, &fakeProducer{}, testSettlementConfig())
	svc := NewCronService(lock.NewRedisLock(client), relay, NewFundService(db, nil, time.Minute))

	msg, err := model.CreateOutboxMessage(db, "settled", "cust-1", map[string]string{"collection_id": "col-1"})
	require.NoError(t, err)
	require.NoError(t, db.Model(msg).Update("status", model.OutboxFailed).Error)

	ok, err := lock.NewRedisLock(client).Acquire(context.Background(), "cron:lock:outbox_requeue", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	svc.RequeueFailedOutbox()

	var got model.OutboxMessage
	require.NoError(t, db.First(&got, msg.ID).Error)
	assert.Equal(t, model.OutboxFailed, got.Status)
}
