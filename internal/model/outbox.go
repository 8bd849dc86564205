package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Outbox statuses
const (
	OutboxPending = "PENDING"
	OutboxSent    = "SENT"
	OutboxFailed  = "FAILED"
)

// OutboxMessage 本地消息表 (Transactional Outbox)
type OutboxMessage struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic         string     `gorm:"type:varchar(255);not null" json:"topic"`
	Key           string     `gorm:"type:varchar(255)" json:"key"` // partition key
	Payload       []byte     `gorm:"type:bytea;not null" json:"payload"`
	Status        string     `gorm:"type:varchar(50);not null;default:'PENDING';index:idx_outbox_status_next" json:"status"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	LastError     string     `gorm:"type:text" json:"last_error,omitempty"`
	NextAttemptAt time.Time  `gorm:"not null;index:idx_outbox_status_next" json:"next_attempt_at"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (OutboxMessage) TableName() string {
	return "outbox_messages"
}

// CreateOutboxMessage 在同一个事务中创建业务数据和 Outbox 消息
func CreateOutboxMessage(tx *gorm.DB, topic, key string, payload interface{}) (*OutboxMessage, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	msg := OutboxMessage{
		Topic:         topic,
		Key:           key,
		Payload:       payloadBytes,
		Status:        OutboxPending,
		NextAttemptAt: time.Now(),
	}
	if err := tx.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}
