package mq

import "context"

// Message 代表一条通用的业务消息
type Message struct {
	ID       string            // broker message id (Redis Stream ID, Kafka partition/offset)
	Topic    string
	Key      string            // partition key, e.g. customer ID
	Payload  []byte            // JSON
	Metadata map[string]string
}

// Handler processes one message. Returning an error leaves the message
// unacknowledged so it is delivered again.
type Handler func(ctx context.Context, msg *Message) error

// Producer 生产者接口
type Producer interface {
	// Publish sends payload to topic. An empty key lets the broker pick a partition.
	Publish(ctx context.Context, topic string, key string, payload []byte) error
	Close() error
}

// Consumer 消费者接口
type Consumer interface {
	// Subscribe blocks until ctx is done.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
