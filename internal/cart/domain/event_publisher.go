package domain

import "context"

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// Publish 以 key 作为分区键发布事件
	Publish(ctx context.Context, topic string, key string, event any) error
}
