// Package messaging 提供购物车事件发布者实现
package messaging

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// MessageSender 消息发送接口，由 mq.KafkaProducer 实现
type MessageSender interface {
	SendMessage(ctx context.Context, topic string, key string, value any) error
}

// kafkaPublisher 基于 Kafka 的事件发布者实现
type kafkaPublisher struct {
	sender MessageSender
}

// NewKafkaPublisher 创建一个新的 Kafka 事件发布者
func NewKafkaPublisher(sender MessageSender) domain.EventPublisher {
	return &kafkaPublisher{sender: sender}
}

// Publish 以会话 ID 作为分区键发布事件，保证同一会话的事件有序
func (p *kafkaPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.sender.SendMessage(ctx, topic, key, event)
}

// logPublisher 未启用 Kafka 时只记录事件
type logPublisher struct{}

// NewLogPublisher 创建日志事件发布者
func NewLogPublisher() domain.EventPublisher {
	return logPublisher{}
}

// Publish 输出 debug 日志
func (logPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	logger.Debug(ctx, "cart event", "topic", topic, "key", key, "event", event)
	return nil
}
