package messaging

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// ErrQueueFull 发送队列已满，事件被丢弃
var ErrQueueFull = errors.New("event queue full")

type queuedEvent struct {
	topic string
	key   string
	event any
}

// AsyncPublisher 请求路径只入队，由 Run 在后台按入队顺序逐条发送
type AsyncPublisher struct {
	next    domain.EventPublisher
	queue   chan queuedEvent
	timeout time.Duration
}

// NewAsyncPublisher 创建异步发布者，size 为队列容量，timeout 为单条发送超时
func NewAsyncPublisher(next domain.EventPublisher, size int, timeout time.Duration) *AsyncPublisher {
	return &AsyncPublisher{
		next:    next,
		queue:   make(chan queuedEvent, max(size, 1)),
		timeout: timeout,
	}
}

// Publish 非阻塞入队；队列满时返回 ErrQueueFull
func (p *AsyncPublisher) Publish(_ context.Context, topic string, key string, event any) error {
	select {
	case p.queue <- queuedEvent{topic: topic, key: key, event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run 持续发送直到 ctx 取消，取消后把队列中剩余事件发完再返回
func (p *AsyncPublisher) Run(ctx context.Context) error {
	for {
		select {
		case ev := <-p.queue:
			p.send(ev)
		case <-ctx.Done():
			p.drain()
			return nil
		}
	}
}

func (p *AsyncPublisher) drain() {
	for {
		select {
		case ev := <-p.queue:
			p.send(ev)
		default:
			return
		}
	}
}

func (p *AsyncPublisher) send(ev queuedEvent) {
	ctx, cancel := context.WithTimeout(logger.ContextWithSessionID(context.Background(), ev.key), p.timeout)
	defer cancel()
	if err := p.next.Publish(ctx, ev.topic, ev.key, ev.event); err != nil {
		logger.Error(ctx, "failed to deliver cart event", "topic", ev.topic, "error", err)
	}
}
