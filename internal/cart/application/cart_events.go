package application

import (
	"context"
	"time"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const publishTimeout = 5 * time.Second

// NewEventForwarder 把状态变更转换为领域事件发布，发布失败只记录日志
func NewEventForwarder(sessionID string, publisher domain.EventPublisher) func(Change) {
	return func(change Change) {
		topic, event := toEvent(sessionID, change, time.Now())
		if topic == "" {
			return
		}

		ctx, cancel := context.WithTimeout(logger.ContextWithSessionID(context.Background(), sessionID), publishTimeout)
		defer cancel()
		if err := publisher.Publish(ctx, topic, sessionID, event); err != nil {
			logger.Error(ctx, "failed to publish cart event", "topic", topic, "error", err)
		}
	}
}

func toEvent(sessionID string, change Change, now time.Time) (string, any) {
	switch change.Kind {
	case ChangeItemAdded:
		return domain.TopicItemAdded, domain.CartItemAddedEvent{
			SessionID: sessionID,
			VariantID: change.Item.VariantID,
			ProductID: change.Item.Product.ID,
			Quantity:  change.Item.Quantity,
			UnitPrice: change.Item.Price.Amount,
			Timestamp: now,
		}
	case ChangeItemUpdated:
		return domain.TopicItemUpdated, domain.CartItemUpdatedEvent{
			SessionID: sessionID,
			VariantID: change.Item.VariantID,
			Quantity:  change.Item.Quantity,
			Timestamp: now,
		}
	case ChangeItemRemoved:
		return domain.TopicItemRemoved, domain.CartItemRemovedEvent{
			SessionID: sessionID,
			VariantID: change.Item.VariantID,
			Timestamp: now,
		}
	case ChangeCleared:
		return domain.TopicCleared, domain.CartClearedEvent{SessionID: sessionID, Timestamp: now}
	case ChangeCheckoutCreated:
		return domain.TopicCheckoutCreated, domain.CheckoutCreatedEvent{
			SessionID:   sessionID,
			CheckoutURL: change.Cart.CheckoutURL,
			ItemCount:   change.Cart.TotalItemCount(),
			TotalEUR:    change.Cart.TotalPrice(),
			Timestamp:   now,
		}
	}
	return "", nil
}
