package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// 事件主题
const (
	TopicItemAdded       = "cart.item.added"
	TopicItemUpdated     = "cart.item.updated"
	TopicItemRemoved     = "cart.item.removed"
	TopicCleared         = "cart.cleared"
	TopicCheckoutCreated = "cart.checkout.created"
)

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	SessionID string          `json:"session_id"`
	VariantID string          `json:"variant_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Timestamp time.Time       `json:"timestamp"`
}

// CartItemUpdatedEvent 购物车商品数量变更事件
type CartItemUpdatedEvent struct {
	SessionID string    `json:"session_id"`
	VariantID string    `json:"variant_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	SessionID string    `json:"session_id"`
	VariantID string    `json:"variant_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckoutCreatedEvent 结账会话创建事件
type CheckoutCreatedEvent struct {
	SessionID   string          `json:"session_id"`
	CheckoutURL string          `json:"checkout_url"`
	ItemCount   int             `json:"item_count"`
	TotalEUR    decimal.Decimal `json:"total_eur"`
	Timestamp   time.Time       `json:"timestamp"`
}
