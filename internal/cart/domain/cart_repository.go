package domain

import "context"

// CartRepository 购物车快照仓储，持久化形状为 {"items": [...]}
type CartRepository interface {
	// Load 读取会话的购物车行；无快照时返回 nil, nil
	Load(ctx context.Context, sessionID string) ([]LineItem, error)
	// Save 覆盖写入会话的购物车行
	Save(ctx context.Context, sessionID string, items []LineItem) error
}

// CheckoutGateway 外部电商平台的结账会话接口
type CheckoutGateway interface {
	// CreateCheckoutSession 以给定行创建结账会话，返回跳转地址
	CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error)
}
