package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// ChangeKind 购物车状态变更类型
type ChangeKind string

const (
	ChangeItemAdded       ChangeKind = "item_added"
	ChangeItemUpdated     ChangeKind = "item_updated"
	ChangeItemRemoved     ChangeKind = "item_removed"
	ChangeCleared         ChangeKind = "cleared"
	ChangeCheckoutStarted ChangeKind = "checkout_started"
	ChangeCheckoutCreated ChangeKind = "checkout_created"
	ChangeCheckoutFailed  ChangeKind = "checkout_failed"
)

// Change 一次状态变更的通知
type Change struct {
	Kind ChangeKind
	// Item 受影响的行；添加时为规范化后的候选行
	Item domain.LineItem
	// Cart 变更后的完整快照
	Cart domain.Cart
	// Revision 单调递增，订阅者据此丢弃过期通知
	Revision uint64
}

// CartService 单个会话的购物车状态持有者
// 每个操作在锁内原子完成，订阅者在锁外收到通知
type CartService struct {
	mu        sync.Mutex
	cart      domain.Cart
	revision  uint64
	gateway   domain.CheckoutGateway
	listeners []func(Change)
}

// NewCartService 创建购物车服务实例
func NewCartService(gateway domain.CheckoutGateway) *CartService {
	return &CartService{gateway: gateway}
}

// Restore 用持久化快照恢复购物车行，不通知订阅者
func (s *CartService) Restore(items []domain.LineItem) {
	restored := domain.Cart{}
	for _, item := range items {
		if item.Validate() != nil {
			continue
		}
		restored.AddItem(item)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Items = restored.Items
}

// Subscribe 注册状态变更回调
func (s *CartService) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// CreateCheckout 以当前行的快照创建结账会话
// 空购物车直接返回空地址；已在创建中时返回 ErrCheckoutInProgress
func (s *CartService) CreateCheckout(ctx context.Context) (checkoutURL string, err error) {
	s.mu.Lock()
	if len(s.cart.Items) == 0 {
		s.mu.Unlock()
		return "", nil
	}
	if s.cart.IsLoading {
		s.mu.Unlock()
		return "", domain.ErrCheckoutInProgress
	}
	items := s.cart.Clone().Items
	s.cart.IsLoading = true
	s.cart.CheckoutURL = ""
	started := s.commitLocked(ChangeCheckoutStarted, domain.LineItem{})
	s.mu.Unlock()
	s.notify(started)

	defer logger.LogDuration(ctx, "checkout session request finished", "lines", len(items))()
	defer func() {
		s.mu.Lock()
		s.cart.IsLoading = false
		kind := ChangeCheckoutFailed
		if err == nil {
			s.cart.CheckoutURL = checkoutURL
			kind = ChangeCheckoutCreated
		}
		finished := s.commitLocked(kind, domain.LineItem{})
		s.mu.Unlock()
		s.notify(finished)
	}()

	checkoutURL, err = s.gateway.CreateCheckoutSession(ctx, items)
	if err != nil {
		logger.Error(ctx, "failed to create checkout session", "error", err)
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	logger.Info(ctx, "checkout session created", "lines", len(items))
	return checkoutURL, nil
}

// commitLocked 递增版本并生成通知，调用方须持有锁
func (s *CartService) commitLocked(kind ChangeKind, item domain.LineItem) Change {
	s.revision++
	return Change{
		Kind:     kind,
		Item:     item,
		Cart:     s.cart.Clone(),
		Revision: s.revision,
	}
}

func (s *CartService) notify(change Change) {
	s.mu.Lock()
	listeners := append([]func(Change){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(change)
	}
}
