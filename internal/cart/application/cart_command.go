package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	Item domain.LineItem
}

// UpdateQuantityCommand 修改行数量命令，Quantity <= 0 即移除
type UpdateQuantityCommand struct {
	VariantID string
	Quantity  int
}

// RemoveItemCommand 从购物车移除商品命令
type RemoveItemCommand struct {
	VariantID string
}

// AddItem 合并或追加一行
func (s *CartService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	if err := cmd.Item.Validate(); err != nil {
		return err
	}
	candidate := cmd.Item
	candidate.Quantity = domain.NormalizeQuantity(candidate.Quantity)

	s.mu.Lock()
	s.cart.AddItem(candidate)
	change := s.commitLocked(ChangeItemAdded, candidate)
	s.mu.Unlock()

	logger.Debug(ctx, "cart item added", "variant_id", candidate.VariantID, "quantity", candidate.Quantity)
	s.notify(change)
	return nil
}

// UpdateQuantity 设置行数量；行不存在时为空操作
func (s *CartService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) {
	s.mu.Lock()
	before, ok := s.cart.Item(cmd.VariantID)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.cart.UpdateQuantity(cmd.VariantID, cmd.Quantity)

	var change Change
	if after, still := s.cart.Item(cmd.VariantID); still {
		change = s.commitLocked(ChangeItemUpdated, after)
	} else {
		change = s.commitLocked(ChangeItemRemoved, before)
	}
	s.mu.Unlock()

	logger.Debug(ctx, "cart quantity updated", "variant_id", cmd.VariantID, "quantity", cmd.Quantity)
	s.notify(change)
}

// RemoveItem 移除一行；行不存在时为空操作
func (s *CartService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) {
	s.mu.Lock()
	before, ok := s.cart.Item(cmd.VariantID)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.cart.RemoveItem(cmd.VariantID)
	change := s.commitLocked(ChangeItemRemoved, before)
	s.mu.Unlock()

	logger.Debug(ctx, "cart item removed", "variant_id", cmd.VariantID)
	s.notify(change)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.cart.Clear()
	change := s.commitLocked(ChangeCleared, domain.LineItem{})
	s.mu.Unlock()

	logger.Debug(ctx, "cart cleared")
	s.notify(change)
}
