package application

import (
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// Snapshot 当前购物车的深拷贝
func (s *CartService) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// TotalItemCount 所有行数量之和
func (s *CartService) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItemCount()
}

// TotalPrice 购物车总额（EUR）
func (s *CartService) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

// ContainsProduct 购物车中是否已有该商品
func (s *CartService) ContainsProduct(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ContainsProduct(productID)
}
