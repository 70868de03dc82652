package application

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/currency/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// CurrencyService 单个会话的货币偏好状态持有者
// 状态变更只通知订阅者，不直接做持久化
type CurrencyService struct {
	mu        sync.RWMutex
	pref      domain.Preference
	listeners []func(domain.Preference)
}

// NewCurrencyService 以给定偏好创建服务，通常来自持久化快照
func NewCurrencyService(pref domain.Preference) *CurrencyService {
	return &CurrencyService{pref: pref.Normalize()}
}

// Preference 当前偏好
func (s *CurrencyService) Preference() domain.Preference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pref
}

// Current 当前货币表项
func (s *CurrencyService) Current() domain.Currency {
	return s.Preference().Current()
}

// SetCurrency 切换展示货币并通知订阅者
func (s *CurrencyService) SetCurrency(ctx context.Context, code domain.Code) {
	s.mu.Lock()
	prev := s.pref.Currency
	s.pref.SetCurrency(code)
	pref := s.pref
	listeners := append([]func(domain.Preference){}, s.listeners...)
	s.mu.Unlock()

	logger.Info(ctx, "currency changed", "from", prev, "to", code)
	for _, fn := range listeners {
		fn(pref)
	}
}

// Convert 按当前货币换算 EUR 金额
func (s *CurrencyService) Convert(amountEur decimal.Decimal) decimal.Decimal {
	return s.Preference().Convert(amountEur)
}

// Format 按当前货币格式化 EUR 金额
func (s *CurrencyService) Format(amountEur decimal.Decimal) string {
	return s.Preference().Format(amountEur)
}

// Subscribe 注册偏好变更回调
func (s *CurrencyService) Subscribe(fn func(domain.Preference)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
