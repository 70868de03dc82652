// Package application 管理会话状态并编排购物车、货币、目录之间的交互
package application

import (
	"sync/atomic"
	"time"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	currencyapp "github.com/wyfcoding/storefront/internal/currency/application"
	uiapp "github.com/wyfcoding/storefront/internal/ui/application"
)

// Session 单个访客的全部状态持有者
type Session struct {
	ID       string
	Cart     *cartapp.CartService
	Currency *currencyapp.CurrencyService
	UI       *uiapp.Coordinator

	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen 最近一次访问时间
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}
