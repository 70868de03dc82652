package application

import (
	"sync"

	"github.com/wyfcoding/storefront/internal/ui/domain"
)

// Coordinator 单个会话的界面状态持有者
type Coordinator struct {
	mu    sync.RWMutex
	flags domain.Flags
}

// NewCoordinator 两个抽屉默认关闭
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// SetCartOpen 设置购物车抽屉状态
func (c *Coordinator) SetCartOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags.IsCartOpen = open
}

// SetNavOpen 设置导航抽屉状态
func (c *Coordinator) SetNavOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flags.IsNavOpen = open
}

// Snapshot 当前状态
func (c *Coordinator) Snapshot() domain.Flags {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.flags
}
