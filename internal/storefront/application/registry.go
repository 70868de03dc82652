package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	currencyapp "github.com/wyfcoding/storefront/internal/currency/application"
	currencydomain "github.com/wyfcoding/storefront/internal/currency/domain"
	uiapp "github.com/wyfcoding/storefront/internal/ui/application"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// RegistryDeps 会话注册表依赖
type RegistryDeps struct {
	Carts       cartdomain.CartRepository
	Preferences currencydomain.PreferenceRepository
	Gateway     cartdomain.CheckoutGateway
	Publisher   cartdomain.EventPublisher
	// Metrics 可为空
	Metrics *metrics.Metrics
}

// Registry 按会话 ID 持有状态，首次访问时从快照恢复
type Registry struct {
	deps     RegistryDeps
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewRegistry 创建会话注册表
func NewRegistry(deps RegistryDeps) *Registry {
	return &Registry{
		deps:     deps,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Get 返回会话，不存在时加载快照并接好保存、事件和指标订阅
func (r *Registry) Get(ctx context.Context, sessionID string) (*Session, error) {
	// touch 必须在锁内完成，否则 EvictIdle 可能移除刚取出的会话
	r.mu.Lock()
	if s, ok := r.sessions[sessionID]; ok {
		s.touch(r.now())
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	items, err := r.deps.Carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	pref, err := r.deps.Preferences.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load currency snapshot: %w", err)
	}

	s := &Session{
		ID:       sessionID,
		Cart:     cartapp.NewCartService(r.deps.Gateway),
		Currency: currencyapp.NewCurrencyService(pref),
		UI:       uiapp.NewCoordinator(),
	}
	s.Cart.Restore(items)
	// 订阅须在会话对其他请求可见之前接好
	r.wire(s)

	r.mu.Lock()
	if existing, ok := r.sessions[sessionID]; ok {
		existing.touch(r.now())
		r.mu.Unlock()
		return existing, nil
	}
	s.touch(r.now())
	r.sessions[sessionID] = s
	active := len(r.sessions)
	r.mu.Unlock()

	r.recordActive(active)
	logger.Debug(ctx, "session restored", "lines", len(items), "currency", pref.Currency)
	return s, nil
}

func (r *Registry) wire(s *Session) {
	saver := &cartSaver{sessionID: s.ID, repo: r.deps.Carts}
	s.Cart.Subscribe(saver.onChange)
	if r.deps.Publisher != nil {
		s.Cart.Subscribe(cartapp.NewEventForwarder(s.ID, r.deps.Publisher))
	}
	if m := r.deps.Metrics; m != nil {
		s.Cart.Subscribe(func(c cartapp.Change) { m.RecordCartMutation(string(c.Kind)) })
	}
	s.Currency.Subscribe(preferenceSaver(s.ID, r.deps.Preferences))
}

// EvictIdle 移除超过 maxIdle 未访问的会话，状态已持久化，下次访问重新加载
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	evicted := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) && !s.Cart.Snapshot().IsLoading {
			delete(r.sessions, id)
			evicted++
		}
	}
	active := len(r.sessions)
	r.mu.Unlock()

	r.recordActive(active)
	return evicted
}

// Len 当前内存中的会话数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) recordActive(n int) {
	if r.deps.Metrics != nil {
		r.deps.Metrics.SetActiveSessions(n)
	}
}
