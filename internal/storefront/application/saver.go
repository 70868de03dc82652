package application

import (
	"context"
	"sync"
	"time"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	currencydomain "github.com/wyfcoding/storefront/internal/currency/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

const saveTimeout = 3 * time.Second

// cartSaver 在每次购物车行变化后写入快照，按版本丢弃过期通知
type cartSaver struct {
	mu        sync.Mutex
	sessionID string
	repo      cartdomain.CartRepository
	saved     uint64
}

func (s *cartSaver) onChange(change cartapp.Change) {
	switch change.Kind {
	case cartapp.ChangeCheckoutStarted, cartapp.ChangeCheckoutCreated, cartapp.ChangeCheckoutFailed:
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if change.Revision <= s.saved {
		return
	}

	ctx, cancel := context.WithTimeout(logger.ContextWithSessionID(context.Background(), s.sessionID), saveTimeout)
	defer cancel()
	if err := s.repo.Save(ctx, s.sessionID, change.Cart.Items); err != nil {
		logger.Error(ctx, "failed to save cart snapshot", "revision", change.Revision, "error", err)
		return
	}
	s.saved = change.Revision
}

// preferenceSaver 在货币切换后写入快照
func preferenceSaver(sessionID string, repo currencydomain.PreferenceRepository) func(currencydomain.Preference) {
	var mu sync.Mutex
	return func(pref currencydomain.Preference) {
		mu.Lock()
		defer mu.Unlock()

		ctx, cancel := context.WithTimeout(logger.ContextWithSessionID(context.Background(), sessionID), saveTimeout)
		defer cancel()
		if err := repo.Save(ctx, sessionID, pref); err != nil {
			logger.Error(ctx, "failed to save currency snapshot", "error", err)
		}
	}
}
