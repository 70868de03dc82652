// Package persistence 购物车的快照仓储实现
package persistence

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	sfdomain "github.com/wyfcoding/storefront/internal/storefront/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// cartState 持久化的购物车状态，只保存行
type cartState struct {
	Items []domain.LineItem `json:"items"`
}

type snapshotRepository struct {
	store sfdomain.SnapshotStore
}

// NewSnapshotRepository 创建基于快照存储的购物车仓储
func NewSnapshotRepository(store sfdomain.SnapshotStore) domain.CartRepository {
	return &snapshotRepository{store: store}
}

// Load 读取购物车行；无快照或版本不匹配时返回 nil
func (r *snapshotRepository) Load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	key := sfdomain.SnapshotKey(sessionID, sfdomain.CartStorageName)
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, sfdomain.ErrSnapshotNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var state cartState
	if err := sfdomain.DecodeSnapshot(data, &state); err != nil {
		logger.Warn(ctx, "ignoring cart snapshot", "key", key, "error", err)
		return nil, nil
	}
	return state.Items, nil
}

// Save 覆盖写入购物车行
func (r *snapshotRepository) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := sfdomain.EncodeSnapshot(cartState{Items: items})
	if err != nil {
		return err
	}
	return r.store.Put(ctx, sfdomain.SnapshotKey(sessionID, sfdomain.CartStorageName), data)
}
