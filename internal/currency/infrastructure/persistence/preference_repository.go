// Package persistence 货币偏好的快照仓储实现
package persistence

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/currency/domain"
	sfdomain "github.com/wyfcoding/storefront/internal/storefront/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

type preferenceRepository struct {
	store sfdomain.SnapshotStore
}

// NewPreferenceRepository 创建基于快照存储的偏好仓储
func NewPreferenceRepository(store sfdomain.SnapshotStore) domain.PreferenceRepository {
	return &preferenceRepository{store: store}
}

// Load 读取偏好；版本不匹配的快照被忽略
func (r *preferenceRepository) Load(ctx context.Context, sessionID string) (domain.Preference, error) {
	key := sfdomain.SnapshotKey(sessionID, sfdomain.CurrencyPreferenceName)
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, sfdomain.ErrSnapshotNotFound) {
		return domain.DefaultPreference(), nil
	}
	if err != nil {
		return domain.DefaultPreference(), err
	}

	var pref domain.Preference
	if err := sfdomain.DecodeSnapshot(data, &pref); err != nil {
		logger.Warn(ctx, "ignoring currency snapshot", "key", key, "error", err)
		return domain.DefaultPreference(), nil
	}
	return pref.Normalize(), nil
}

// Save 覆盖写入偏好
func (r *preferenceRepository) Save(ctx context.Context, sessionID string, pref domain.Preference) error {
	data, err := sfdomain.EncodeSnapshot(pref)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, sfdomain.SnapshotKey(sessionID, sfdomain.CurrencyPreferenceName), data)
}
