package domain

import "context"

// PreferenceRepository 货币偏好快照仓储
type PreferenceRepository interface {
	// Load 无快照或快照不可用时返回默认偏好
	Load(ctx context.Context, sessionID string) (Preference, error)
	Save(ctx context.Context, sessionID string, pref Preference) error
}
