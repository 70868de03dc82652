// Package domain 定义会话状态的持久化快照
package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound 快照不存在
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrSnapshotVersion 快照版本不受支持
	ErrSnapshotVersion = errors.New("unsupported snapshot version")
)

// SnapshotVersion 当前快照格式版本
const SnapshotVersion = 1

// 快照名称
const (
	CurrencyPreferenceName = "currency-preference"
	CartStorageName        = "cart-storage"
)

// SnapshotKey 会话快照的存储键
func SnapshotKey(sessionID, name string) string {
	return "storefront:" + sessionID + ":" + name
}

// SnapshotStore 快照键值存储，后写覆盖先写
type SnapshotStore interface {
	// Get 不存在时返回 ErrSnapshotNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Envelope 持久化外层结构
type Envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// EncodeSnapshot 以当前版本包装状态
func EncodeSnapshot(state any) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot state: %w", err)
	}
	return json.Marshal(Envelope{Version: SnapshotVersion, State: raw})
}

// DecodeSnapshot 解包快照；版本不匹配返回 ErrSnapshotVersion
func DecodeSnapshot(data []byte, dest any) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode snapshot envelope: %w", err)
	}
	if env.Version != SnapshotVersion {
		return fmt.Errorf("%w: %d", ErrSnapshotVersion, env.Version)
	}
	if err := json.Unmarshal(env.State, dest); err != nil {
		return fmt.Errorf("decode snapshot state: %w", err)
	}
	return nil
}
