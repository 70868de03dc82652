// Package persistence 提供快照存储的 memory、redis、mysql 实现
package persistence

import (
	"context"
	"slices"
	"sync"

	"github.com/wyfcoding/storefront/internal/storefront/domain"
)

// MemoryStore 进程内快照存储，用于本地开发和测试
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get 读取快照
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return slices.Clone(v), nil
}

// Put 写入快照
func (s *MemoryStore) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(data)
	return nil
}
