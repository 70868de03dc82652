package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/storefront/internal/storefront/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

// RedisStore 基于 Redis 的快照存储
type RedisStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisStore ttl 为 0 表示不过期
func NewRedisStore(c *cache.RedisCache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

// Get 读取快照
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return nil, domain.ErrSnapshotNotFound
	}
	return data, err
}

// Put 写入快照并刷新过期时间
func (s *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	return s.cache.Set(ctx, key, data, s.ttl)
}
