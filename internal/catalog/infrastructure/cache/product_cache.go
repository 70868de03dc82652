// Package cache 为商品目录提供 Redis 读穿缓存
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// JSONStore 缓存读写
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
}

// CachedCatalog 缓存商品列表和商品详情，缓存故障时直接回源
type CachedCatalog struct {
	next   domain.ProductCatalog
	store  JSONStore
	ttl    time.Duration
	prefix string
}

// NewCachedCatalog 创建带缓存的商品目录
func NewCachedCatalog(next domain.ProductCatalog, store JSONStore, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, store: store, ttl: ttl, prefix: "storefront:catalog"}
}

// FetchProducts 读穿缓存获取商品列表
func (c *CachedCatalog) FetchProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	key := fmt.Sprintf("%s:products:%d", c.prefix, limit)

	var products []domain.Product
	if c.lookup(ctx, key, &products) {
		return products, nil
	}

	products, err := c.next.FetchProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, key, products)
	return products, nil
}

// FetchProductByHandle 读穿缓存获取商品；不存在的结果不缓存
func (c *CachedCatalog) FetchProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	key := fmt.Sprintf("%s:product:%s", c.prefix, handle)

	var product domain.Product
	if c.lookup(ctx, key, &product) {
		return &product, nil
	}

	p, err := c.next.FetchProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, key, p)
	return p, nil
}

func (c *CachedCatalog) lookup(ctx context.Context, key string, dest any) bool {
	err := c.store.GetJSON(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warn(ctx, "catalog cache read failed", "key", key, "error", err)
	}
	return false
}

func (c *CachedCatalog) fill(ctx context.Context, key string, value any) {
	if err := c.store.SetJSON(ctx, key, value, c.ttl); err != nil {
		logger.Warn(ctx, "catalog cache write failed", "key", key, "error", err)
	}
}
