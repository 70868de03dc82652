package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

type countingCatalog struct {
	listCalls   int
	handleCalls int
}

func (c *countingCatalog) FetchProducts(_ context.Context, limit int) ([]domain.Product, error) {
	c.listCalls++
	out := make([]domain.Product, 0, limit)
	for range limit {
		out = append(out, domain.Product{
			Handle:   "hydra-plus",
			MinPrice: domain.Price{Amount: decimal.RequireFromString("19.99"), CurrencyCode: "EUR"},
		})
	}
	return out, nil
}

func (c *countingCatalog) FetchProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	c.handleCalls++
	if handle != "hydra-plus" {
		return nil, domain.ErrProductNotFound
	}
	return &domain.Product{Handle: handle, Title: "Hydra+"}, nil
}

func newStore(t *testing.T) (*miniredis.Miniredis, *cache.RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewFromClient(client)
}

func TestCachedCatalogFetchProducts(t *testing.T) {
	ctx := context.Background()
	mr, store := newStore(t)
	origin := &countingCatalog{}
	c := NewCachedCatalog(origin, store, time.Minute)

	first, err := c.FetchProducts(ctx, 2)
	require.NoError(t, err)
	second, err := c.FetchProducts(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, origin.listCalls)
	require.Len(t, second, 2)
	assert.True(t, first[0].MinPrice.Amount.Equal(second[0].MinPrice.Amount))

	mr.FastForward(2 * time.Minute)
	_, err = c.FetchProducts(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, origin.listCalls)
}

func TestCachedCatalogNotFoundIsNotCached(t *testing.T) {
	ctx := context.Background()
	_, store := newStore(t)
	origin := &countingCatalog{}
	c := NewCachedCatalog(origin, store, time.Minute)

	_, err := c.FetchProductByHandle(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = c.FetchProductByHandle(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 2, origin.handleCalls)

	p, err := c.FetchProductByHandle(ctx, "hydra-plus")
	require.NoError(t, err)
	_, err = c.FetchProductByHandle(ctx, "hydra-plus")
	require.NoError(t, err)
	assert.Equal(t, "Hydra+", p.Title)
	assert.Equal(t, 3, origin.handleCalls)
}

func TestCachedCatalogFallsBackWhenRedisDown(t *testing.T) {
	mr, store := newStore(t)
	origin := &countingCatalog{}
	c := NewCachedCatalog(origin, store, time.Minute)
	mr.Close()

	products, err := c.FetchProducts(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
