package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/storefront/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

func exerciseStore(t *testing.T, store domain.SnapshotStore) {
	t.Helper()
	ctx := context.Background()
	key := domain.SnapshotKey("s-1", domain.CartStorageName)

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	require.NoError(t, store.Put(ctx, key, []byte(`{"version":1}`)))
	require.NoError(t, store.Put(ctx, key, []byte(`{"version":1,"state":{}}`)))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{}}`, string(got))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(cache.NewFromClient(client), time.Hour)
	exerciseStore(t, store)

	key := domain.SnapshotKey("s-1", domain.CartStorageName)
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(context.Background(), key)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "k", data))
	data[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
