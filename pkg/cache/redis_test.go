package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFromClient(client), mr
}

func TestJSONRoundTrip(t *testing.T) {
	rc, _ := newTestCache(t)
	ctx := context.Background()

	type pref struct {
		Currency string `json:"currency"`
	}
	require.NoError(t, rc.SetJSON(ctx, "k", pref{Currency: "GBP"}, 0))

	var got pref
	require.NoError(t, rc.GetJSON(ctx, "k", &got))
	assert.Equal(t, "GBP", got.Currency)
}

func TestGetMiss(t *testing.T) {
	rc, _ := newTestCache(t)

	_, err := rc.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSetExpiration(t *testing.T) {
	rc, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "k", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := rc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestDelete(t *testing.T) {
	rc, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, rc.Delete(ctx, "a"))
	require.NoError(t, rc.Delete(ctx))

	_, err := rc.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)
}
