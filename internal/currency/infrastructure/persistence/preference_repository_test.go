package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/currency/domain"
	sfdomain "github.com/wyfcoding/storefront/internal/storefront/domain"
	"github.com/wyfcoding/storefront/internal/storefront/infrastructure/persistence"
)

func TestPreferenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	repo := NewPreferenceRepository(store)

	pref, err := repo.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EUR, pref.Currency)

	require.NoError(t, repo.Save(ctx, "s-1", domain.Preference{Currency: domain.CAD}))
	pref, err = repo.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.CAD, pref.Currency)

	raw, err := store.Get(ctx, "storefront:s-1:currency-preference")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{"currency":"CAD"}}`, string(raw))
}

func TestPreferenceIgnoresUnknownVersion(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	key := sfdomain.SnapshotKey("s-1", sfdomain.CurrencyPreferenceName)
	require.NoError(t, store.Put(ctx, key, []byte(`{"version":7,"state":{"currency":"GBP"}}`)))

	pref, err := NewPreferenceRepository(store).Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EUR, pref.Currency)
}

func TestPreferenceNormalizesUnknownCode(t *testing.T) {
	ctx := context.Background()
	store := persistence.NewMemoryStore()
	key := sfdomain.SnapshotKey("s-1", sfdomain.CurrencyPreferenceName)
	require.NoError(t, store.Put(ctx, key, []byte(`{"version":1,"state":{"currency":"JPY"}}`)))

	pref, err := NewPreferenceRepository(store).Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, domain.EUR, pref.Currency)
}
