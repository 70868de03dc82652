package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	Currency string `json:"currency"`
}

func TestSnapshotRoundTrip(t *testing.T) {
	data, err := EncodeSnapshot(testState{Currency: "GBP"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"state":{"currency":"GBP"}}`, string(data))

	var got testState
	require.NoError(t, DecodeSnapshot(data, &got))
	assert.Equal(t, "GBP", got.Currency)
}

func TestDecodeSnapshotRejectsUnknownVersion(t *testing.T) {
	var got testState
	err := DecodeSnapshot([]byte(`{"version":2,"state":{"currency":"GBP"}}`), &got)
	assert.ErrorIs(t, err, ErrSnapshotVersion)
	assert.Empty(t, got.Currency)
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	var got testState
	assert.Error(t, DecodeSnapshot([]byte(`not json`), &got))
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "storefront:abc:cart-storage", SnapshotKey("abc", CartStorageName))
}
