package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	globalLogger = New(&buf, Config{Level: "debug", Format: "json"})
	t.Cleanup(func() { globalLogger = nil })

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithSessionID(ctx, "sess-1")
	Info(ctx, "cart updated", "variant_id", "v1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cart updated", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "sess-1", line["session_id"])
	assert.Equal(t, "v1", line["variant_id"])
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "warn", Format: "text"})

	l.Info("dropped")
	assert.Empty(t, buf.String())

	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestIDsOnEmptyContext(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, SessionID(nil)) //nolint:staticcheck
}
