package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := defaultLogger
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(New(&buf, level))
	return &buf
}

func TestWithContext_AddsKnownKeys(t *testing.T) {
	buf := capture(t, "")

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, AccountIDKey, "acc-9")
	ctx = context.WithValue(ctx, ServiceKey, "clinicdesk")
	InfoContext(ctx, "hello", "k", "v")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "acc-9", line["account_id"])
	assert.Equal(t, "clinicdesk", line["service"])
	assert.Equal(t, "v", line["k"])
}

func TestDebug_RespectsLevel(t *testing.T) {
	buf := capture(t, "")
	Debug("hidden")
	assert.Empty(t, buf.String())

	buf = capture(t, "debug")
	Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
