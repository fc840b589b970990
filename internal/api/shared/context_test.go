package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx), "Expected empty trace ID in original context")

	ctxWithTrace := SetTraceID(ctx)
	traceID := GetTraceID(ctxWithTrace)
	assert.Len(t, traceID, 32, "Expected trace ID length to be 32 hex characters (16 bytes)")
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err, "trace ID should be hex")

	assert.Empty(t, GetTraceID(ctx), "Expected original context to remain unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestTraceIDUniqueness(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GetTraceID(SetTraceID(context.Background()))
		require.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestFallbackTraceID(t *testing.T) {
	t.Parallel()
	id := generateFallbackTraceID()
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
}

func TestUserIDContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ctx    context.Context
		wantOK bool
	}{
		{"missing", context.Background(), false},
		{"nil uuid", WithUserID(context.Background(), uuid.Nil), false},
		{"wrong type", context.WithValue(context.Background(), UserIDContextKey, "abc"), false},
		{"present", WithUserID(context.Background(), uuid.MustParse("7b0d1c39-6a63-4d8a-9f1e-0c2f7f5fb0a1")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := UserIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, uuid.Nil, id)
			}
		})
	}
}
