package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/memocache/internal/logging"
)

func TestContextWithTraceID(t *testing.T) {
	t.Parallel()

	ctx := logging.ContextWithTraceID(context.Background(), "trace-123")
	assert.Equal(t, "trace-123", logging.TraceIDFromContext(ctx))
}

func TestTraceIDFromContext_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, logging.TraceIDFromContext(context.Background()))
}

func TestGetOrGenerateTraceID(t *testing.T) {
	t.Parallel()

	t.Run("preserves existing", func(t *testing.T) {
		t.Parallel()

		ctx := logging.ContextWithTraceID(context.Background(), "existing-id")
		assert.Equal(t, "existing-id", logging.GetOrGenerateTraceID(ctx))
	})

	t.Run("generates ULID when missing", func(t *testing.T) {
		t.Parallel()

		id := logging.GetOrGenerateTraceID(context.Background())
		assert.Len(t, id, 26, "ULIDs encode to 26 characters")

		other := logging.GetOrGenerateTraceID(context.Background())
		assert.NotEqual(t, id, other, "each call should mint a fresh ID")
	})
}
