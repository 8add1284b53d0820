package shared_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasktrove/taskboard-api/internal/api/shared"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := shared.SetTraceID(context.Background())
		traceID := shared.GetTraceID(ctx)
		assert.Len(t, traceID, shared.TraceIDLength*2)
	})

	t.Run("missing trace ID yields empty string", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, shared.GetTraceID(context.Background()))
	})

	t.Run("ids are unique", func(t *testing.T) {
		t.Parallel()
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := shared.GetTraceID(shared.SetTraceID(context.Background()))
			assert.False(t, seen[id], "trace ID repeated: %s", id)
			seen[id] = true
		}
	})
}
