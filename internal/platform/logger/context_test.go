package logger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasktrove/taskboard-api/internal/platform/logger"
)

func TestLoggerContext(t *testing.T) {
	t.Parallel()

	stored := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		ctx := logger.WithLogger(context.Background(), stored)
		assert.Same(t, stored, logger.FromContext(ctx))
	})

	t.Run("falls back to default when absent", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, logger.FromContext(context.Background()))
	})

	t.Run("FromContextOrDefault prefers the context logger", func(t *testing.T) {
		t.Parallel()
		fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

		ctx := logger.WithLogger(context.Background(), stored)
		assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})
}
