package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/recall-api/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "bogus"} {
		log, err := Setup(config.ServerConfig{LogLevel: level})
		require.NoError(t, err, "level %q", level)
		assert.NotNil(t, log)
	}
}

func TestSetupLevelThresholds(t *testing.T) {
	log, err := Setup(config.ServerConfig{LogLevel: "warn"})
	require.NoError(t, err)

	ctx := context.Background()
	assert.False(t, log.Enabled(ctx, slog.LevelInfo))
	assert.True(t, log.Enabled(ctx, slog.LevelWarn))
}

func TestWithLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	custom := slog.Default().With(slog.String("scope", "test"))
	ctx := WithLogger(context.Background(), custom)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, custom, got)
}

func TestWithLoggerPanicsOnNil(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		WithLogger(context.Background(), nil)
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.Default().With(slog.String("scope", "fallback"))

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContextOrDefault(context.Background(), nil))

	custom := slog.Default().With(slog.String("scope", "custom"))
	ctx := WithLogger(context.Background(), custom)
	assert.Same(t, custom, FromContextOrDefault(ctx, fallback))
}
