package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yukikurage/task-tracker-api/internal/config"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	require.Error(t, err)
}

func TestNew_ConsoleAndJSON(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := New(config.LogConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	require.Equal(t, "req-123", RequestID(ctx))
	require.Empty(t, RequestID(context.Background()))
	require.NotNil(t, FromContext(ctx))
}
