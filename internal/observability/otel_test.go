package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Settings{ServiceName: "till"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	// exporters connect lazily, so setup succeeds without a collector
	shutdown, err := Setup(context.Background(), Settings{
		ServiceName:    "till",
		ServiceVersion: "test",
		Endpoint:       "127.0.0.1:4318",
		Insecure:       true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
	assert.NoError(t, shutdown(context.Background()), "second shutdown has nothing left to flush")
}
