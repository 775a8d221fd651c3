package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/time/rate"
)

func TestByteLimiterNilNeverWaits(t *testing.T) {
	var bl *byteLimiter
	assert.NoError(t, bl.wait(context.Background(), 1<<30))
	assert.NoError(t, (&byteLimiter{}).wait(context.Background(), 1<<30))
}

func TestByteLimiterChunksLargePayloads(t *testing.T) {
	// Payload larger than the burst must be split into burst-sized waits
	// instead of failing rate.WaitN outright.
	bl := &byteLimiter{limiter: rate.NewLimiter(rate.Inf, 8)}
	assert.NoError(t, bl.wait(context.Background(), 100))
}

func TestByteLimiterHonorsCancel(t *testing.T) {
	bl := &byteLimiter{limiter: rate.NewLimiter(1, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, bl.wait(ctx, 10))
}

func TestOptionDefaults(t *testing.T) {
	cp := New(nil,
		WithWorkers(0),
		WithIOLimit(0),
		nil, // nil options are ignored
	)

	assert.Equal(t, 1, cp.workers)
	assert.Nil(t, cp.limiter)
	require.NotNil(t, cp.codec)
	assert.Equal(t, "json", cp.codec.Name())
}
