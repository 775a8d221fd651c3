package checkpoint

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/borgorg/flax"
	"github.com/borgorg/flax/codec"
)

// Option configures a Checkpointer.
type Option func(*Checkpointer)

// WithCodec configures the codec used for group blobs.
//
// The manifest records the codec name; loads select the codec by name, so
// checkpoints written with a compressing codec remain self-describing.
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *Checkpointer) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger configures structured logging for checkpoint operations.
// Pass nil to disable logging.
func WithLogger(logger *flax.Logger) Option {
	return func(o *Checkpointer) {
		if logger == nil {
			logger = flax.NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for save/load
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc flax.MetricsCollector) Option {
	return func(o *Checkpointer) {
		if mc == nil {
			mc = flax.NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithIOLimit caps group blob throughput at bytesPerSec.
// Zero or negative disables the limit.
func WithIOLimit(bytesPerSec int) Option {
	return func(o *Checkpointer) {
		if bytesPerSec <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = &byteLimiter{
			limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
		}
	}
}

// WithWorkers bounds the number of concurrent group uploads/downloads.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(o *Checkpointer) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// byteLimiter rate-limits byte counts that may exceed the limiter burst.
// A nil byteLimiter never waits.
type byteLimiter struct {
	limiter *rate.Limiter
}

func (b *byteLimiter) wait(ctx context.Context, n int) error {
	if b == nil || b.limiter == nil {
		return nil
	}
	burst := b.limiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := b.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
