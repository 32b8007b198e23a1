package conduit

import (
	"fmt"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// Option configures a materialization of a chain (Pipeline or Run).
type Option func(*config)

type config struct {
	queueSize int
	poolSize  int
	poolOpts  []ants.Option
	pool      *Pool
	logger    zerolog.Logger
}

// WithQueueSize sets the capacity of every channel of the pipeline. Defaults to QueueSize.
func WithQueueSize(size int) Option {
	return func(c *config) { c.queueSize = size }
}

// WithPoolSize sets the number of goroutines of the pool owned by each parallel block. Defaults to GOMAXPROCS.
//
// A size of 0 maps each batch inline, in the mapper goroutine.
func WithPoolSize(size int) Option {
	return func(c *config) { c.poolSize = size }
}

// WithPoolOptions adds options to the pools owned by parallel blocks.
func WithPoolOptions(opts ...ants.Option) Option {
	return func(c *config) { c.poolOpts = append(c.poolOpts, opts...) }
}

// WithPool shares p between every parallel block instead of creating one pool per block. p is not released by the
// pipeline.
func WithPool(p *Pool) Option {
	return func(c *config) { c.pool = p }
}

// WithLogger sets the logger of the workers. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func newConfig(opts []Option) (config, error) {
	cfg := config{
		queueSize: QueueSize,
		poolSize:  runtime.GOMAXPROCS(0),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.queueSize < 1 {
		return cfg, fmt.Errorf("%w: %d", ErrInvalidQueueSize, cfg.queueSize)
	}
	if cfg.poolSize < 0 {
		return cfg, fmt.Errorf("%w: %d", ErrInvalidPoolSize, cfg.poolSize)
	}
	return cfg, nil
}
