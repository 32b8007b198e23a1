package conduit

import (
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Source is pulled by the feeder of Run until it returns false, which ends the input for good.
type Source[T any] func() (T, bool)

// Sink receives every output of Run, in order.
type Sink[T any] func(T)

// SliceSource returns a source yielding items in order.
func SliceSource[T any](items []T) Source[T] {
	i := 0
	return func() (T, bool) {
		if i == len(items) {
			var zero T
			return zero, false
		}
		i++
		return items[i-1], true
	}
}

// ChannelSource returns a source draining ch until it is closed.
func ChannelSource[T any](ch <-chan T) Source[T] {
	return func() (T, bool) {
		v, ok := <-ch
		return v, ok
	}
}

// AppendSink returns a sink appending every output to dst.
func AppendSink[T any](dst *[]T) Sink[T] {
	return func(v T) { *dst = append(*dst, v) }
}

// Pipeline is a materialized chain: items sent to In come out of Out, transformed, once every worker handled them.
//
// Closing In stops the workers once they drained their input. Closing Out stops the workers on their next send. In
// both cases, Join returns once every worker exited.
type Pipeline[In, Out any] struct {
	ID      string
	In      *Sender[In]
	Out     *Receiver[Out]
	Workers *Workers
}

// Join waits for every worker of the pipeline, see Workers.Join.
func (p *Pipeline[In, Out]) Join() error {
	return p.Workers.Join()
}

type materializer struct {
	cfg     config
	workers *Workers
	err     error
}

// pool returns the pool of a parallel block and whether the block owns it.
func (m *materializer) pool() (*Pool, bool) {
	if m.cfg.pool != nil {
		return m.cfg.pool, false
	}
	pool, err := NewPool(m.cfg.poolSize, m.cfg.poolOpts...)
	if err != nil {
		// nil maps inline, the pipeline is torn down anyway
		m.err = lo.Ternary(m.err == nil, err, m.err)
		return nil, false
	}
	return pool, true
}

// Pipeline materializes the chain as worker goroutines connected by bounded channels, and returns both ends.
func (c Chain[In, Out]) Pipeline(opts ...Option) (*Pipeline[In, Out], error) {
	if c.err != nil {
		return nil, c.err
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	m := &materializer{
		cfg:     cfg,
		workers: &Workers{logger: cfg.logger.With().Str("pipeline", id).Logger()},
	}
	in, out := c.build(m)
	if m.err != nil {
		in.Close()
		out.Close()
		_ = m.workers.Join()
		return nil, m.err
	}

	m.workers.logger.Debug().Int("workers", m.workers.Len()).Msg("pipeline materialized")
	return &Pipeline[In, Out]{ID: id, In: in, Out: out, Workers: m.workers}, nil
}

// Run materializes the chain, feeds it from source and drains it into sink, each in its own worker goroutine. It
// returns once every worker exited, with the failures of the workers which terminated abnormally.
func (c Chain[In, Out]) Run(source Source[In], sink Sink[Out], opts ...Option) error {
	p, err := c.Pipeline(opts...)
	if err != nil {
		return err
	}

	p.Workers.spawn("feeder", func() {
		defer p.In.Close()
		for {
			v, ok := source()
			if !ok || !p.In.Send(v) {
				return
			}
		}
	})
	p.Workers.spawn("drainer", func() {
		defer p.Out.Close()
		for v := range p.Out.All() {
			sink(v)
		}
	})

	err = p.Join()
	if err != nil {
		p.Workers.logger.Error().Err(err).Msg("pipeline failed")
		return err
	}
	p.Workers.logger.Debug().Msg("pipeline done")
	return nil
}
