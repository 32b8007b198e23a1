package conduit

import (
	"errors"
	"fmt"
	"iter"
)

// Block fuses sub into a single worker goroutine appended to c, whatever the number of steps of sub. The steps of sub
// are applied lazily in sequence, as Map does.
func Block[A, B, C any](c Chain[A, B], sub Chain[B, C]) Chain[A, C] {
	return Chain[A, C]{
		fn: func(v A) C { return sub.fn(c.fn(v)) },
		seq: func(s iter.Seq[A]) iter.Seq[C] {
			return sub.seq(c.seq(s))
		},
		build: func(m *materializer) (*Sender[A], *Receiver[C]) {
			in, up := c.build(m)
			down, out := newChannel[C](m.cfg.queueSize)
			m.workers.spawn("block", func() { fuse(up, down, sub.seq) })
			return in, out
		},
		err: errors.Join(c.err, sub.err),
	}
}

// ParBlock fuses sub into a single function appended to c, and maps it on batches of chunkSize items with a goroutine
// pool. It costs three worker goroutines (chunker, mapper and flattener) and keeps the order of the items.
//
// A chunkSize lower than 1 makes the chain invalid, see Chain.Err.
func ParBlock[A, B, C any](c Chain[A, B], chunkSize int, sub Chain[B, C]) Chain[A, C] {
	err := errors.Join(c.err, sub.err)
	if chunkSize < 1 {
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize))
	}
	return Chain[A, C]{
		fn: func(v A) C { return sub.fn(c.fn(v)) },
		seq: func(s iter.Seq[A]) iter.Seq[C] {
			return sub.seq(c.seq(s))
		},
		build: func(m *materializer) (*Sender[A], *Receiver[C]) {
			in, up := c.build(m)
			batchW, batchR := newChannel[[]B](m.cfg.queueSize)
			mappedW, mappedR := newChannel[[]C](m.cfg.queueSize)
			down, out := newChannel[C](m.cfg.queueSize)
			pool, owned := m.pool()
			fn := sub.fn

			m.workers.spawn("chunker", func() { chunk(up, batchW, chunkSize) })
			m.workers.spawn("mapper", func() {
				if owned {
					defer pool.Release()
				}
				mapBatches(batchR, mappedW, pool, fn)
			})
			m.workers.spawn("flattener", func() { flatten(mappedR, down) })
			return in, out
		},
		err: err,
	}
}

// fuse is the loop of a block worker.
func fuse[In, Out any](in *Receiver[In], out *Sender[Out], seq func(iter.Seq[In]) iter.Seq[Out]) {
	defer out.Close()
	defer in.Close()
	for v := range seq(in.All()) {
		if !out.Send(v) {
			return
		}
	}
}

// maxPrealloc bounds the capacity reserved for a batch before its items are received.
const maxPrealloc = 1024

// chunk groups consecutive items in batches of size items. The last batch may be shorter, but is never empty.
func chunk[T any](in *Receiver[T], out *Sender[[]T], size int) {
	defer out.Close()
	defer in.Close()
	batch := make([]T, 0, min(size, maxPrealloc))
	for v := range in.All() {
		batch = append(batch, v)
		if len(batch) < size {
			continue
		}
		if !out.Send(batch) {
			return
		}
		batch = make([]T, 0, min(size, maxPrealloc))
	}
	if len(batch) > 0 {
		out.Send(batch)
	}
}

func mapBatches[In, Out any](in *Receiver[[]In], out *Sender[[]Out], pool *Pool, fn func(In) Out) {
	defer out.Close()
	defer in.Close()
	for batch := range in.All() {
		if !out.Send(mapBatch(pool, batch, fn)) {
			return
		}
	}
}

func flatten[T any](in *Receiver[[]T], out *Sender[T]) {
	defer out.Close()
	defer in.Close()
	for batch := range in.All() {
		for _, v := range batch {
			if !out.Send(v) {
				return
			}
		}
	}
}
