package conduit

import "iter"

// Chain is a typed sequence of transformations from In to Out. A Chain is immutable: every builder returns a new one,
// and it can be materialized any number of times.
//
// Chains must start from New: the zero value is not a valid chain.
type Chain[In, Out any] struct {
	fn    func(In) Out
	seq   func(iter.Seq[In]) iter.Seq[Out]
	build func(*materializer) (*Sender[In], *Receiver[Out])
	err   error
}

// New returns the empty chain, which outputs its input untouched.
func New[T any]() Chain[T, T] {
	return Chain[T, T]{
		fn:  func(v T) T { return v },
		seq: func(s iter.Seq[T]) iter.Seq[T] { return s },
		build: func(m *materializer) (*Sender[T], *Receiver[T]) {
			return newChannel[T](m.cfg.queueSize)
		},
	}
}

// Step appends f to c. In a pipeline, f runs in its own worker goroutine.
func Step[A, B, C any](c Chain[A, B], f func(B) C) Chain[A, C] {
	return Chain[A, C]{
		fn: func(v A) C { return f(c.fn(v)) },
		seq: func(s iter.Seq[A]) iter.Seq[C] {
			return mapSeq(c.seq(s), f)
		},
		build: func(m *materializer) (*Sender[A], *Receiver[C]) {
			in, up := c.build(m)
			down, out := newChannel[C](m.cfg.queueSize)
			m.workers.spawn("step", func() { transform(up, down, f) })
			return in, out
		},
		err: c.err,
	}
}

// Func returns the chain composed as a single function.
func (c Chain[In, Out]) Func() func(In) Out {
	return c.fn
}

// Map returns a sequence applying the chain lazily to s: each element goes through every step before the next one
// is pulled.
func (c Chain[In, Out]) Map(s iter.Seq[In]) iter.Seq[Out] {
	return c.seq(s)
}

// Err returns the error of an invalid chain, such as a parallel block with a chunk size lower than 1. Pipeline and Run
// return it.
func (c Chain[In, Out]) Err() error {
	return c.err
}

func mapSeq[In, Out any](s iter.Seq[In], f func(In) Out) iter.Seq[Out] {
	return func(yield func(Out) bool) {
		for v := range s {
			if !yield(f(v)) {
				return
			}
		}
	}
}

// transform is the loop of a step worker.
func transform[In, Out any](in *Receiver[In], out *Sender[Out], f func(In) Out) {
	defer out.Close()
	defer in.Close()
	for v := range in.All() {
		if !out.Send(f(v)) {
			return
		}
	}
}
