package conduit

import (
	"iter"
	"sync"
)

// QueueSize is the default capacity of every channel of a pipeline: each hop is a rendezvous with one slot.
const QueueSize = 1

// hop is the state shared by the two ends of a channel.
type hop[T any] struct {
	items chan T
	gone  chan struct{} // closed once the receiver is dropped
}

// Sender is the write end of a pipeline channel. It has exactly one writer.
type Sender[T any] struct {
	hop  *hop[T]
	once sync.Once
}

// Receiver is the read end of a pipeline channel. It has exactly one reader.
type Receiver[T any] struct {
	hop  *hop[T]
	once sync.Once
}

func newChannel[T any](size int) (*Sender[T], *Receiver[T]) {
	h := &hop[T]{
		items: make(chan T, size),
		gone:  make(chan struct{}),
	}
	return &Sender[T]{hop: h}, &Receiver[T]{hop: h}
}

// Send blocks until v is queued or the receiver is closed. It returns false when nobody reads anymore, which is the
// signal for the caller to stop working. Send must not be called after Close.
func (s *Sender[T]) Send(v T) bool {
	select {
	case <-s.hop.gone:
		return false
	default:
	}
	select {
	case s.hop.items <- v:
		return true
	case <-s.hop.gone:
		return false
	}
}

// Close closes the write end. Queued items are still delivered to the receiver before it observes the closure.
func (s *Sender[T]) Close() {
	s.once.Do(func() { close(s.hop.items) })
}

// Recv blocks until an item is available. ok is false once the sender is closed and every queued item was received.
func (r *Receiver[T]) Recv() (v T, ok bool) {
	v, ok = <-r.hop.items
	return v, ok
}

// All adapts the receiver into a pull-based sequence, which ends when the sender is closed.
func (r *Receiver[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range r.hop.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Close drops the read end: pending and future sends fail.
func (r *Receiver[T]) Close() {
	r.once.Do(func() { close(r.hop.gone) })
}

// Cap returns the capacity of the channel.
func (r *Receiver[T]) Cap() int {
	return cap(r.hop.items)
}
