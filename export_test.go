package conduit

import "slices"

// NewChannel exposes the channel constructor used between workers.
func NewChannel[T any](size int) (*Sender[T], *Receiver[T]) {
	return newChannel[T](size)
}

// MapBatch exposes the data-parallel mapping of a parallel block.
func MapBatch[In, Out any](p *Pool, batch []In, fn func(In) Out) []Out {
	return mapBatch(p, batch, fn)
}

// Chunks runs the chunker of a parallel block over items and returns the batches it sent.
func Chunks[T any](items []T, size int) [][]T {
	in, up := newChannel[T](QueueSize)
	down, out := newChannel[[]T](QueueSize)
	go func() {
		defer in.Close()
		for _, v := range items {
			in.Send(v)
		}
	}()
	go chunk(up, down, size)
	return slices.Collect(out.All())
}
