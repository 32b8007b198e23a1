package conduit

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
)

// Pool bounds the number of goroutines mapping the batches of parallel blocks.
type Pool struct {
	pool *ants.Pool
}

// NewPool builds a pool of size goroutines.
//
// A size of 0 yields a pool without goroutine: batches are mapped sequentially in the routine submitting them.
func NewPool(size int, opts ...ants.Option) (*Pool, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoolSize, size)
	}
	if size == 0 {
		return &Pool{}, nil
	}
	pool, err := ants.NewPool(size, opts...)
	if err != nil {
		return nil, err
	}
	return &Pool{pool: pool}, nil
}

// Release releases the underlying goroutines.
func (p *Pool) Release() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Release()
}

// Cap returns the number of goroutines of the pool, 0 when batches are mapped inline.
func (p *Pool) Cap() int {
	if p == nil || p.pool == nil {
		return 0
	}
	return p.pool.Cap()
}

// submit submits a task to the pool. Without goroutine, it runs the task in the current routine.
func (p *Pool) submit(f func()) {
	if p == nil || p.pool == nil {
		f()
		return
	}
	if err := p.pool.Submit(f); err != nil {
		// only happens with a non blocking or released pool, the mapper worker terminates with it
		panic(err)
	}
}

// mapBatch applies fn to every item of batch on the pool, and returns the results at the index of their item.
//
// A panic in fn is raised again in the calling routine once every item is done.
func mapBatch[In, Out any](p *Pool, batch []In, fn func(In) Out) []Out {
	if p == nil || p.pool == nil {
		return lo.Map(batch, func(v In, _ int) Out { return fn(v) })
	}

	out := make([]Out, len(batch))
	var (
		wg    sync.WaitGroup
		fault atomic.Pointer[PanicError]
	)
	for i, v := range batch {
		wg.Add(1)
		p.submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					fault.CompareAndSwap(nil, newPanicError("", r))
				}
			}()
			out[i] = fn(v)
		})
	}
	wg.Wait()

	if pe := fault.Load(); pe != nil {
		panic(pe)
	}
	return out
}
