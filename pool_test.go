package conduit_test

import (
	"testing"
	"time"

	"github.com/fogfactory/conduit"
	"github.com/maxatome/go-testdeep/td"
	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
)

func InitPool(t testing.TB, size int) *conduit.Pool {
	return InitPoolWithOptions(t, size)
}

func InitPoolWithOptions(t testing.TB, size int, opts ...ants.Option) *conduit.Pool {
	pool, err := conduit.NewPool(size, opts...)
	td.Require(t).CmpNoError(err)
	t.Cleanup(pool.Release)
	return pool
}

func TestPool(t *testing.T) {
	inc := func(i, _ /* for compatibility with lo */ int) int {
		i++
		return i
	}

	t.Run("error_negative_size", func(t *testing.T) {
		// Act
		pool, err := conduit.NewPool(-1)

		// Assert
		td.CmpErrorIs(t, err, conduit.ErrInvalidPoolSize)
		td.CmpNil(t, pool)
	})

	t.Run("map_nil_pool", func(t *testing.T) {
		// Arrange
		input := lo.Range(10)

		// Act
		results := conduit.MapBatch(nil, input, func(i int) int { return inc(i, 0) }) // mapped sequentially by the caller

		// Assert
		td.Cmp(t, results, lo.Map(input, inc))
	})

	t.Run("map_empty_pool", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 0)
		input := lo.Range(10)

		// Act
		results := conduit.MapBatch(pool, input, func(i int) int { return inc(i, 0) })

		// Assert
		td.Cmp(t, pool.Cap(), 0, "Shouldn't have any goroutine")
		td.Cmp(t, results, lo.Map(input, inc))
	})

	t.Run("map_pool_size_1", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 1)
		input := lo.Range(10)

		// Act
		results := conduit.MapBatch(pool, input, func(i int) int { return inc(i, 0) })

		// Assert
		td.Cmp(t, pool.Cap(), 1)
		td.Cmp(t, results, lo.Map(input, inc))
	})

	t.Run("map_pool_size_10", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 10)
		input := lo.Range(100)

		// Act
		results := conduit.MapBatch(pool, input, func(i int) int {
			time.Sleep(time.Duration(100-i) * 10 * time.Microsecond) // first items finish last
			return inc(i, 0)
		})

		// Assert
		// Unlike a bag, results are in the order of the batch even if computed in disorder
		td.Cmp(t, results, lo.Map(input, inc))
	})

	t.Run("map_empty_batch", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 2)

		// Act
		results := conduit.MapBatch(pool, []int{}, func(i int) int { return inc(i, 0) })

		// Assert
		td.CmpLen(t, results, 0)
	})

	t.Run("success_concurrent_items", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 2) // 2 goroutines for two items
		topeLa := make(chan bool)
		deadlock := false
		rendezvous := func(i int) int {
			// Arbitrary reconciliation to check that both items are run in separate routines
			select {
			case topeLa <- true:
			case <-topeLa:
			case <-time.After(50 * time.Millisecond):
				deadlock = true
			}
			return i
		}

		// Act
		results := conduit.MapBatch(pool, []int{1, 2}, rendezvous)

		// Assert
		td.Cmp(t, results, []int{1, 2})
		td.CmpFalse(t, deadlock, "Deadlock detected. Items are not run in several goroutines")
	})

	t.Run("success_inline_items", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 0) // items are handled synchronously by the caller
		topeLa := make(chan bool)
		deadlock := false
		rendezvous := func(i int) int {
			// It should dead lock since items are run sequentially
			select {
			case topeLa <- true:
			case <-topeLa:
			case <-time.After(10 * time.Millisecond):
				deadlock = true
			}
			return i
		}

		// Act
		results := conduit.MapBatch(pool, []int{1, 2}, rendezvous)

		// Assert
		td.Cmp(t, results, []int{1, 2})
		td.CmpTrue(t, deadlock, "No deadlock detected. Items are run in several goroutines.")
	})

	t.Run("panic_raised_in_caller", func(t *testing.T) {
		// Arrange
		pool := InitPool(t, 4)
		input := lo.Range(8)

		// Act & Assert
		td.CmpPanic(t, func() {
			conduit.MapBatch(pool, input, func(i int) int {
				if i == 5 {
					panic("boom")
				}
				return i
			})
		}, td.Struct(&conduit.PanicError{Value: "boom"}, td.StructFields{"Stack": td.NotEmpty()}))
	})
}
