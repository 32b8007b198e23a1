/*
conduit describes a chain of pure transformations once and runs it with one of three strategies.

  - Func composes every step into a single function.
  - Map applies the steps lazily over an iter.Seq, one element at a time.
  - Pipeline and Run spawn one goroutine per step connected by bounded channels.

All three produce the same output, in the same order, for the same input.

A chain is built step by step, each step returning a new typed chain:

	chain := conduit.Step(conduit.New[int](), func(x int) int { return x + 10 })
	chain2 := conduit.Step(chain, strconv.Itoa)

Steps can be fused to trade goroutines for fewer channel hops:

- Block runs a whole sub-chain in a single goroutine.
- ParBlock groups items in batches of a fixed size and maps every batch on a goroutine pool (ants). It costs three
goroutines (chunker, mapper, flattener) and keeps the input order.

Every channel has the same small capacity (QueueSize by default, see WithQueueSize), so a slow consumer stalls the whole
pipeline instead of growing memory. There is no cancellation token: closing the entry Sender (or exhausting the Source)
drains and stops every worker downstream, and closing the exit Receiver (or a sink panicking) stops every worker
upstream on its next send.

A panic in a transform is not recovered by the chain. It terminates the worker that ran it, cascades the shutdown in
both directions, and is reported by Workers.Join (and Run) as a *PanicError. Output already delivered to the sink
stands.
*/

package conduit
