// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pipe provides a bounded asynchronous event pipe.
//
// A pipe is a fixed-capacity FIFO buffer that decouples producers and
// consumers running at different rates. Unlike the non-blocking queues
// of [code.hybscloud.com/lfq], pipe operations that cannot proceed
// immediately suspend the caller as a pending request, bounded by a
// per-call deadline, and resume it from whichever side completes the
// request first.
//
// # Quick Start
//
//	p := pipe.New[string](8)
//
//	// Produce, waiting up to one second for a free slot
//	if err := p.Produce("event", time.Second); err != nil {
//	    // pipe.ErrTimeout, pipe.ErrClosed, ...
//	}
//
//	// Consume, waiting up to one second for an event
//	v, ok, err := p.Consume(time.Second)
//	if err != nil {
//	    // pipe.ErrTimeout, ...
//	}
//	if !ok {
//	    // end of pipe: closed and drained
//	}
//
// # Timeouts
//
// Every blocking operation takes a deadline:
//
//   - InfiniteWait: no deadline; the request waits until a complementary
//     operation completes it
//   - 0: immediate deadline; a request that cannot complete on the fast
//     path fails with ErrTimeout right away
//   - > 0: time to wait before ErrTimeout
//
// Any other negative duration is rejected with ErrInvalidTimeout before
// the operation touches pipe state. Seconds converts a decimal second
// count (the wire convention of pipe-facing APIs) with truncation toward
// zero at millisecond resolution.
//
// A deadline and a wakeup can race for the same pending request. The
// request completes exactly once: both paths attempt the same
// pending→completed transition, the loser cleans up its registration
// and signals nothing. A produce that already enqueued its event is
// complete — no later timeout reverts it.
//
// # Non-Blocking Boundary
//
// TryProduce and TryConsume never suspend. They return
// [code.hybscloud.com/iox.ErrWouldBlock] when the buffer is full or
// empty, for callers that schedule their own retries:
//
//	backoff := iox.Backoff{}
//	for pipe.IsWouldBlock(p.TryProduce(ev)) {
//	    backoff.Wait()
//	}
//
// # Close Modes
//
// Close releases the buffer instantly; queued events are lost by design.
// CloseGraceful(timeout) waits — up to a finite, mandatory bound — for
// consumers to drain the buffer, then performs the residual discard; it
// completes successfully in both the drained and the deadline-forced
// case. Second closes of either kind fail with ErrAlreadyClosed.
//
// Closing is not an error condition for consumers: once the buffer is
// released, Consume returns (zero, false, nil) — the end-of-pipe signal.
// Producers get ErrClosed.
//
// Two behaviors are inherited deliberately from the pipe's lineage:
//
//   - Close does not complete requests that are already pending; they
//     resolve via their own deadline, or wait indefinitely if armed with
//     InfiniteWait.
//   - Graceful-close drain is observed by a later consume finding the
//     buffer empty, not signaled at the moment the last event leaves.
//     With no further consume, graceful close resolves at its deadline.
//
// # Streaming
//
// Events adapts the pipe to a single-use iterator:
//
//	for v, err := range p.Events(time.Second) {
//	    if err != nil {
//	        // first error ends the sequence
//	        break
//	    }
//	    handle(v)
//	}
//
// The sequence ends cleanly at end-of-pipe and is not restartable.
//
// # Conversion
//
// The pipe buffers events opaquely. ConsumeAs applies a caller-supplied
// conversion at the boundary; a failing conversion reports *ConvertError
// and still consumes the slot:
//
//	p := pipe.New[any](8)
//	n, ok, err := pipe.ConsumeAs(p, time.Second, pipe.As[int])
//
// # Concurrency
//
// All operations are safe for arbitrary concurrent use. The produce side
// and the consume side are serialized independently and proceed
// concurrently with each other; the buffer, its size counter, and the
// wait registries are the only shared state, mutated in O(1) critical
// sections. At most one waiter is released per slot-change event, in
// FIFO registration order (not an external guarantee).
//
// # Error Handling
//
// Sentinel errors compose with errors.Is: ErrNilEvent, ErrClosed,
// ErrAlreadyClosed, ErrTimeout, ErrInvalidTimeout, and the
// [code.hybscloud.com/iox]-sourced ErrWouldBlock. Conversion failures
// wrap their cause in *ConvertError. No error is fatal to the pipe:
// after any single failure the pipe remains usable, or correctly stays
// closed.
//
// # Race Detection
//
// The pipe's hot state uses [code.hybscloud.com/atomix] primitives with
// explicit memory orderings. Go's race detector cannot observe
// happens-before established through them and reports false positives
// on concurrent use; concurrent tests are skipped under the detector
// via RaceEnabled.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package pipe
