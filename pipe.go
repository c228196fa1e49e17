// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// Pipe is a bounded FIFO buffer connecting producers and consumers that
// run at different rates. Operations that cannot proceed immediately
// (full buffer on produce, empty buffer on consume) suspend the calling
// goroutine as a pending request until a complementary operation or the
// request's deadline completes it — each request receives exactly one
// terminal notification.
//
// All methods are safe for concurrent use.
type Pipe[T any] struct {
	capacity int

	produceMu sync.Mutex // serializes the produce side
	consumeMu sync.Mutex // serializes the consume side

	// state guards buf, size, the registries, and waiter membership.
	state spinLock
	buf   *ring[T]
	size  atomix.Int64

	closed    atomix.Uint64 // monotonic 0→1
	discarded atomix.Bool   // buffer released; consumers see end-of-pipe

	spaceWaiters registry[T] // producers blocked on a full buffer
	itemWaiters  registry[T] // consumers blocked on an empty buffer
	drainWaiters registry[T] // graceful close waiting for drain
	timeouts     registry[T] // requests with an armed deadline
}

// New creates a pipe with the given fixed capacity.
// Panics if capacity < 1.
func New[T any](capacity int) *Pipe[T] {
	if capacity < 1 {
		panic("pipe: capacity must be >= 1")
	}
	return &Pipe[T]{
		capacity: capacity,
		buf:      newRing[T](capacity),
	}
}

// Cap returns the pipe's fixed capacity.
func (p *Pipe[T]) Cap() int {
	return p.capacity
}

// Len returns the number of buffered events.
// Always in [0, Cap].
func (p *Pipe[T]) Len() int {
	return int(p.size.Load())
}

// IsClosed reports whether the pipe has been closed in either mode.
func (p *Pipe[T]) IsClosed() bool {
	return p.closed.LoadAcquire() != 0
}

// Produce appends ev to the pipe, waiting up to timeout for a free slot.
//
// With room in the buffer it completes immediately and wakes one blocked
// consumer, if any. On a full buffer the call suspends until a consume
// frees a slot or the deadline elapses (ErrTimeout). InfiniteWait
// suspends until a slot frees, however long that takes.
//
// Returns ErrInvalidTimeout, ErrNilEvent, or ErrClosed synchronously.
func (p *Pipe[T]) Produce(ev T, timeout time.Duration) error {
	if err := checkTimeout(timeout); err != nil {
		return err
	}
	if any(ev) == nil {
		return ErrNilEvent
	}
	if p.closed.LoadAcquire() != 0 {
		return ErrClosed
	}

	p.produceMu.Lock()
	p.state.Lock()
	// Revalidated under the lock: a close that lands after the unlocked
	// check must not gain an event in a released buffer.
	if p.closed.LoadAcquire() != 0 {
		p.state.Unlock()
		p.produceMu.Unlock()
		return ErrClosed
	}
	if p.buf.count < p.capacity {
		p.pushLocked(ev)
		p.wakeConsumerLocked()
		p.state.Unlock()
		p.produceMu.Unlock()
		return nil
	}
	w := newWaiter[T]()
	w.ev = ev
	w.waitReg = &p.spaceWaiters
	w.waitElem = p.spaceWaiters.add(w)
	p.arm(w, timeout)
	p.state.Unlock()
	p.produceMu.Unlock()

	r := <-w.done
	return r.err
}

// TryProduce appends ev without waiting.
// Returns ErrWouldBlock if the buffer is full.
func (p *Pipe[T]) TryProduce(ev T) error {
	if any(ev) == nil {
		return ErrNilEvent
	}
	if p.closed.LoadAcquire() != 0 {
		return ErrClosed
	}

	p.produceMu.Lock()
	p.state.Lock()
	if p.closed.LoadAcquire() != 0 {
		p.state.Unlock()
		p.produceMu.Unlock()
		return ErrClosed
	}
	if p.buf.count >= p.capacity {
		p.state.Unlock()
		p.produceMu.Unlock()
		return ErrWouldBlock
	}
	p.pushLocked(ev)
	p.wakeConsumerLocked()
	p.state.Unlock()
	p.produceMu.Unlock()
	return nil
}

// Consume removes and returns the head event, waiting up to timeout for
// one to arrive.
//
// Returns (v, true, nil) on success and (zero, false, nil) once the pipe
// is closed and its buffer released — end-of-pipe is the drain-completion
// signal, not an error. On an empty buffer the call suspends until a
// produce supplies an event or the deadline elapses (ErrTimeout).
//
// A consume that observes an empty buffer also notifies a pending
// graceful close that drain is complete.
func (p *Pipe[T]) Consume(timeout time.Duration) (T, bool, error) {
	var zero T
	if err := checkTimeout(timeout); err != nil {
		return zero, false, err
	}

	p.consumeMu.Lock()
	p.state.Lock()
	if p.discarded.LoadAcquire() {
		p.state.Unlock()
		p.consumeMu.Unlock()
		return zero, false, nil
	}
	if p.buf.count > 0 {
		v := p.popLocked()
		p.wakeProducerLocked()
		p.state.Unlock()
		p.consumeMu.Unlock()
		return v, true, nil
	}
	p.notifyDrainLocked()
	w := newWaiter[T]()
	w.waitReg = &p.itemWaiters
	w.waitElem = p.itemWaiters.add(w)
	p.arm(w, timeout)
	p.state.Unlock()
	p.consumeMu.Unlock()

	r := <-w.done
	return r.val, r.ok, r.err
}

// TryConsume removes and returns the head event without waiting.
// Returns ErrWouldBlock if the buffer is empty, and (zero, false, nil)
// once the pipe is closed and its buffer released. Observing an empty
// buffer notifies a pending graceful close exactly like Consume.
func (p *Pipe[T]) TryConsume() (T, bool, error) {
	var zero T
	p.consumeMu.Lock()
	p.state.Lock()
	if p.discarded.LoadAcquire() {
		p.state.Unlock()
		p.consumeMu.Unlock()
		return zero, false, nil
	}
	if p.buf.count == 0 {
		p.notifyDrainLocked()
		p.state.Unlock()
		p.consumeMu.Unlock()
		return zero, false, ErrWouldBlock
	}
	v := p.popLocked()
	p.wakeProducerLocked()
	p.state.Unlock()
	p.consumeMu.Unlock()
	return v, true, nil
}

// Close closes the pipe immediately: the buffer and everything still
// queued are released on the spot. Queued events are lost by design.
// Requests already pending are not completed by Close; they resolve via
// their own deadline or a complementary operation.
//
// Returns ErrAlreadyClosed on a second close in either mode.
func (p *Pipe[T]) Close() error {
	if !p.closed.CompareAndSwapAcqRel(0, 1) {
		return ErrAlreadyClosed
	}
	p.state.Lock()
	p.discardLocked()
	p.state.Unlock()
	return nil
}

// CloseGraceful closes the pipe and waits up to timeout for consumers to
// drain the buffer. Drain completion is observed by a later consume
// finding the buffer empty; if no consume reports drain in time, the
// deadline forces the discard and the close still completes successfully.
//
// The timeout must be finite and non-negative: InfiniteWait (or any
// other negative duration) is rejected with ErrInvalidTimeout, leaving
// the pipe open. Returns ErrAlreadyClosed on a second close.
func (p *Pipe[T]) CloseGraceful(timeout time.Duration) error {
	if p.closed.LoadAcquire() != 0 {
		return ErrAlreadyClosed
	}
	if timeout < 0 {
		return ErrInvalidTimeout
	}
	if !p.closed.CompareAndSwapAcqRel(0, 1) {
		return ErrAlreadyClosed
	}

	p.state.Lock()
	if p.buf.count == 0 {
		p.discardLocked()
		p.state.Unlock()
		return nil
	}
	w := newWaiter[T]()
	w.waitReg = &p.drainWaiters
	w.waitElem = p.drainWaiters.add(w)
	// The deadline action runs whether or not drain was observed first:
	// the residual discard must happen exactly once, while the completion
	// races through the waiter state like every other path.
	w.timer = time.AfterFunc(timeout, func() {
		won := w.claim()
		p.state.Lock()
		p.discardLocked()
		w.unlink()
		p.state.Unlock()
		if won {
			w.deliver(result[T]{ok: true})
		}
	})
	p.state.Unlock()

	r := <-w.done
	return r.err
}

// pushLocked appends to the buffer and publishes the new size.
func (p *Pipe[T]) pushLocked(v T) {
	p.buf.push(v)
	p.size.Add(1)
}

// popLocked removes the head and publishes the new size.
func (p *Pipe[T]) popLocked() T {
	v := p.buf.pop()
	p.size.Add(-1)
	return v
}

// discardLocked releases the buffer. Idempotent: both the graceful-close
// deadline and an earlier immediate discard may reach it.
func (p *Pipe[T]) discardLocked() {
	p.buf.reset()
	p.size.Store(0)
	p.discarded.StoreRelease(true)
}

// wakeConsumerLocked releases at most one blocked consumer after a push.
// The waking side completes the consume on the waiter's behalf: it pops
// the head (FIFO — not necessarily the event just pushed) and delivers
// it. Wakeup winners cancel their pending deadline.
func (p *Pipe[T]) wakeConsumerLocked() {
	w := p.itemWaiters.next()
	if w == nil {
		return
	}
	w.disarm()
	v := p.popLocked()
	w.deliver(result[T]{val: v, ok: true})
}

// wakeProducerLocked releases at most one blocked producer after a pop:
// the freed slot takes the waiter's pending event, and the waiter's
// produce completes successfully.
func (p *Pipe[T]) wakeProducerLocked() {
	w := p.spaceWaiters.next()
	if w == nil {
		return
	}
	w.disarm()
	p.pushLocked(w.ev)
	w.deliver(result[T]{ok: true})
}

// notifyDrainLocked reports an observed-empty buffer to a pending
// graceful close. The close's deadline timer keeps running: it still
// owns the residual discard, and the claim already taken here makes its
// completion a no-op.
func (p *Pipe[T]) notifyDrainLocked() {
	w := p.drainWaiters.next()
	if w == nil {
		return
	}
	w.deliver(result[T]{ok: true})
}
