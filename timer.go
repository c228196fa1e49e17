// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "time"

// InfiniteWait disables the deadline: the request stays pending until a
// complementary produce or consume completes it. Valid for Produce and
// Consume; CloseGraceful rejects it.
const InfiniteWait time.Duration = -1

// Seconds converts a decimal second count to a timeout, truncating
// toward zero at millisecond resolution. Seconds(-1) is InfiniteWait;
// other negative inputs produce a negative duration that the operations
// reject with ErrInvalidTimeout.
func Seconds(s float64) time.Duration {
	if s == -1 {
		return InfiniteWait
	}
	return time.Duration(s*1000) * time.Millisecond
}

// checkTimeout validates a timeout before any registration happens.
func checkTimeout(d time.Duration) error {
	if d < 0 && d != InfiniteWait {
		return ErrInvalidTimeout
	}
	return nil
}

// arm schedules the deadline action for a pending request and records
// its timeouts-registry membership. No-op for InfiniteWait. The caller
// holds the pipe state lock, so an immediate (zero) deadline cannot
// fire before registration is complete.
func (p *Pipe[T]) arm(w *waiter[T], d time.Duration) {
	if d == InfiniteWait {
		return
	}
	w.tmoReg = &p.timeouts
	w.tmoElem = p.timeouts.add(w)
	w.timer = time.AfterFunc(d, func() { p.expire(w) })
}

// expire is the deadline action. It races the wakeup path through the
// request's completion state: the winner reports ErrTimeout, the loser
// only makes sure no dangling registration remains. Either way the
// request leaves every registry exactly once.
func (p *Pipe[T]) expire(w *waiter[T]) {
	won := w.claim()
	p.state.Lock()
	w.unlink()
	p.state.Unlock()
	if won {
		w.deliver(result[T]{err: ErrTimeout})
	}
}
