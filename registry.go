// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "container/list"

// registry is a FIFO collection of pending requests waiting on one
// condition: a free slot, an available event, or buffer drain. A fourth
// registry tracks requests with an armed deadline so completion can
// cancel it.
//
// Registries hold no lock of their own; every mutation happens under the
// pipe state lock, in the same critical section as the buffer change
// that justifies it. That closes the lost-wakeup window between
// "observe full/empty" and "register".
type registry[T any] struct {
	waiters list.List
}

// add registers w at the tail and returns its membership element.
func (r *registry[T]) add(w *waiter[T]) *list.Element {
	return r.waiters.PushBack(w)
}

// remove drops a membership element.
func (r *registry[T]) remove(e *list.Element) {
	r.waiters.Remove(e)
}

// next pops requests in FIFO order until it claims a live one.
// Requests whose deadline already won the completion race are discarded;
// their expiry action handles the rest of the cleanup.
// Returns nil when no live waiter remains.
func (r *registry[T]) next() *waiter[T] {
	for {
		front := r.waiters.Front()
		if front == nil {
			return nil
		}
		w := r.waiters.Remove(front).(*waiter[T])
		w.waitElem = nil
		if w.claim() {
			return w
		}
	}
}
