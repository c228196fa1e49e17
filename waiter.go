// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"container/list"
	"time"

	"code.hybscloud.com/atomix"
)

const (
	statePending   = 0
	stateCompleted = 1
)

// result is the single terminal notification of a pending request.
// ok is false only for end-of-pipe.
type result[T any] struct {
	val T
	ok  bool
	err error
}

// waiter is one pending produce, consume, or graceful-close request.
//
// Its completion state transitions pending→completed exactly once; the
// wakeup path, the deadline path, and the drain path all race through
// claim, and only the winner delivers a result. The loser still unlinks
// any remaining registry membership without signaling.
type waiter[T any] struct {
	state atomix.Uint64
	done  chan result[T] // capacity 1; completion handle

	ev T // pending event of a blocked produce

	timer *time.Timer

	// Registry membership. Guarded by the pipe state lock.
	waitReg  *registry[T]
	waitElem *list.Element
	tmoReg   *registry[T]
	tmoElem  *list.Element
}

func newWaiter[T any]() *waiter[T] {
	return &waiter[T]{done: make(chan result[T], 1)}
}

// claim attempts the pending→completed transition. Exactly one caller
// wins; everyone else must clean up silently.
func (w *waiter[T]) claim() bool {
	return w.state.CompareAndSwapAcqRel(statePending, stateCompleted)
}

// deliver hands the terminal result to the suspended caller.
// Only the claim winner may call it; the channel never blocks.
func (w *waiter[T]) deliver(r result[T]) {
	w.done <- r
}

// unlink clears every remaining registry membership. Idempotent; the
// caller holds the pipe state lock.
func (w *waiter[T]) unlink() {
	if w.waitElem != nil {
		w.waitReg.remove(w.waitElem)
		w.waitElem = nil
	}
	if w.tmoElem != nil {
		w.tmoReg.remove(w.tmoElem)
		w.tmoElem = nil
	}
}

// disarm cancels a pending deadline after the wakeup path won the claim
// race. Stopping an already-fired timer is harmless: the expiry action
// loses the claim and only unlinks. The caller holds the pipe state lock.
func (w *waiter[T]) disarm() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.tmoElem != nil {
		w.tmoReg.remove(w.tmoElem)
		w.tmoElem = nil
	}
}
