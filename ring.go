// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

// ring is a fixed-capacity FIFO buffer over a slot array. Unlike the
// lock-free queue slot arrays, ring carries no cycle bookkeeping: every
// access happens under the pipe state lock.
//
// Slots are zeroed on pop and reset so consumed events do not pin
// referenced objects.
type ring[T any] struct {
	slots []T
	head  int
	count int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{slots: make([]T, capacity)}
}

// push appends v at the tail. The caller has checked count < capacity.
func (r *ring[T]) push(v T) {
	r.slots[(r.head+r.count)%len(r.slots)] = v
	r.count++
}

// pop removes and returns the head. The caller has checked count > 0.
func (r *ring[T]) pop() T {
	var zero T
	v := r.slots[r.head]
	r.slots[r.head] = zero
	r.head = (r.head + 1) % len(r.slots)
	r.count--
	return v
}

// reset discards all buffered events.
func (r *ring[T]) reset() {
	clear(r.slots)
	r.head = 0
	r.count = 0
}
