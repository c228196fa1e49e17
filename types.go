// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import "time"

// Producer is the produce half of a pipe, for collaborators that only
// feed events in.
type Producer[T any] interface {
	// Produce appends an event, waiting up to timeout for a free slot.
	// InfiniteWait disables the deadline.
	Produce(ev T, timeout time.Duration) error

	// TryProduce appends an event without waiting.
	// Returns ErrWouldBlock if the buffer is full.
	TryProduce(ev T) error
}

// Consumer is the consume half of a pipe, for collaborators that only
// take events out. The second return value is false only at end-of-pipe:
// the pipe was closed and its buffer released, which is the
// drain-completion signal rather than an error.
type Consumer[T any] interface {
	// Consume removes the head event, waiting up to timeout for one to
	// arrive. InfiniteWait disables the deadline.
	Consume(timeout time.Duration) (T, bool, error)

	// TryConsume removes the head event without waiting.
	// Returns ErrWouldBlock if the buffer is empty.
	TryConsume() (T, bool, error)
}

// Closer is the shutdown surface of a pipe.
//
// Close releases the buffer instantly, losing queued events by design.
// CloseGraceful waits up to a finite bound for consumers to drain the
// buffer before the residual discard.
type Closer interface {
	IsClosed() bool
	Close() error
	CloseGraceful(timeout time.Duration) error
}

// Interface is the full pipe contract: both halves plus shutdown.
// *Pipe[T] implements it.
type Interface[T any] interface {
	Producer[T]
	Consumer[T]
	Closer
	Cap() int
	Len() int
}
