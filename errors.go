// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"errors"

	"code.hybscloud.com/iox"
)

var (
	// ErrNilEvent reports an attempt to produce a nil event.
	// Nil is reserved as the pipe's end-of-pipe signal and cannot travel
	// through the buffer.
	ErrNilEvent = errors.New("pipe: nil events cannot be produced")

	// ErrClosed reports a produce attempted after the pipe was closed.
	// Consumers never see ErrClosed: consuming from a closed pipe drains
	// the remaining events and then reports end-of-pipe.
	ErrClosed = errors.New("pipe: events cannot be produced to a closed pipe")

	// ErrAlreadyClosed reports a second close on an already closed pipe,
	// in either close mode.
	ErrAlreadyClosed = errors.New("pipe: closing a closed pipe is not allowed")

	// ErrTimeout reports that a deadline elapsed before a pending produce
	// or consume request could complete. A timed-out produce has not
	// enqueued its event; a timed-out consume has not removed one.
	ErrTimeout = errors.New("pipe: deadline elapsed")

	// ErrInvalidTimeout reports a malformed timeout: any negative duration
	// other than InfiniteWait, or InfiniteWait passed to CloseGraceful
	// (graceful close requires a finite bound).
	ErrInvalidTimeout = errors.New("pipe: timeout must be non-negative or InfiniteWait")
)

// ErrWouldBlock indicates a Try operation cannot proceed immediately.
//
// For TryProduce: the buffer is full (backpressure)
// For TryConsume: the buffer is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later, back off, or switch to the blocking operations.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := p.TryProduce(ev)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if pipe.IsWouldBlock(err) {
//	        backoff.Wait()  // Adaptive backpressure
//	        continue
//	    }
//	    return err  // Closed pipe, nil event
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// IsTimeout reports whether err indicates an elapsed deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
