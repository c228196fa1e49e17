// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"iter"
	"time"
)

// Events returns a single-use iterator over the pipe. Each step is one
// Consume with the given per-event timeout: values are yielded in FIFO
// order, iteration ends cleanly at end-of-pipe, and the first error
// (typically ErrTimeout) is yielded with a zero value and ends the
// sequence. The sequence is not restartable — events consumed by an
// abandoned iteration are gone.
func (p *Pipe[T]) Events(timeout time.Duration) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, ok, err := p.Consume(timeout)
			if err != nil {
				yield(v, err)
				return
			}
			if !ok {
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}
