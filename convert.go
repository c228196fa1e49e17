// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"fmt"
	"time"
)

// ConvertError reports that a consumed event could not be converted to
// the caller's requested shape. The event has left the buffer either
// way: conversion failure consumes the slot and the event is not
// re-queued.
type ConvertError struct {
	Err error
}

func (e *ConvertError) Error() string {
	return "pipe: event conversion failed: " + e.Err.Error()
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

// ConsumeAs consumes one event and converts it with conv. Conversion is
// a boundary concern: the pipe buffers T opaquely and conv shapes it for
// the caller. A conv failure is returned as *ConvertError with ok still
// true — the slot was consumed. End-of-pipe and consume errors pass
// through unchanged.
func ConsumeAs[T, U any](p *Pipe[T], timeout time.Duration, conv func(T) (U, error)) (U, bool, error) {
	var zero U
	v, ok, err := p.Consume(timeout)
	if err != nil || !ok {
		return zero, ok, err
	}
	u, err := conv(v)
	if err != nil {
		return zero, true, &ConvertError{Err: err}
	}
	return u, true, nil
}

// As is a type-assertion converter for dynamically typed pipes
// (Pipe[any]):
//
//	n, ok, err := pipe.ConsumeAs(p, timeout, pipe.As[int])
func As[U any](v any) (U, error) {
	u, ok := v.(U)
	if !ok {
		return u, fmt.Errorf("cannot convert %T to %T", v, u)
	}
	return u, nil
}
