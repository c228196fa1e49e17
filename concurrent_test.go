// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/pipe"
)

// TestConcurrentConservation verifies no event is lost or duplicated under
// many producers and consumers contending on a small buffer.
func TestConcurrentConservation(t *testing.T) {
	if pipe.RaceEnabled {
		t.Skip("atomix orderings are invisible to the race detector")
	}

	const (
		producers   = 8
		consumers   = 8
		perProducer = 2000
		total       = producers * perProducer
	)
	p := pipe.New[int](16)

	seen := make([]atomix.Int32, total)
	var consumed atomix.Int64
	var wg sync.WaitGroup

	for pi := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				v := pi*perProducer + i
				if err := p.Produce(v, pipe.Seconds(10)); err != nil {
					t.Errorf("Produce(%d): %v", v, err)
					return
				}
			}
		}()
	}
	for range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if consumed.Add(1) > int64(total) {
					consumed.Add(-1)
					return
				}
				v, ok, err := p.Consume(pipe.Seconds(10))
				if err != nil || !ok {
					t.Errorf("Consume: ok=%v err=%v", ok, err)
					return
				}
				if n := seen[v].Add(1); n != 1 {
					t.Errorf("event %d consumed %d times", v, n)
					return
				}
			}
		}()
	}
	wg.Wait()

	if t.Failed() {
		return
	}
	for v := range total {
		if seen[v].Load() != 1 {
			t.Fatalf("event %d consumed %d times, want 1", v, seen[v].Load())
		}
	}
	if got := p.Len(); got != 0 {
		t.Fatalf("Len after drain: got %d, want 0", got)
	}
}

// TestConcurrentTryWithBackoff drives the non-blocking boundary from both
// sides, retrying on would-block the way pollers do.
func TestConcurrentTryWithBackoff(t *testing.T) {
	if pipe.RaceEnabled {
		t.Skip("atomix orderings are invisible to the race detector")
	}

	const total = 5000
	p := pipe.New[int](8)
	deadline := time.Now().Add(10 * time.Second)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := range total {
			for {
				err := p.TryProduce(i + 1)
				if err == nil {
					backoff.Reset()
					break
				}
				if !pipe.IsWouldBlock(err) {
					t.Errorf("TryProduce: %v", err)
					return
				}
				if time.Now().After(deadline) {
					t.Error("producer stalled")
					return
				}
				backoff.Wait()
			}
		}
	}()

	backoff := iox.Backoff{}
	prev := 0
	for received := 0; received < total; {
		v, ok, err := p.TryConsume()
		if err == nil && ok {
			// Single producer, single consumer: order is preserved.
			if v != prev+1 {
				t.Fatalf("out of order: got %d after %d", v, prev)
			}
			prev = v
			received++
			backoff.Reset()
			continue
		}
		if !pipe.IsWouldBlock(err) {
			t.Fatalf("TryConsume: ok=%v err=%v", ok, err)
		}
		if time.Now().After(deadline) {
			t.Fatal("consumer stalled")
		}
		backoff.Wait()
	}
	wg.Wait()
}

// TestConcurrentCloseDuringTraffic verifies an immediate close in the
// middle of traffic resolves every side to a terminal state: producers
// end in ErrClosed, consumers in end-of-pipe, within a wall-clock bound.
func TestConcurrentCloseDuringTraffic(t *testing.T) {
	if pipe.RaceEnabled {
		t.Skip("atomix orderings are invisible to the race detector")
	}

	p := pipe.New[int](4)
	deadline := time.Now().Add(10 * time.Second)
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; ; i++ {
				err := p.Produce(i, pipe.Seconds(0.05))
				if err == nil || pipe.IsTimeout(err) {
					if time.Now().After(deadline) {
						t.Error("producer never saw ErrClosed")
						return
					}
					continue
				}
				if errors.Is(err, pipe.ErrClosed) {
					return // terminal
				}
				t.Errorf("Produce: %v", err)
				return
			}
		}()
	}
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, ok, err := p.Consume(pipe.Seconds(0.05))
				if err == nil && !ok {
					return // end-of-pipe: terminal
				}
				if err != nil && !pipe.IsTimeout(err) {
					t.Errorf("Consume: ok=%v err=%v", ok, err)
					return
				}
				if time.Now().After(deadline) {
					t.Error("consumer never saw end-of-pipe")
					return
				}
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wg.Wait()

	if got := p.Len(); got != 0 {
		t.Fatalf("Len after close: got %d, want 0", got)
	}
}
