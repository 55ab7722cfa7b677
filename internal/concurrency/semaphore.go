// File: internal/concurrency/semaphore.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Counting semaphore, grounded on the original sem.c/sem.h: a value guarded
// by a mutex plus a condition variable, with Down looping on "while value <
// k" rather than decrementing speculatively. Go channels were deliberately
// not used here — a channel-of-struct{} semaphore can't expose Value() or
// support Down(k) for k > 1 without an awkward drain loop, and the original
// predicate-loop shape is what spec.md §4.2 asks for.
package concurrency

import (
	"sync"
	"time"

	"github.com/momentics/syncprim/api"
)

// Semaphore implements api.Semaphore.
type Semaphore struct {
	mu    sync.Mutex
	cond  *sync.Cond
	value int
}

// NewSemaphore creates a semaphore with the given initial value. A negative
// initial value is rejected: spec.md §4.2 has no use for one and it would
// make Value() report a count that can never legitimately occur in the
// original C API.
func NewSemaphore(initial int) (*Semaphore, error) {
	if initial < 0 {
		return nil, api.ErrInvalidArgument.WithContext("initial", initial)
	}
	s := &Semaphore{value: initial}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// Up implements api.Semaphore.
func (s *Semaphore) Up(k int) error {
	if k <= 0 {
		return api.ErrInvalidArgument.WithContext("k", k)
	}
	s.mu.Lock()
	s.value += k
	s.mu.Unlock()
	s.cond.Broadcast()
	return nil
}

// Down implements api.Semaphore.
func (s *Semaphore) Down(k int) error {
	if k <= 0 {
		return api.ErrInvalidArgument.WithContext("k", k)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.value < k {
		s.cond.Wait()
	}
	s.value -= k
	return nil
}

// Op implements api.Semaphore: positive delta is Up, negative is Down.
func (s *Semaphore) Op(delta int) error {
	switch {
	case delta > 0:
		return s.Up(delta)
	case delta < 0:
		return s.Down(-delta)
	default:
		return api.ErrInvalidArgument.WithContext("delta", delta)
	}
}

// TimedUp implements api.Semaphore. Up never blocks, so the timeout is
// accepted only for signature symmetry with TimedDown and is ignored.
func (s *Semaphore) TimedUp(k int, timeout time.Duration) error {
	return s.Up(k)
}

// TimedDown implements api.Semaphore.
func (s *Semaphore) TimedDown(k int, timeout time.Duration) error {
	if k <= 0 {
		return api.ErrInvalidArgument.WithContext("k", k)
	}
	d := deadline(timeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	for s.value < k {
		if waitUntil(s.cond, d) && s.value < k {
			return api.ErrTimeout.WithContext("k", k)
		}
	}
	s.value -= k
	return nil
}

// TimedOp implements api.Semaphore.
func (s *Semaphore) TimedOp(delta int, timeout time.Duration) error {
	switch {
	case delta > 0:
		return s.TimedUp(delta, timeout)
	case delta < 0:
		return s.TimedDown(-delta, timeout)
	default:
		return api.ErrInvalidArgument.WithContext("delta", delta)
	}
}

// Value reports the current counter. Diagnostic only: the value may change
// the instant after this call returns.
func (s *Semaphore) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}
