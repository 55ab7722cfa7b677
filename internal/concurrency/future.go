// File: internal/concurrency/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-shot future, grounded on threadPool.c's per-submission completion
// semaphore: a semaphore initialized to 0 that the worker Up()s exactly
// once after storing the result, and that Join() Down()s exactly once
// before reading it.
package concurrency

import "github.com/momentics/syncprim/api"

// Future implements api.Future[T].
type Future[T any] struct {
	done   *Semaphore
	result api.Result[T]
}

// NewFuture creates a future with no result yet available.
func NewFuture[T any]() *Future[T] {
	sem, _ := NewSemaphore(0)
	return &Future[T]{done: sem}
}

// complete stores the outcome and wakes exactly one Join. It is called by
// the worker goroutine that owns this future and must be called exactly
// once.
func (f *Future[T]) complete(value T, err error) {
	f.result = api.Result[T]{Value: value, Err: err}
	f.done.Up(1)
}

// Join implements api.Future.
func (f *Future[T]) Join() (T, error) {
	if err := f.done.Down(1); err != nil {
		var zero T
		return zero, err
	}
	// Allow a second Join (e.g. from diagnostics code) to observe the same
	// result instead of blocking forever on an already-drained semaphore.
	f.done.Up(1)
	return f.result.Value, f.result.Err
}
