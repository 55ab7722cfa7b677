// File: api/interfaces.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Public contracts for every primitive spec.md describes. Concrete
// implementations live under internal/concurrency; this package exists so
// callers can depend on behavior, not on the concrete struct.

package api

import (
	"time"
	"unsafe"
)

// Semaphore is a counting semaphore with blocking and timed variants. See
// spec.md §4.2.
type Semaphore interface {
	// Up adds k (k >= 1) to the semaphore's value. Never blocks.
	Up(k int) error
	// Down blocks until the value is at least k, then subtracts k.
	Down(k int) error
	// Op dispatches to Up (delta > 0) or Down (delta < 0); delta == 0 is an error.
	Op(delta int) error
	// TimedUp, TimedDown, TimedOp are the bounded-wait variants.
	TimedUp(k int, timeout time.Duration) error
	TimedDown(k int, timeout time.Duration) error
	TimedOp(delta int, timeout time.Duration) error
	// Value reports the current counter, for diagnostics/tests only.
	Value() int
}

// RWLocker is a reader/writer lock with timed acquisition. See spec.md §4.3.
type RWLocker interface {
	AcquireRead() error
	AcquireReadTimed(timeout time.Duration) error
	ReleaseRead() error
	AcquireWrite() error
	AcquireWriteTimed(timeout time.Duration) error
	ReleaseWrite() error
}

// Barrier is a reusable, sense-reversing rendezvous point for a fixed
// number of participants. See spec.md §4.6.
type Barrier interface {
	// Sync blocks until all participants have called Sync for this round.
	Sync() error
}

// FixedPool allocates and frees fixed-size objects in O(1). See spec.md §4.4.
type FixedPool interface {
	Alloc() (unsafe.Pointer, error)
	Free(addr unsafe.Pointer) error
	Pin() error
	Unpin() error
	Destroy() error
}

// VariablePool allocates and frees variable-size blocks with first-fit
// search and coalesce-on-free. See spec.md §4.5.
type VariablePool interface {
	Alloc(size int) (unsafe.Pointer, error)
	Free(addr unsafe.Pointer) error
	Pin() error
	Unpin() error
	Destroy() error
}

// Queue is a bounded, blocking producer/consumer FIFO. See spec.md §4.7.
//
// The method set mirrors the teacher's Ring[T] contract (Enqueue/Dequeue/
// Len/Cap) but Queue is intentionally not lock-free: its implementation is
// the mutex+semaphore design spec.md mandates, since lock-free algorithms
// are an explicit Non-goal.
type Queue[T any] interface {
	Enqueue(item T) error
	Dequeue() (T, error)
	TimedEnqueue(item T, timeout time.Duration) error
	TimedDequeue(timeout time.Duration) (T, error)
	Len() int
	Cap() int
}

// Future is a one-shot, single-producer/single-consumer result mailbox. See
// spec.md §3 "Future".
type Future[T any] interface {
	// Join blocks until the worker has produced a result, then returns it.
	// Exactly one Join per future.
	Join() (T, error)
}

// WorkerPool dispatches callables onto a pool of goroutines and returns a
// Future per submission. See spec.md §4.8.
type WorkerPool[T any] interface {
	Submit(fn func() T) (Future[T], error)
	Destroy() error
	NumWorkers() int
}

// Debug exposes runtime introspection for diagnostics and tests, adapted
// from the teacher's api/debug.go.
type Debug interface {
	DumpState() map[string]any
	RegisterProbe(name string, fn func() any)
}

// Control bundles dynamic configuration and runtime metrics, adapted from
// the teacher's api/control.go.
type Control interface {
	GetConfig() map[string]any
	SetConfig(cfg map[string]any) error
	Stats() map[string]any
	OnReload(fn func())
	RegisterDebugProbe(name string, fn func() any)
}
