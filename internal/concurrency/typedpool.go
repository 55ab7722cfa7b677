// File: internal/concurrency/typedpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic convenience wrapper over FixedPool for callers pooling Go values
// rather than raw bytes, so they never touch unsafe.Pointer directly.
package concurrency

import (
	"unsafe"

	"github.com/momentics/syncprim/api"
)

// TypedFixedPool implements api.ObjectPool[T] over a FixedPool sized for T.
type TypedFixedPool[T any] struct {
	pool *FixedPool
}

// NewTypedFixedPool creates a pool of count zeroed T values.
func NewTypedFixedPool[T any](count int, protection api.Protection) (*TypedFixedPool[T], error) {
	var zero T
	pool, err := NewFixedPool(int(unsafe.Sizeof(zero)), count, protection)
	if err != nil {
		return nil, err
	}
	return &TypedFixedPool[T]{pool: pool}, nil
}

// Get implements api.ObjectPool. It returns nil if the pool is exhausted.
func (p *TypedFixedPool[T]) Get() *T {
	ptr, err := p.pool.Alloc()
	if err != nil {
		return nil
	}
	obj := (*T)(ptr)
	var zero T
	*obj = zero
	return obj
}

// Put implements api.ObjectPool. Putting an object not obtained from Get,
// or putting the same object twice, corrupts the underlying free list; see
// FixedPool.Free.
func (p *TypedFixedPool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Free(unsafe.Pointer(obj))
}
