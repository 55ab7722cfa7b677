// File: api/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic convenience view over FixedPool for callers that would rather not
// manage unsafe.Pointer arithmetic directly.

package api

// ObjectPool provides generic pooling of Go values, backed by a FixedPool.
type ObjectPool[T any] interface {
	// Get returns a pointer to a zeroed T from the pool, or nil if exhausted.
	Get() *T
	// Put returns a previously-Get pointer to the pool.
	Put(obj *T)
}
