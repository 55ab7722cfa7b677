// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded producer/consumer queue, grounded on pcQueue.c: a fixed-capacity
// ring of node slots guarded by two counting semaphores (spaceAvail,
// itemsAvail) plus a mutex protecting the link structure itself. A producer
// blocks on spaceAvail before writing and signals itemsAvail after; a
// consumer is the mirror image. This is deliberately not the teacher's
// lock-free ring buffer: spec.md rules out lock-free/wait-free algorithms
// for these primitives, and the semaphore pair is exactly the original's
// design.
//
// Node storage itself comes from a TypedFixedPool sized to capacity, per
// pcQueue.c's own node pool: Enqueue allocates a node and Dequeue frees it
// back, rather than the queue owning its backing array directly. The pool
// is only ever touched with q.mu already held, so it is constructed
// Unprotected — the queue's own mutex is the confinement the pool's
// protection contract calls for.
package concurrency

import (
	"sync"
	"time"

	"github.com/momentics/syncprim/api"
)

// Queue implements api.Queue[T].
type Queue[T any] struct {
	mu         sync.Mutex
	nodes      *TypedFixedPool[T]
	slots      []*T
	head       int
	count      int
	spaceAvail *Semaphore
	itemsAvail *Semaphore
}

// NewQueue creates a bounded queue that can hold up to capacity items.
func NewQueue[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, api.ErrInvalidArgument.WithContext("capacity", capacity)
	}
	nodes, err := NewTypedFixedPool[T](capacity, api.Unprotected)
	if err != nil {
		return nil, err
	}
	spaceAvail, err := NewSemaphore(capacity)
	if err != nil {
		return nil, err
	}
	itemsAvail, err := NewSemaphore(0)
	if err != nil {
		return nil, err
	}
	return &Queue[T]{
		nodes:      nodes,
		slots:      make([]*T, capacity),
		spaceAvail: spaceAvail,
		itemsAvail: itemsAvail,
	}, nil
}

// push allocates a node from the fixed pool, stores item in it, and links
// it at the tail. spaceAvail already guarantees a node is available.
func (q *Queue[T]) push(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	node := q.nodes.Get()
	if node == nil {
		return api.ErrExhausted.WithContext("reason", "node pool exhausted despite spaceAvail admitting the item")
	}
	*node = item
	tail := (q.head + q.count) % len(q.slots)
	q.slots[tail] = node
	q.count++
	return nil
}

// pop unlinks the head node, reads its data, and frees it back to the pool.
func (q *Queue[T]) pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	node := q.slots[q.head]
	item := *node
	q.slots[q.head] = nil
	q.nodes.Put(node)
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	return item
}

// Enqueue implements api.Queue.
func (q *Queue[T]) Enqueue(item T) error {
	if err := q.spaceAvail.Down(1); err != nil {
		return err
	}
	if err := q.push(item); err != nil {
		return err
	}
	return q.itemsAvail.Up(1)
}

// Dequeue implements api.Queue.
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T
	if err := q.itemsAvail.Down(1); err != nil {
		return zero, err
	}
	item := q.pop()
	if err := q.spaceAvail.Up(1); err != nil {
		return zero, err
	}
	return item, nil
}

// TimedEnqueue implements api.Queue.
func (q *Queue[T]) TimedEnqueue(item T, timeout time.Duration) error {
	if err := q.spaceAvail.TimedDown(1, timeout); err != nil {
		return err
	}
	if err := q.push(item); err != nil {
		return err
	}
	return q.itemsAvail.Up(1)
}

// TimedDequeue implements api.Queue.
func (q *Queue[T]) TimedDequeue(timeout time.Duration) (T, error) {
	var zero T
	if err := q.itemsAvail.TimedDown(1, timeout); err != nil {
		return zero, err
	}
	item := q.pop()
	if err := q.spaceAvail.Up(1); err != nil {
		return zero, err
	}
	return item, nil
}

// Len implements api.Queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap implements api.Queue.
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}
