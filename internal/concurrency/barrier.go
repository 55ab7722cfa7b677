// File: internal/concurrency/barrier.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sense-reversing centralized barrier, grounded on threadPool.c's barrier
// primitive: a fixed participant count, an arrival counter, and a single
// boolean "sense" flag that the last arriving goroutine flips before
// broadcasting. Each round's waiters capture the sense they observed on
// entry and loop until it flips, so a barrier can be reused immediately for
// the next round without a separate reset step.
package concurrency

import (
	"sync"

	"github.com/momentics/syncprim/api"
)

// Barrier implements api.Barrier.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	n       int
	arrived int
	sense   bool
}

// NewBarrier creates a barrier for n participants. n must be positive.
func NewBarrier(n int) (*Barrier, error) {
	if n <= 0 {
		return nil, api.ErrInvalidArgument.WithContext("n", n)
	}
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b, nil
}

// Sync implements api.Barrier.
func (b *Barrier) Sync() error {
	b.mu.Lock()
	mySense := b.sense
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.sense = !b.sense
		b.mu.Unlock()
		b.cond.Broadcast()
		return nil
	}
	for b.sense == mySense {
		b.cond.Wait()
	}
	b.mu.Unlock()
	return nil
}
