// File: internal/concurrency/rwlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reader/writer lock, grounded on the original rwlock.c/rwlock.h: a single
// signed counter v guarded by a mutex+condvar, where v > 0 is the number of
// active readers, v == -1 is an active writer, and v == 0 is idle. This
// implementation broadcasts on every release (read or write) so both reader
// and writer waiters re-check their predicate, trading a little extra
// wakeup churn for a single wakeup path. There is no reader or writer
// preference: a reader is admitted whenever no writer holds the lock, so a
// continuous stream of readers can keep a waiting writer blocked.
package concurrency

import (
	"sync"
	"time"

	"github.com/momentics/syncprim/api"
)

// RWLock implements api.RWLocker.
type RWLock struct {
	mu   sync.Mutex
	cond *sync.Cond
	v    int
}

// NewRWLock creates an idle reader/writer lock.
func NewRWLock() *RWLock {
	l := &RWLock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// AcquireRead implements api.RWLocker.
func (l *RWLock) AcquireRead() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.v == -1 {
		l.cond.Wait()
	}
	l.v++
	return nil
}

// AcquireReadTimed implements api.RWLocker.
func (l *RWLock) AcquireReadTimed(timeout time.Duration) error {
	d := deadline(timeout)
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.v == -1 {
		if waitUntil(l.cond, d) && l.v == -1 {
			return api.ErrTimeout
		}
	}
	l.v++
	return nil
}

// ReleaseRead implements api.RWLocker.
func (l *RWLock) ReleaseRead() error {
	l.mu.Lock()
	if l.v <= 0 {
		l.mu.Unlock()
		return api.ErrInvalidArgument.WithContext("reason", "ReleaseRead without a held read lock")
	}
	l.v--
	l.mu.Unlock()
	l.cond.Broadcast()
	return nil
}

// AcquireWrite implements api.RWLocker.
func (l *RWLock) AcquireWrite() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.v != 0 {
		l.cond.Wait()
	}
	l.v = -1
	return nil
}

// AcquireWriteTimed implements api.RWLocker.
func (l *RWLock) AcquireWriteTimed(timeout time.Duration) error {
	d := deadline(timeout)
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.v != 0 {
		if waitUntil(l.cond, d) && l.v != 0 {
			return api.ErrTimeout
		}
	}
	l.v = -1
	return nil
}

// ReleaseWrite implements api.RWLocker.
func (l *RWLock) ReleaseWrite() error {
	l.mu.Lock()
	if l.v != -1 {
		l.mu.Unlock()
		return api.ErrInvalidArgument.WithContext("reason", "ReleaseWrite without a held write lock")
	}
	l.v = 0
	l.mu.Unlock()
	l.cond.Broadcast()
	return nil
}
