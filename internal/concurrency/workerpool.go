// File: internal/concurrency/workerpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker pool with futures, grounded on threadPool.c: an availability array
// guarded by a mutex, a freeWorkers counting semaphore whose value always
// equals the number of Available entries in that array, and one goroutine
// per worker blocked on its own per-worker semaphore until the dispatcher
// hands it a job. Submit blocks on freeWorkers until some worker is free,
// then claims it under the mutex and wakes it.
//
// The elastic variant (api.Elastic) grows the worker slice up to maxWorkers
// on demand when Submit finds nothing free, and never shrinks back down —
// spec.md's worker-pool module has no "idle timeout" concept, so there is
// nothing in the expanded specification that would trigger a shrink, and
// inventing one here would be speculative.
package concurrency

import (
	"sync"
	"time"

	"github.com/momentics/syncprim/api"
)

type worker[T any] struct {
	workSem *Semaphore
	fn      func() T
	future  *Future[T]
}

// WorkerPool implements api.WorkerPool[T].
type WorkerPool[T any] struct {
	mu           sync.Mutex
	workers      []*worker[T]
	availability []api.WorkerAvailability
	freeWorkers  *Semaphore
	poolType     api.PoolType
	minWorkers   int
	maxWorkers   int
	wg           sync.WaitGroup
	destroyed    bool
	recent       *recentCompletions
}

// NewWorkerPool creates a worker pool of minWorkers goroutines. For
// api.Fixed pools maxWorkers is ignored and pinned to minWorkers; for
// api.Elastic pools it must be >= minWorkers and is the ceiling Submit will
// grow the pool to before blocking.
func NewWorkerPool[T any](poolType api.PoolType, minWorkers, maxWorkers int, recentLimit int) (*WorkerPool[T], error) {
	if minWorkers <= 0 {
		return nil, api.ErrInvalidArgument.WithContext("minWorkers", minWorkers)
	}
	if poolType == api.Fixed {
		maxWorkers = minWorkers
	} else if maxWorkers < minWorkers {
		return nil, api.ErrInvalidArgument.WithContext("maxWorkers", maxWorkers)
	}
	if recentLimit <= 0 {
		recentLimit = 64
	}

	freeWorkers, err := NewSemaphore(0)
	if err != nil {
		return nil, err
	}

	p := &WorkerPool[T]{
		poolType:    poolType,
		minWorkers:  minWorkers,
		maxWorkers:  maxWorkers,
		freeWorkers: freeWorkers,
		recent:      newRecentCompletions(recentLimit),
	}
	for i := 0; i < minWorkers; i++ {
		p.spawnWorkerLocked()
	}
	return p, nil
}

// spawnWorkerLocked adds one worker and starts its goroutine. The caller
// must hold p.mu, except during construction where no goroutine can race
// yet.
func (p *WorkerPool[T]) spawnWorkerLocked() {
	sem, _ := NewSemaphore(0)
	w := &worker[T]{workSem: sem}
	idx := len(p.workers)
	p.workers = append(p.workers, w)
	p.availability = append(p.availability, api.WorkerAvailable)
	p.wg.Add(1)
	go p.run(idx)
	p.freeWorkers.Up(1)
}

func (p *WorkerPool[T]) run(idx int) {
	defer p.wg.Done()
	w := p.workers[idx]
	for {
		if err := w.workSem.Down(1); err != nil {
			return
		}

		p.mu.Lock()
		fn := w.fn
		future := w.future
		w.fn, w.future = nil, nil
		p.mu.Unlock()

		if fn == nil {
			// Destroy() wakes every worker with a nil job to unblock it.
			return
		}

		started := time.Now()
		result, err := invoke(fn)
		future.complete(result, err)
		p.recent.record(CompletionRecord{WorkerIndex: idx, StartedAt: started, Duration: time.Since(started), Err: err})

		p.mu.Lock()
		p.availability[idx] = api.WorkerAvailable
		p.mu.Unlock()
		p.freeWorkers.Up(1)
	}
}

// invoke runs fn and recovers a panic into an error so one bad callback
// can't take down a worker goroutine permanently.
func invoke[T any](fn func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = api.ErrSystemError.WithContext("panic", r)
		}
	}()
	result = fn()
	return result, nil
}

func (p *WorkerPool[T]) findFreeLocked() int {
	for i, a := range p.availability {
		if a == api.WorkerAvailable {
			return i
		}
	}
	return -1
}

// Submit implements api.WorkerPool.
func (p *WorkerPool[T]) Submit(fn func() T) (api.Future[T], error) {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil, api.ErrUninitialized
	}
	if p.poolType == api.Elastic && p.freeWorkers.Value() == 0 && len(p.workers) < p.maxWorkers {
		p.spawnWorkerLocked()
	}
	p.mu.Unlock()

	if err := p.freeWorkers.Down(1); err != nil {
		return nil, err
	}

	p.mu.Lock()
	idx := p.findFreeLocked()
	if idx < 0 {
		p.mu.Unlock()
		return nil, api.ErrSystemError.WithContext("reason", "freeWorkers signaled but no worker marked available")
	}
	p.availability[idx] = api.WorkerUnavailable
	future := NewFuture[T]()
	w := p.workers[idx]
	w.fn = fn
	w.future = future
	p.mu.Unlock()

	w.workSem.Up(1)
	return future, nil
}

// NumWorkers implements api.WorkerPool.
func (p *WorkerPool[T]) NumWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// Destroy implements api.WorkerPool, waking every worker with an empty job
// so its goroutine returns, then waiting for all of them to exit.
func (p *WorkerPool[T]) Destroy() error {
	p.mu.Lock()
	if p.destroyed {
		p.mu.Unlock()
		return nil
	}
	p.destroyed = true
	workers := p.workers
	p.mu.Unlock()

	for _, w := range workers {
		w.workSem.Up(1)
	}
	p.wg.Wait()
	return nil
}

// RecentCompletions exposes the diagnostics ring for api.Debug wiring.
func (p *WorkerPool[T]) RecentCompletions() []CompletionRecord {
	return p.recent.snapshot()
}
