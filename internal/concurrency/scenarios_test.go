// File: internal/concurrency/scenarios_test.go
//
// End-to-end scenarios exercising the semaphore, memory pools, queue,
// barrier and worker pool the way a caller actually would.
package concurrency

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/syncprim/api"
)

func TestScenarioSemaphoreMemTest(t *testing.T) {
	s, err := NewSemaphore(1)
	if err != nil {
		t.Fatalf("NewSemaphore: %v", err)
	}
	must := func(err error) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	must(s.Down(1))
	must(s.Up(1))
	must(s.Up(1))
	must(s.Down(2))
	if got := s.Value(); got != 0 {
		t.Fatalf("final value = %d, want 0", got)
	}
}

func TestScenarioSemaphoreTimedTimeout(t *testing.T) {
	s, _ := NewSemaphore(10)
	if err := s.TimedOp(-10, 200*time.Millisecond); err != nil {
		t.Fatalf("first drain: %v", err)
	}
	if got := s.Value(); got != 0 {
		t.Fatalf("value after drain = %d, want 0", got)
	}

	if err := s.TimedOp(-2, 30*time.Millisecond); err == nil {
		t.Fatal("expected timeout on empty semaphore")
	}
	if got := s.Value(); got != 0 {
		t.Fatalf("value must be unchanged after a timeout, got %d", got)
	}
	if err := s.TimedOp(-2, 30*time.Millisecond); err == nil {
		t.Fatal("expected second timeout on empty semaphore")
	}

	if err := s.Up(1); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if err := s.Down(1); err != nil {
		t.Fatalf("Down: %v", err)
	}
}

func TestScenarioFixedPoolExhaustion(t *testing.T) {
	p, err := NewFixedPool(64, 2, api.Protected)
	if err != nil {
		t.Fatalf("NewFixedPool: %v", err)
	}

	a, err := p.Alloc()
	if err != nil {
		t.Fatalf("Alloc A: %v", err)
	}
	b, err := p.Alloc()
	if err != nil {
		t.Fatalf("Alloc B: %v", err)
	}
	if _, err := p.Alloc(); err == nil {
		t.Fatal("third Alloc should fail: pool exhausted")
	}

	if err := p.Free(a); err != nil {
		t.Fatalf("Free A: %v", err)
	}
	if err := p.Free(b); err != nil {
		t.Fatalf("Free B: %v", err)
	}

	if _, err := p.Alloc(); err != nil {
		t.Fatalf("Alloc after freeing both: %v", err)
	}
	if _, err := p.Alloc(); err != nil {
		t.Fatalf("second Alloc after freeing both: %v", err)
	}
	if _, err := p.Alloc(); err == nil {
		t.Fatal("pool should be exhausted again")
	}

	if err := p.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestScenarioVariablePoolLargeAllocation(t *testing.T) {
	const sixMiB = 6 * 1024 * 1024
	p, err := NewVariablePool(sixMiB, api.Protected)
	if err != nil {
		t.Fatalf("NewVariablePool: %v", err)
	}

	p1, err := p.Alloc(64)
	if err != nil {
		t.Fatalf("Alloc p1: %v", err)
	}
	p2, err := p.Alloc(128)
	if err != nil {
		t.Fatalf("Alloc p2: %v", err)
	}
	if err := p.Free(p1); err != nil {
		t.Fatalf("Free p1: %v", err)
	}
	if err := p.Free(p2); err != nil {
		t.Fatalf("Free p2: %v", err)
	}

	p3, err := p.Alloc(sixMiB - int(varCommonHeaderSize))
	if err != nil {
		t.Fatalf("Alloc p3 (whole coalesced region): %v", err)
	}
	if err := p.Free(p3); err != nil {
		t.Fatalf("Free p3: %v", err)
	}
	if err := p.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestScenarioQueueFIFOAndCapacity(t *testing.T) {
	q, err := NewQueue[int](3)
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	for _, v := range []int{1, 2, 3} {
		if err := q.Enqueue(v); err != nil {
			t.Fatalf("Enqueue %d: %v", v, err)
		}
	}

	if got, err := q.Dequeue(); err != nil || got != 1 {
		t.Fatalf("Dequeue = %d, %v, want 1, nil", got, err)
	}
	if got, err := q.Dequeue(); err != nil || got != 2 {
		t.Fatalf("Dequeue = %d, %v, want 2, nil", got, err)
	}
	for _, v := range []int{4, 5} {
		if err := q.Enqueue(v); err != nil {
			t.Fatalf("Enqueue %d: %v", v, err)
		}
	}
	for _, want := range []int{3, 4, 5} {
		got, err := q.Dequeue()
		if err != nil || got != want {
			t.Fatalf("Dequeue = %d, %v, want %d, nil", got, err, want)
		}
	}
}

func TestScenarioBarrierProgress(t *testing.T) {
	const participants = 4
	const rounds = 128

	b, err := NewBarrier(participants)
	if err != nil {
		t.Fatalf("NewBarrier: %v", err)
	}

	type entry struct {
		round, tid int
	}
	var mu sync.Mutex
	var log []entry

	var wg sync.WaitGroup
	wg.Add(participants)
	for tid := 0; tid < participants; tid++ {
		tid := tid
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				mu.Lock()
				log = append(log, entry{round: r, tid: tid})
				mu.Unlock()
				b.Sync()
			}
		}()
	}
	wg.Wait()

	if len(log) != rounds*participants {
		t.Fatalf("log length = %d, want %d", len(log), rounds*participants)
	}

	sort.Slice(log, func(i, j int) bool {
		if log[i].round != log[j].round {
			return log[i].round < log[j].round
		}
		return log[i].tid < log[j].tid
	})
	for r := 0; r < rounds; r++ {
		for tid := 0; tid < participants; tid++ {
			e := log[r*participants+tid]
			if e.round != r || e.tid != tid {
				t.Fatalf("sorted log[%d] = %+v, want round=%d tid=%d", r*participants+tid, e, r, tid)
			}
		}
	}
}

func TestScenarioWorkerPoolSubmitJoin(t *testing.T) {
	p, err := NewWorkerPool[int](api.Fixed, 1, 1, 16)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}
	defer p.Destroy()

	var counter atomic.Int64
	for i := 1; i <= 42; i++ {
		i := i
		f, err := p.Submit(func() int {
			counter.Add(1)
			return i
		})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		got, err := f.Join()
		if err != nil {
			t.Fatalf("Join %d: %v", i, err)
		}
		if got != i {
			t.Fatalf("Join = %d, want %d", got, i)
		}
	}
	if got := counter.Load(); got != 42 {
		t.Fatalf("counter = %d, want 42", got)
	}
}
