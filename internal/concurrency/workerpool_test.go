// File: internal/concurrency/workerpool_test.go
package concurrency

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/syncprim/api"
)

func TestWorkerPoolSubmitAndJoin(t *testing.T) {
	p, err := NewWorkerPool[int](api.Fixed, 4, 4, 16)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}
	defer p.Destroy()

	const n = 42
	futures := make([]api.Future[int], n)
	for i := 0; i < n; i++ {
		i := i
		f, err := p.Submit(func() int { return i * i })
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		futures[i] = f
	}

	for i, f := range futures {
		got, err := f.Join()
		if err != nil {
			t.Fatalf("Join %d: %v", i, err)
		}
		if got != i*i {
			t.Fatalf("Join %d = %d, want %d", i, got, i*i)
		}
	}
}

func TestWorkerPoolElasticGrowsOnDemand(t *testing.T) {
	p, err := NewWorkerPool[int](api.Elastic, 1, 4, 16)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}
	defer p.Destroy()

	release := make(chan struct{})
	futures := make([]api.Future[int], 4)
	for i := 0; i < 4; i++ {
		f, err := p.Submit(func() int {
			<-release
			return 1
		})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		futures[i] = f
	}

	time.Sleep(20 * time.Millisecond)
	if got := p.NumWorkers(); got < 4 {
		t.Fatalf("NumWorkers() = %d, want >= 4 after saturating demand", got)
	}

	close(release)
	for i, f := range futures {
		if _, err := f.Join(); err != nil {
			t.Fatalf("Join %d: %v", i, err)
		}
	}
}

func TestWorkerPoolPanicRecovered(t *testing.T) {
	p, _ := NewWorkerPool[int](api.Fixed, 1, 1, 16)
	defer p.Destroy()

	f, err := p.Submit(func() int { panic("boom") })
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.Join(); err == nil {
		t.Fatal("expected an error from a panicking job")
	}

	// The pool must still be usable after a recovered panic.
	var ran atomic.Bool
	f2, err := p.Submit(func() int { ran.Store(true); return 1 })
	if err != nil {
		t.Fatalf("Submit after panic: %v", err)
	}
	if _, err := f2.Join(); err != nil {
		t.Fatalf("Join after panic: %v", err)
	}
	if !ran.Load() {
		t.Fatal("worker did not run after recovering from a panic")
	}
}

func TestWorkerPoolSubmitAfterDestroyFails(t *testing.T) {
	p, _ := NewWorkerPool[int](api.Fixed, 2, 2, 16)
	if err := p.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := p.Submit(func() int { return 0 }); err == nil {
		t.Fatal("expected error submitting to a destroyed pool")
	}
}
