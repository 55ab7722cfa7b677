// control/probes.go
// Author: momentics <momentics@gmail.com>
//
// Debug probe adapters for the library's own primitives, so a process
// embedding syncprim can expose pool and worker-pool occupancy through the
// same DebugProbes registry used for platform metrics.

package control

import "github.com/momentics/syncprim/internal/concurrency"

// boundedQueue is the subset of api.Queue[T]'s method set (minus the
// generic Enqueue/Dequeue, which don't matter for a read-only probe) that a
// probe needs. Avoiding a direct api.Queue[T] reference here keeps this
// file free of a type parameter it has no other use for.
type boundedQueue interface {
	Len() int
	Cap() int
}

// workerPool is the subset of api.WorkerPool[T]'s method set a probe needs
// for occupancy. recentCompletionsReporter is the subset needed to surface
// its diagnostics ring; both are satisfied by the same *concurrency.WorkerPool[T]
// regardless of its T, since neither method's signature depends on it.
type workerPool interface {
	NumWorkers() int
}

type recentCompletionsReporter interface {
	RecentCompletions() []concurrency.CompletionRecord
}

// RegisterQueueProbe exposes a bounded queue's occupancy under the given
// probe name, reporting {"len": n, "cap": n}.
func RegisterQueueProbe(dp *DebugProbes, name string, q boundedQueue) {
	dp.RegisterProbe(name, func() any {
		return map[string]any{"len": q.Len(), "cap": q.Cap()}
	})
}

// RegisterWorkerPoolProbe exposes a worker pool's current worker count
// under the given probe name.
func RegisterWorkerPoolProbe(dp *DebugProbes, name string, p workerPool) {
	dp.RegisterProbe(name, func() any {
		return map[string]any{"workers": p.NumWorkers()}
	})
}

// RegisterWorkerPoolDiagnosticsProbe exposes a worker pool's recent-completion
// ring (internal/concurrency/diag.go's eapache/queue-backed log) under the
// given probe name, so it shows up in DebugProbes.DumpState() alongside
// occupancy rather than sitting unreachable behind RecentCompletions().
func RegisterWorkerPoolDiagnosticsProbe(dp *DebugProbes, name string, p recentCompletionsReporter) {
	dp.RegisterProbe(name, func() any {
		return p.RecentCompletions()
	})
}
