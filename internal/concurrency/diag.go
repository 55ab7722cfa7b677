// File: internal/concurrency/diag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Diagnostics ring for a worker pool's recently completed submissions,
// backed by github.com/eapache/queue — the teacher depends on it but never
// actually exercises it; here it gets a real job: an auto-growing ring
// buffer is exactly what a "keep the last N, drop the oldest" log needs,
// and queue.Queue already implements that without us hand-rolling one.
package concurrency

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// CompletionRecord is one entry in a worker pool's recent-activity log.
type CompletionRecord struct {
	WorkerIndex int
	StartedAt   time.Time
	Duration    time.Duration
	Err         error
}

// recentCompletions bounds how much history a worker pool keeps for
// diagnostics, evicting the oldest entry once the limit is reached.
type recentCompletions struct {
	mu    sync.Mutex
	q     *queue.Queue
	limit int
}

func newRecentCompletions(limit int) *recentCompletions {
	return &recentCompletions{q: queue.New(), limit: limit}
}

func (r *recentCompletions) record(rec CompletionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.q.Add(rec)
	for r.q.Length() > r.limit {
		r.q.Remove()
	}
}

// snapshot returns the recorded completions, oldest first.
func (r *recentCompletions) snapshot() []CompletionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CompletionRecord, r.q.Length())
	for i := range out {
		out[i] = r.q.Get(i).(CompletionRecord)
	}
	return out
}
