// Package api defines the public contracts of syncprim: semaphores,
// reader/writer locks, memory pools, barriers, a bounded queue and a worker
// pool with futures. Concrete implementations live in internal/concurrency;
// callers should depend on these interfaces where practical.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package api
