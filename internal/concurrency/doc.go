// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency implements the synchronization and memory-management
// primitives described by the library's public api package: a counting
// semaphore, a reader/writer lock, a sense-reversing barrier, fixed- and
// variable-size memory pools, a bounded producer/consumer queue, and a
// worker pool with futures.
//
// Every blocking operation is built on sync.Mutex + sync.Cond, never on
// lock-free/atomics-only algorithms, and every timed variant measures
// elapsed time across each blocking step and deducts it from the caller's
// remaining budget so spurious wakeups cannot silently extend a deadline.
package concurrency
