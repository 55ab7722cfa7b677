// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug introspection
// layer for syncprim. Provides concurrent-safe state handling:
//   - Immutable snapshot config reads and atomic updates (dogfooding this
//     module's own reader/writer lock)
//   - Runtime observers for hot-reload
//   - Metrics telemetry contracts
//   - State export, debug hooks, and probe registration, including
//     per-queue and per-worker-pool statistics probes
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
