// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.

package control

import (
	"github.com/momentics/syncprim/internal/concurrency"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener
// support. It guards its state with this module's own reader/writer lock
// rather than sync.RWMutex, exercising that primitive outside of its own
// tests.
type ConfigStore struct {
	mu        *concurrency.RWLock
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		mu:        concurrency.NewRWLock(),
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.AcquireRead()
	defer cs.mu.ReleaseRead()
	snapshot := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		snapshot[k] = v
	}
	return snapshot
}

// SetConfig merges new values and dispatches reload if needed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.AcquireWrite()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	listeners := append([]func(){}, cs.listeners...)
	cs.mu.ReleaseWrite()

	for _, fn := range listeners {
		go fn()
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.AcquireWrite()
	defer cs.mu.ReleaseWrite()
	cs.listeners = append(cs.listeners, fn)
}
