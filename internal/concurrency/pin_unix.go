// File: internal/concurrency/pin_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Real memory-page pinning for Pool.Pin/Unpin, via golang.org/x/sys/unix's
// Mlock/Munlock. The teacher used this same dependency for CPU-affinity
// pinning of worker threads; here it pins the pool's backing slab in
// physical memory instead, which is what spec.md's pool Pin/Unpin actually
// asks for.
//
//go:build !windows

package concurrency

import "golang.org/x/sys/unix"

func mlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mlock(b)
}

func munlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munlock(b)
}
