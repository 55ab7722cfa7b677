// File: internal/concurrency/pin_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows counterpart of pin_unix.go, via golang.org/x/sys/windows's
// VirtualLock/VirtualUnlock.
//
//go:build windows

package concurrency

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func mlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)))
}

func munlock(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return windows.VirtualUnlock(uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)))
}
