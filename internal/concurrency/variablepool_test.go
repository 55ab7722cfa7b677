// File: internal/concurrency/variablepool_test.go
package concurrency

import (
	"testing"
	"unsafe"

	"github.com/momentics/syncprim/api"
)

func TestVariablePoolAllocFree(t *testing.T) {
	p, err := NewVariablePool(4096, api.Protected)
	if err != nil {
		t.Fatalf("NewVariablePool: %v", err)
	}

	a, err := p.Alloc(100)
	if err != nil {
		t.Fatalf("Alloc a: %v", err)
	}
	b, err := p.Alloc(200)
	if err != nil {
		t.Fatalf("Alloc b: %v", err)
	}

	*(*byte)(a) = 0xAB
	*(*byte)(b) = 0xCD
	if *(*byte)(a) != 0xAB || *(*byte)(b) != 0xCD {
		t.Fatal("writes through distinct allocations clobbered each other")
	}

	if err := p.Free(a); err != nil {
		t.Fatalf("Free a: %v", err)
	}
	if err := p.Free(b); err != nil {
		t.Fatalf("Free b: %v", err)
	}

	// After freeing everything, the pool should coalesce back to one big
	// block able to satisfy a large allocation.
	c, err := p.Alloc(4000)
	if err != nil {
		t.Fatalf("Alloc after coalesce: %v", err)
	}
	if err := p.Free(c); err != nil {
		t.Fatalf("Free c: %v", err)
	}
}

func TestVariablePoolExhaustion(t *testing.T) {
	p, _ := NewVariablePool(128, api.Protected)
	if _, err := p.Alloc(4096); err == nil {
		t.Fatal("expected exhaustion for an allocation larger than the pool")
	}
}

func TestVariablePoolCoalescesAdjacentFrees(t *testing.T) {
	p, _ := NewVariablePool(1024, api.Protected)

	a, _ := p.Alloc(64)
	b, _ := p.Alloc(64)
	c, _ := p.Alloc(64)

	if err := p.Free(b); err != nil {
		t.Fatalf("Free b: %v", err)
	}
	if err := p.Free(a); err != nil {
		t.Fatalf("Free a: %v", err)
	}
	if err := p.Free(c); err != nil {
		t.Fatalf("Free c: %v", err)
	}

	big, err := p.Alloc(900)
	if err != nil {
		t.Fatalf("Alloc after freeing all three neighbors: %v", err)
	}
	_ = big
}

func TestVariablePoolFreeRejectsForeignAddress(t *testing.T) {
	p, _ := NewVariablePool(256, api.Protected)
	var x int64
	if err := p.Free(unsafe.Pointer(&x)); err == nil {
		t.Fatal("expected error freeing a foreign address")
	}
}

func TestVariablePoolFromBlock(t *testing.T) {
	block := make([]byte, 512)
	p, err := NewVariablePoolFromBlock(block, api.Unprotected)
	if err != nil {
		t.Fatalf("NewVariablePoolFromBlock: %v", err)
	}
	ptr, err := p.Alloc(32)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if err := p.Free(ptr); err != nil {
		t.Fatalf("Free: %v", err)
	}
}
