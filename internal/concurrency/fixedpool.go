// File: internal/concurrency/fixedpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-size memory pool, grounded on mempool.c's lpx_mempool_fixed_*
// family and on the unsafe.Pointer-arithmetic idiom used by
// bnclabs-gostore's mem_pool.go: a single pre-allocated []byte slab is
// carved into equal-size blocks, each prefixed by a small header, and free
// blocks are threaded into a singly-linked list through their own header
// words so Alloc/Free are O(1) and allocate nothing beyond the initial
// slab. A block's header word[0] always carries api.FixedPoolMagic so Free
// can reject a pointer that wasn't actually handed out by this pool (or
// that belongs to a different pool entirely); word[1] is the free-list
// "next" index while the block is on the free list, unused once allocated.
package concurrency

import (
	"sync"
	"unsafe"

	"github.com/momentics/syncprim/api"
)

const wordSize = unsafe.Sizeof(uintptr(0))
const fixedHeaderSize = 2 * wordSize

// FixedPool implements api.FixedPool.
type FixedPool struct {
	mu         sync.Mutex
	protection api.Protection
	slab       []byte
	blockSize  uintptr // header + padded object size
	count      int
	freeHead   int32 // index of first free block, -1 if none
	pinned     bool
}

// NewFixedPool creates a fixed-size pool of count blocks of objSize bytes
// each, allocating its own backing slab.
func NewFixedPool(objSize, count int, protection api.Protection) (*FixedPool, error) {
	if objSize <= 0 || count <= 0 {
		return nil, api.ErrInvalidArgument.WithContext("objSize", objSize).WithContext("count", count)
	}
	blockSize := fixedHeaderSize + align(uintptr(objSize), wordSize)
	slab := make([]byte, blockSize*uintptr(count))
	p := &FixedPool{
		protection: protection,
		slab:       slab,
		blockSize:  blockSize,
		count:      count,
	}
	p.initFreeList()
	return p, nil
}

// NewFixedPoolFromBlock carves a fixed-size pool out of a caller-supplied
// slab rather than allocating one, for embedding in a larger arena or a
// region the caller separately pins/unpins.
func NewFixedPoolFromBlock(block []byte, objSize int, protection api.Protection) (*FixedPool, error) {
	if objSize <= 0 {
		return nil, api.ErrInvalidArgument.WithContext("objSize", objSize)
	}
	blockSize := fixedHeaderSize + align(uintptr(objSize), wordSize)
	if blockSize == 0 || uintptr(len(block)) < blockSize {
		return nil, api.ErrInvalidArgument.WithContext("reason", "block too small for even one object")
	}
	count := int(uintptr(len(block)) / blockSize)
	p := &FixedPool{
		protection: protection,
		slab:       block[:uintptr(count)*blockSize],
		blockSize:  blockSize,
		count:      count,
	}
	p.initFreeList()
	return p, nil
}

func align(n, a uintptr) uintptr {
	return (n + a - 1) / a * a
}

func (p *FixedPool) lock() {
	if p.protection == api.Protected {
		p.mu.Lock()
	}
}

func (p *FixedPool) unlock() {
	if p.protection == api.Protected {
		p.mu.Unlock()
	}
}

func (p *FixedPool) base() unsafe.Pointer {
	return unsafe.Pointer(&p.slab[0])
}

func (p *FixedPool) blockAt(i int32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p.base()) + uintptr(i)*p.blockSize)
}

func (p *FixedPool) magicOf(blk unsafe.Pointer) *uint32 {
	return (*uint32)(blk)
}

func (p *FixedPool) nextOf(blk unsafe.Pointer) *int32 {
	return (*int32)(unsafe.Pointer(uintptr(blk) + wordSize))
}

func (p *FixedPool) dataOf(blk unsafe.Pointer) unsafe.Pointer {
	return unsafe.Pointer(uintptr(blk) + fixedHeaderSize)
}

func (p *FixedPool) initFreeList() {
	for i := 0; i < p.count; i++ {
		blk := p.blockAt(int32(i))
		*p.magicOf(blk) = api.FixedPoolMagic
		if i == p.count-1 {
			*p.nextOf(blk) = -1
		} else {
			*p.nextOf(blk) = int32(i + 1)
		}
	}
	p.freeHead = 0
}

// Alloc implements api.FixedPool.
func (p *FixedPool) Alloc() (unsafe.Pointer, error) {
	p.lock()
	defer p.unlock()

	if p.freeHead == -1 {
		return nil, api.ErrExhausted
	}
	blk := p.blockAt(p.freeHead)
	p.freeHead = *p.nextOf(blk)
	return p.dataOf(blk), nil
}

// Free implements api.FixedPool.
func (p *FixedPool) Free(addr unsafe.Pointer) error {
	p.lock()
	defer p.unlock()

	blk := unsafe.Pointer(uintptr(addr) - fixedHeaderSize)
	base := uintptr(p.base())
	off := uintptr(blk) - base
	if uintptr(blk) < base || off%p.blockSize != 0 {
		return api.ErrInvalidArgument.WithContext("reason", "address not owned by this pool")
	}
	idx := int32(off / p.blockSize)
	if idx < 0 || int(idx) >= p.count {
		return api.ErrInvalidArgument.WithContext("reason", "address outside pool bounds")
	}
	if *p.magicOf(blk) != api.FixedPoolMagic {
		return api.ErrInvalidArgument.WithContext("reason", "corrupted or foreign block header")
	}

	*p.nextOf(blk) = p.freeHead
	p.freeHead = idx
	return nil
}

// Pin implements api.FixedPool, locking the slab's pages in physical memory
// via golang.org/x/sys/unix.Mlock (or the Windows equivalent) so the pool
// can never be paged out from under an in-flight Alloc/Free.
func (p *FixedPool) Pin() error {
	p.lock()
	defer p.unlock()
	if p.pinned {
		return nil
	}
	if err := mlock(p.slab); err != nil {
		return api.ErrSystemError.WithContext("cause", err.Error())
	}
	p.pinned = true
	return nil
}

// Unpin implements api.FixedPool.
func (p *FixedPool) Unpin() error {
	p.lock()
	defer p.unlock()
	if !p.pinned {
		return nil
	}
	if err := munlock(p.slab); err != nil {
		return api.ErrSystemError.WithContext("cause", err.Error())
	}
	p.pinned = false
	return nil
}

// Destroy implements api.FixedPool.
func (p *FixedPool) Destroy() error {
	p.lock()
	defer p.unlock()
	if p.pinned {
		munlock(p.slab)
		p.pinned = false
	}
	p.slab = nil
	p.freeHead = -1
	return nil
}
