// File: internal/concurrency/variablepool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Variable-size memory pool, grounded on mempool.c's
// lpx_mempool_variable_alloc/lpx_mempool_variable_free: first-fit search
// over an address-ordered doubly-linked free list, splitting a fit from the
// high end of the chosen block when the low-end remainder is still usable
// as a free block (>= 4 words), and coalescing a freed block with its
// memory-adjacent successor and then predecessor.
//
// Every block, free or allocated, starts with a common header of two words
// (magic, total size including the header). A free block additionally
// stores prev/next free-list links in the two words immediately following
// that header, which is why a free block's minimum size is four words: a
// smaller remainder from a split couldn't hold its own links and would be
// unrecoverable, so it is folded into the allocated block instead. This
// also resolves the original's block-boundary bookkeeping without extra
// state: the size word recorded at alloc time is exactly the block's final
// carved length, so Free can always recover [addr-headerSize, addr-headerSize+size)
// without consulting anything else.
package concurrency

import (
	"sync"
	"unsafe"

	"github.com/momentics/syncprim/api"
)

const varCommonHeaderSize = 2 * wordSize
const varMinFreeBlockSize = 4 * wordSize

// VariablePool implements api.VariablePool.
type VariablePool struct {
	mu         sync.Mutex
	protection api.Protection
	slab       []byte
	freeHead   unsafe.Pointer
	pinned     bool
}

// NewVariablePool creates a variable-size pool over a freshly allocated
// slab of size bytes.
func NewVariablePool(size int, protection api.Protection) (*VariablePool, error) {
	if size < int(varMinFreeBlockSize) {
		return nil, api.ErrInvalidArgument.WithContext("size", size)
	}
	slab := make([]byte, size)
	p := &VariablePool{protection: protection, slab: slab}
	p.initSingleFreeBlock()
	return p, nil
}

// NewVariablePoolFromBlock carves a variable-size pool out of a
// caller-supplied slab rather than allocating one.
func NewVariablePoolFromBlock(block []byte, protection api.Protection) (*VariablePool, error) {
	if len(block) < int(varMinFreeBlockSize) {
		return nil, api.ErrInvalidArgument.WithContext("reason", "block smaller than the minimum free-block size")
	}
	p := &VariablePool{protection: protection, slab: block}
	p.initSingleFreeBlock()
	return p, nil
}

func (p *VariablePool) lock() {
	if p.protection == api.Protected {
		p.mu.Lock()
	}
}

func (p *VariablePool) unlock() {
	if p.protection == api.Protected {
		p.mu.Unlock()
	}
}

func (p *VariablePool) initSingleFreeBlock() {
	blk := unsafe.Pointer(&p.slab[0])
	setVarSize(blk, uintptr(len(p.slab)))
	setVarPrev(blk, nil)
	setVarNext(blk, nil)
	p.freeHead = blk
}

func varMagicPtr(blk unsafe.Pointer) *uint32    { return (*uint32)(blk) }
func varSizePtr(blk unsafe.Pointer) *uintptr    { return (*uintptr)(unsafe.Pointer(uintptr(blk) + wordSize)) }
func varPrevPtr(blk unsafe.Pointer) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Pointer(uintptr(blk) + 2*wordSize))
}
func varNextPtr(blk unsafe.Pointer) *unsafe.Pointer {
	return (*unsafe.Pointer)(unsafe.Pointer(uintptr(blk) + 3*wordSize))
}

func varSize(blk unsafe.Pointer) uintptr        { return *varSizePtr(blk) }
func setVarSize(blk unsafe.Pointer, n uintptr)  { *varSizePtr(blk) = n }
func varPrev(blk unsafe.Pointer) unsafe.Pointer { return *varPrevPtr(blk) }
func setVarPrev(blk, v unsafe.Pointer)          { *varPrevPtr(blk) = v }
func varNext(blk unsafe.Pointer) unsafe.Pointer { return *varNextPtr(blk) }
func setVarNext(blk, v unsafe.Pointer)          { *varNextPtr(blk) = v }

func varData(blk unsafe.Pointer) unsafe.Pointer { return unsafe.Pointer(uintptr(blk) + varCommonHeaderSize) }
func varEnd(blk unsafe.Pointer) uintptr         { return uintptr(blk) + varSize(blk) }

// unlink removes blk from the free list, patching its neighbors' links.
func (p *VariablePool) unlink(blk unsafe.Pointer) {
	prev := varPrev(blk)
	next := varNext(blk)
	if prev != nil {
		setVarNext(prev, next)
	} else {
		p.freeHead = next
	}
	if next != nil {
		setVarPrev(next, prev)
	}
}

// insertSorted inserts blk into the free list in address order.
func (p *VariablePool) insertSorted(blk unsafe.Pointer) {
	var prev unsafe.Pointer
	cur := p.freeHead
	for cur != nil && uintptr(cur) < uintptr(blk) {
		prev = cur
		cur = varNext(cur)
	}
	setVarPrev(blk, prev)
	setVarNext(blk, cur)
	if prev != nil {
		setVarNext(prev, blk)
	} else {
		p.freeHead = blk
	}
	if cur != nil {
		setVarPrev(cur, blk)
	}
}

// Alloc implements api.VariablePool.
func (p *VariablePool) Alloc(size int) (unsafe.Pointer, error) {
	if size <= 0 {
		return nil, api.ErrInvalidArgument.WithContext("size", size)
	}
	needed := align(uintptr(size), wordSize)
	neededTotal := varCommonHeaderSize + needed
	// A freed block is re-linked into the free list via varPrevPtr/varNextPtr,
	// which occupy the same four words as varMinFreeBlockSize, so no
	// allocated block may end up smaller than that or Free's insertSorted
	// would write past it.
	if neededTotal < varMinFreeBlockSize {
		neededTotal = varMinFreeBlockSize
	}

	p.lock()
	defer p.unlock()

	var fit unsafe.Pointer
	for cur := p.freeHead; cur != nil; cur = varNext(cur) {
		if varSize(cur) >= neededTotal {
			fit = cur
			break
		}
	}
	if fit == nil {
		return nil, api.ErrExhausted.WithContext("requested", size)
	}

	total := varSize(fit)
	remainder := total - neededTotal

	if remainder >= varMinFreeBlockSize {
		// Split from the high end: the low part keeps fit's address and
		// list position, shrunk to remainder; the high part is handed out.
		setVarSize(fit, remainder)
		alloc := unsafe.Pointer(uintptr(fit) + remainder)
		*varMagicPtr(alloc) = api.VariablePoolMagic
		setVarSize(alloc, neededTotal)
		return varData(alloc), nil
	}

	// Remainder too small to stand alone: hand out the entire block,
	// absorbing the fragmentation.
	p.unlink(fit)
	*varMagicPtr(fit) = api.VariablePoolMagic
	return varData(fit), nil
}

// Free implements api.VariablePool.
func (p *VariablePool) Free(addr unsafe.Pointer) error {
	blk := unsafe.Pointer(uintptr(addr) - varCommonHeaderSize)

	base := uintptr(unsafe.Pointer(&p.slab[0]))
	limit := base + uintptr(len(p.slab))
	if uintptr(blk) < base || uintptr(blk) >= limit {
		return api.ErrInvalidArgument.WithContext("reason", "address outside pool bounds")
	}

	p.lock()
	defer p.unlock()

	if *varMagicPtr(blk) != api.VariablePoolMagic {
		return api.ErrInvalidArgument.WithContext("reason", "corrupted or foreign block header")
	}
	*varMagicPtr(blk) = 0

	start := uintptr(blk)
	size := varSize(blk)
	end := start + size

	// Locate the free-list neighbors that would surround this block.
	var pred, succ unsafe.Pointer
	for cur := p.freeHead; cur != nil; cur = varNext(cur) {
		if uintptr(cur) < start {
			pred = cur
		} else {
			succ = cur
			break
		}
	}

	// Coalesce with the memory-adjacent successor first.
	if succ != nil && uintptr(succ) == end {
		size += varSize(succ)
		p.unlink(succ)
		end = start + size
	}

	// Then coalesce with the memory-adjacent predecessor.
	if pred != nil && varEnd(pred) == start {
		setVarSize(pred, varSize(pred)+size)
		return nil
	}

	setVarSize(blk, size)
	p.insertSorted(blk)
	return nil
}

// Pin implements api.VariablePool.
func (p *VariablePool) Pin() error {
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

// Unpin implements api.VariablePool.
func (p *VariablePool) Unpin() error {
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

// Destroy implements api.VariablePool.
func (p *VariablePool) Destroy() error {
	p.lock()
	defer p.unlock()
	if p.pinned {
		munlock(p.slab)
		p.pinned = false
	}
	p.slab = nil
	p.freeHead = nil
	return nil
}
