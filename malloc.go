// Copyright 2025 brkd
// SPDX-License-Identifier: Apache-2.0

// Package malloc implements a first-fit heap allocator over a single
// contiguous memory region whose top boundary moves by signed byte
// deltas, in the manner of the classic Unix break-based heap.
//
// Blocks are kept on an address-ordered singly linked list, each one a
// fixed-size header followed by the caller's payload. Freed blocks are
// reused by a first-fit scan; memory is returned to the region only
// when the freed block is the last one below the boundary.
package malloc

import (
	"sync"
	"unsafe"
)

// Brk adjusts the top of a contiguous memory region.
//
// Sbrk moves the boundary by delta bytes (negative to shrink) and
// returns the resulting boundary address. A zero delta queries the
// current boundary without moving it. A failed adjustment returns a
// non-nil error and leaves the boundary unchanged.
//
// The mem and sys packages provide in-memory and mmap-backed
// implementations.
type Brk interface {
	Sbrk(delta int) (uintptr, error)
}

// Heap allocates blocks from the region behind a Brk.
//
// All methods are safe for concurrent use; every operation runs as a
// single critical section under one mutex, including the Sbrk call.
// Payload bytes handed out to callers are not guarded.
type Heap struct {
	mutex sync.Mutex
	brk   Brk

	head, tail *header
	base       uintptr
}

// New returns a Heap drawing memory from brk.
//
// The heap never assumes the boundary starts at zero; it records its
// managed base from the first successful growth call.
func New(brk Brk) *Heap {
	return &Heap{brk: brk}
}

// Alloc returns a writable payload of at least size bytes, or nil if
// size is not positive or the region cannot grow.
func (heap *Heap) Alloc(size int) (p []byte) {
	heap.mutex.Lock()
	p = heap.alloc(size)
	heap.mutex.Unlock()
	return
}

func (heap *Heap) alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	if hdr := heap.findFree(uintptr(size)); hdr != nil {
		hdr.free = false
		return payload(hdr, size)
	}

	top, err := heap.brk.Sbrk(int(headerSize) + size)
	if err != nil {
		return nil
	}

	hdr := (*header)(unsafe.Pointer(top - headerSize - uintptr(size)))
	hdr.size = uintptr(size)
	hdr.free = false
	hdr.next = nil

	if heap.base == 0 {
		heap.base = uintptr(unsafe.Pointer(hdr))
	}
	if heap.head == nil {
		heap.head = hdr
	}
	if heap.tail != nil {
		heap.tail.next = hdr
	}
	heap.tail = hdr
	return payload(hdr, size)
}

// Calloc returns a zero-filled payload of count*size bytes, or nil if
// either argument is not positive, the multiplication overflows, or
// the allocation fails. Nothing is allocated on overflow.
func (heap *Heap) Calloc(count, size int) []byte {
	if count <= 0 || size <= 0 {
		return nil
	}
	total := count * size
	if total/count != size {
		return nil
	}

	heap.mutex.Lock()
	p := heap.alloc(total)
	heap.mutex.Unlock()

	if p != nil {
		clear(p)
	}
	return p
}

// Realloc resizes the block behind p to at least size bytes.
//
// A nil p is equivalent to Alloc(size). A non-positive size returns
// nil without freeing p. If the block's recorded capacity already
// covers size, the same address is returned re-sliced to the requested
// length. Otherwise a new block is allocated, the old contents copied,
// and p freed; if that allocation fails, nil is returned and p stays
// valid.
func (heap *Heap) Realloc(p []byte, size int) (q []byte) {
	heap.mutex.Lock()
	q = heap.realloc(p, size)
	heap.mutex.Unlock()
	return
}

func (heap *Heap) realloc(p []byte, size int) []byte {
	if len(p) == 0 || size <= 0 {
		return heap.alloc(size)
	}

	hdr := headerOf(p)
	if hdr.size >= uintptr(size) {
		return payload(hdr, size)
	}

	q := heap.alloc(size)
	if q == nil {
		return nil
	}
	copy(q, payload(hdr, int(hdr.size)))
	heap.free(p)
	return q
}

// Free releases the block behind p, either for reuse by a later Alloc
// or back to the region when the block sits at the boundary. A nil or
// empty p is a no-op.
//
// p must have been returned by this heap; foreign handles, double
// frees, and use after Free are caller errors the heap does not
// detect.
func (heap *Heap) Free(p []byte) {
	heap.mutex.Lock()
	heap.free(p)
	heap.mutex.Unlock()
}

func (heap *Heap) free(p []byte) {
	if len(p) == 0 {
		return
	}

	hdr := headerOf(p)
	top, err := heap.brk.Sbrk(0)
	if err != nil || uintptr(unsafe.Pointer(unsafe.SliceData(p)))+hdr.size != top {
		hdr.free = true
		return
	}

	// The block is the last one below the boundary: unlink it and
	// hand its bytes back to the region.
	if heap.head == heap.tail {
		heap.head, heap.tail = nil, nil
	} else {
		for prev := heap.head; prev != nil; prev = prev.next {
			if prev.next == heap.tail {
				prev.next = nil
				heap.tail = prev
			}
		}
	}
	heap.brk.Sbrk(-int(headerSize + hdr.size))
}
