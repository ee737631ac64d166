// Copyright 2025 brkd
// SPDX-License-Identifier: Apache-2.0

package malloc

import "unsafe"

// Block describes one block of a Blocks snapshot.
type Block struct {
	Addr uintptr // header address
	Size int     // payload bytes recorded at creation
	Free bool
	Next uintptr // header address of the next block, or 0
}

// Blocks returns a snapshot of the block list in address order, taken
// under the lock. Diagnostic only; the snapshot is stale as soon as it
// is returned.
func (heap *Heap) Blocks() (blocks []Block) {
	heap.mutex.Lock()
	for hdr := heap.head; hdr != nil; hdr = hdr.next {
		block := Block{
			Addr: uintptr(unsafe.Pointer(hdr)),
			Size: int(hdr.size),
			Free: hdr.free,
		}
		if hdr.next != nil {
			block.Next = uintptr(unsafe.Pointer(hdr.next))
		}
		blocks = append(blocks, block)
	}
	heap.mutex.Unlock()
	return
}

// Stats summarizes the heap's current usage.
type Stats struct {
	TotalSize     int // bytes between the managed base and the boundary
	AllocatedSize int // payload bytes of in-use blocks
	FreeSize      int // payload bytes of free blocks
	Blocks        int
}

// Stats walks the block list under the lock.
func (heap *Heap) Stats() (stats Stats) {
	heap.mutex.Lock()
	for hdr := heap.head; hdr != nil; hdr = hdr.next {
		if hdr.free {
			stats.FreeSize += int(hdr.size)
		} else {
			stats.AllocatedSize += int(hdr.size)
		}
		stats.Blocks++
	}
	if heap.base != 0 {
		if top, err := heap.brk.Sbrk(0); err == nil {
			stats.TotalSize = int(top - heap.base)
		}
	}
	heap.mutex.Unlock()
	return
}
