// Copyright 2025 brkd
// SPDX-License-Identifier: Apache-2.0

package malloc

import "unsafe"

// Align is the alignment the heap keeps for the payload offset inside
// a block: the header record is padded to a multiple of Align, so a
// block placed on an Align boundary hands out an aligned payload.
const Align = 16

type header struct {
	size uintptr // payload bytes requested at creation
	free bool
	next *header // next block in address order, or nil
}

const headerSize = (unsafe.Sizeof(header{}) + Align - 1) &^ (Align - 1)

// findFree returns the first free block of at least size payload
// bytes, scanning from the lowest address. Pure scan; the caller flips
// the free flag under the lock.
func (heap *Heap) findFree(size uintptr) *header {
	for hdr := heap.head; hdr != nil; hdr = hdr.next {
		if hdr.free && hdr.size >= size {
			return hdr
		}
	}
	return nil
}

func payload(hdr *header, size int) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(unsafe.Pointer(hdr), headerSize)), size)
}

func headerOf(p []byte) *header {
	return (*header)(unsafe.Add(unsafe.Pointer(unsafe.SliceData(p)), -int(headerSize)))
}
