package mem

import (
	"sync"
	"unsafe"

	"github.com/brkd/malloc"
)

// Region is an in-memory implementation of the malloc.Brk interface,
// backed by a single buffer allocated up front. The boundary moves
// within the buffer; the buffer itself never moves, so addresses
// handed out stay stable for the life of the Region.
//
// It is safe for concurrent use by multiple goroutines.
type Region struct {
	mu    sync.Mutex
	buf   []byte
	base  int // offset of the aligned managed base within buf
	limit int // highest offset the boundary may reach
	brk   int // offset of the current boundary within buf
}

var _ malloc.Brk = new(Region)

// NewRegion returns a Region whose boundary can move up to capacity
// bytes above its base. The base is rounded up to malloc.Align, so the
// first block placed at it hands out an aligned payload.
func NewRegion(capacity int) *Region {
	if capacity < 0 {
		capacity = 0
	}
	buf := make([]byte, capacity+malloc.Align)
	base := int(-uintptr(unsafe.Pointer(unsafe.SliceData(buf))) & (malloc.Align - 1))
	return &Region{
		buf:   buf,
		base:  base,
		limit: base + capacity,
		brk:   base,
	}
}

// Sbrk moves the boundary by delta bytes and returns the resulting
// boundary address. A zero delta queries the boundary without moving
// it.
//
// Growing past the Region's capacity fails with ErrNoSpace; shrinking
// below the base fails with ErrOutOfRange. The boundary is unchanged
// on failure.
func (region *Region) Sbrk(delta int) (uintptr, error) {
	region.mu.Lock()
	defer region.mu.Unlock()

	brk := region.brk + delta
	if brk < region.base {
		return 0, malloc.ErrOutOfRange
	}
	if brk > region.limit {
		return 0, malloc.ErrNoSpace
	}
	region.brk = brk
	return uintptr(unsafe.Pointer(unsafe.SliceData(region.buf))) + uintptr(brk), nil
}

// Size returns the number of bytes currently between the base and the
// boundary.
func (region *Region) Size() int {
	region.mu.Lock()
	defer region.mu.Unlock()
	return region.brk - region.base
}
