//go:build unix

package sys

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/brkd/malloc"
)

// Region is an mmap-backed implementation of the malloc.Brk interface.
//
// Moving the real program break is not an option inside a Go process,
// so Region reserves one anonymous private mapping up front and moves
// its own boundary within it. The mapping is page aligned, which
// satisfies malloc.Align.
//
// It is safe for concurrent use by multiple goroutines.
type Region struct {
	mu  sync.Mutex
	buf []byte
	brk int // offset of the current boundary within buf
}

var _ malloc.Brk = new(Region)

// NewRegion maps capacity bytes of anonymous memory and returns a
// Region whose boundary starts at the base of the mapping.
func NewRegion(capacity int) (*Region, error) {
	buf, err := unix.Mmap(-1, 0, capacity,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", capacity, err)
	}
	return &Region{buf: buf}, nil
}

// Sbrk moves the boundary by delta bytes and returns the resulting
// boundary address. A zero delta queries the boundary without moving
// it.
//
// Growing past the mapping fails with ErrNoSpace; shrinking below the
// base fails with ErrOutOfRange; a closed Region fails with ErrClosed.
// The boundary is unchanged on failure.
func (region *Region) Sbrk(delta int) (uintptr, error) {
	region.mu.Lock()
	defer region.mu.Unlock()

	if region.buf == nil {
		return 0, malloc.ErrClosed
	}
	brk := region.brk + delta
	if brk < 0 {
		return 0, malloc.ErrOutOfRange
	}
	if brk > len(region.buf) {
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
	return region.brk
}

// Close unmaps the reservation. Every address the Region handed out
// becomes invalid; a later Sbrk fails with ErrClosed.
func (region *Region) Close() error {
	region.mu.Lock()
	defer region.mu.Unlock()

	if region.buf == nil {
		return nil
	}
	buf := region.buf
	region.buf = nil
	region.brk = 0
	return unix.Munmap(buf)
}
