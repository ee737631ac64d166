package malloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestHeaderLayout(t *testing.T) {
	require.Zero(t, headerSize%Align, "header record must pad to Align")
	require.GreaterOrEqual(t, headerSize, unsafe.Sizeof(header{}))
}

func TestHeaderRoundTrip(t *testing.T) {
	region := newTestRegion(1 << 12)
	heap := New(region)

	p := heap.Alloc(24)
	hdr := headerOf(p)

	require.Equal(t, uintptr(24), hdr.size)
	require.False(t, hdr.free)
	require.Equal(t, addr(p)-headerSize, uintptr(unsafe.Pointer(hdr)))
	require.Equal(t, addr(p), addr(payload(hdr, 24)))

	blocks := heap.Blocks()
	require.Len(t, blocks, 1)
	require.Equal(t, uintptr(unsafe.Pointer(hdr)), blocks[0].Addr)
}

func TestHeaderBaseAligned(t *testing.T) {
	region := newTestRegion(1 << 12)
	heap := New(region)

	p := heap.Alloc(8)
	require.Zero(t, (addr(p)-headerSize)%Align, "first block base is aligned")
	require.Zero(t, addr(p)%Align, "first payload is aligned")
}
