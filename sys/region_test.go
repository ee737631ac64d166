//go:build unix

package sys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brkd/malloc"
)

func TestRegionSbrk(t *testing.T) {
	region, err := NewRegion(1 << 16)
	require.NoError(t, err)
	defer region.Close()

	base, err := region.Sbrk(0)
	require.NoError(t, err)
	require.Zero(t, base%malloc.Align, "mapping base is page aligned")

	top, err := region.Sbrk(128)
	require.NoError(t, err)
	require.Equal(t, base+128, top)
	require.Equal(t, 128, region.Size())

	top, err = region.Sbrk(-128)
	require.NoError(t, err)
	require.Equal(t, base, top)
}

func TestRegionBounds(t *testing.T) {
	region, err := NewRegion(1 << 12)
	require.NoError(t, err)
	defer region.Close()

	_, err = region.Sbrk(1<<12 + 1)
	require.ErrorIs(t, err, malloc.ErrNoSpace)

	_, err = region.Sbrk(-1)
	require.ErrorIs(t, err, malloc.ErrOutOfRange)

	require.Zero(t, region.Size())
}

func TestRegionClose(t *testing.T) {
	region, err := NewRegion(1 << 12)
	require.NoError(t, err)

	require.NoError(t, region.Close())
	require.NoError(t, region.Close(), "double close is a no-op")

	_, err = region.Sbrk(16)
	require.ErrorIs(t, err, malloc.ErrClosed)
}

func TestRegionBacksHeap(t *testing.T) {
	region, err := NewRegion(1 << 16)
	require.NoError(t, err)
	defer region.Close()

	heap := malloc.New(region)

	p := heap.Alloc(4096)
	require.Len(t, p, 4096)
	for i := range p {
		p[i] = byte(i)
	}
	for i := range p {
		require.Equal(t, byte(i), p[i])
	}

	heap.Free(p)
	require.Zero(t, region.Size())
}
