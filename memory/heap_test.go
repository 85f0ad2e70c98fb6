package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapAllocate(t *testing.T) {
	h := NewHeap(256)
	a := h.Allocate(10)
	b := h.Allocate(20)

	require.Len(t, a, 10)
	require.Equal(t, 10, cap(a))
	requireAligned(t, a)
	requireAligned(t, b)
	require.Equal(t, Size(36), h.CurrentSize(), "second allocation starts at 16")
	require.Equal(t, Size(256), h.TotalSize())

	h.Deallocate(a)
	require.Equal(t, Size(36), h.CurrentSize(), "deallocate is a no-op")
}

func TestHeapOutOfMemory(t *testing.T) {
	h := NewHeap(64)
	require.True(t, h.CanAlloc(64))
	require.False(t, h.CanAlloc(65))

	h.Allocate(40)
	require.False(t, h.CanAlloc(40))
	requirePanicIs(t, ErrOutOfMemory, func() { h.Allocate(40) })
}

func TestHeapFree(t *testing.T) {
	h := NewHeap(64)
	h.Allocate(16)
	h.Free()

	require.True(t, h.Released())
	require.Zero(t, h.CurrentSize())
	require.False(t, h.CanAlloc(1))
	requirePanicIs(t, ErrHeapReleased, func() { h.Allocate(1) })
}

func TestHeapZeroSized(t *testing.T) {
	h := NewHeap(0)
	require.False(t, h.CanAlloc(1))
	requirePanicIs(t, ErrOutOfMemory, func() { h.Allocate(1) })
}
