package memory

import "unsafe"

// Allocator is implemented by every heap in this package except
// [TaggedHeapBlock], whose Allocate takes a tag.
type Allocator interface {
	// Allocate returns a region of exactly size bytes aligned to MaxAlign.
	Allocate(size Size) []byte

	// Deallocate returns a region previously issued by Allocate.
	// A nil or empty slice is a no-op.
	Deallocate(p []byte)

	// Free releases every allocation at once.
	Free()

	// CanAlloc reports whether Allocate(size) would succeed without
	// resetting or invalidating earlier allocations. It never mutates state.
	CanAlloc(size Size) bool

	// CurrentSize returns the number of bytes in use.
	CurrentSize() Size

	// TotalSize returns the capacity in bytes.
	TotalSize() Size
}

var (
	_ Allocator = (*Heap)(nil)
	_ Allocator = (*LinearHeap)(nil)
	_ Allocator = (*CircularHeap)(nil)
	_ Allocator = (*FreeListHeap)(nil)
	_ Allocator = (*DoubleBufferedHeap)(nil)
)

// addressOf returns the address of the first byte of p.
func addressOf(p []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p)))
}

// region returns block[off:off+size] with its capacity capped to size.
func region(block []byte, off, size Size) []byte {
	end := off + size
	return block[off:end:end]
}

// bump computes the aligned start of a bump allocation and reports whether
// it fits below total.
func bump(offset, size, total Size) (Size, bool) {
	start := AlignUp(offset, MaxAlign)
	if start < offset || start > total || size > total-start {
		return start, false
	}
	return start, true
}
