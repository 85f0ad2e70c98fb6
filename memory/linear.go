package memory

// LinearHeap is a bump allocator over a region of its parent. Individual
// deallocation is not tracked; Free resets the offset to zero so the whole
// region is reused.
type LinearHeap struct {
	block  []byte
	offset Size
	total  Size
}

// NewLinearHeap carves total bytes out of parent.
func NewLinearHeap(parent Allocator, total Size) *LinearHeap {
	return &LinearHeap{
		block: parent.Allocate(total),
		total: total,
	}
}

// Allocate bumps the offset by size bytes after aligning it to MaxAlign.
func (h *LinearHeap) Allocate(size Size) []byte {
	start, ok := bump(h.offset, size, h.total)
	if !ok {
		fatal(ErrOutOfMemory, "linear heap: allocate", "size", size, "used", h.offset, "total", h.total)
	}
	h.offset = start + size
	return region(h.block, start, size)
}

// Deallocate is a no-op.
func (h *LinearHeap) Deallocate([]byte) {}

// Free resets the offset. Earlier allocations are overwritten by later ones.
func (h *LinearHeap) Free() { h.offset = 0 }

// CanAlloc reports whether size more bytes fit before the next Free.
func (h *LinearHeap) CanAlloc(size Size) bool {
	_, ok := bump(h.offset, size, h.total)
	return ok
}

// CurrentSize returns the current offset.
func (h *LinearHeap) CurrentSize() Size { return h.offset }

// TotalSize returns the region size.
func (h *LinearHeap) TotalSize() Size { return h.total }
