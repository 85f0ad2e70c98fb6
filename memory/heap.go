package memory

// Heap is the root allocator. It owns one block of fixed size and hands out
// monotonically advancing regions that are never individually freed.
// Sub-allocators ([LinearHeap], [CircularHeap], [FreeListHeap], ...) carve
// their regions out of a Heap.
type Heap struct {
	raw      []byte // backing allocation including alignment slack
	block    []byte // MaxAlign-aligned view of raw, len == total
	offset   Size
	total    Size
	released bool
}

// NewHeap allocates a root heap of total bytes. A zero-sized heap is valid;
// every non-empty allocation from it fails.
func NewHeap(total Size) *Heap {
	raw := make([]byte, total+MaxAlign)
	pad := (MaxAlign - Size(addressOf(raw))%MaxAlign) % MaxAlign
	return &Heap{
		raw:   raw,
		block: raw[pad : pad+total : pad+total],
		total: total,
	}
}

// Allocate returns the next size bytes of the block.
func (h *Heap) Allocate(size Size) []byte {
	if h.released {
		fatal(ErrHeapReleased, "heap: allocate after free", "size", size)
	}
	start, ok := bump(h.offset, size, h.total)
	if !ok {
		fatal(ErrOutOfMemory, "heap: allocate", "size", size, "used", h.offset, "total", h.total)
	}
	h.offset = start + size
	return region(h.block, start, size)
}

// Deallocate is a no-op: the root heap only frees everything at once.
func (h *Heap) Deallocate([]byte) {}

// Free releases the whole block. Allocating afterwards panics.
func (h *Heap) Free() {
	h.raw = nil
	h.block = nil
	h.offset = 0
	h.released = true
}

// CanAlloc reports whether size more bytes fit.
func (h *Heap) CanAlloc(size Size) bool {
	if h.released {
		return false
	}
	_, ok := bump(h.offset, size, h.total)
	return ok
}

// CurrentSize returns the bytes handed out so far, including alignment padding.
func (h *Heap) CurrentSize() Size { return h.offset }

// TotalSize returns the block size.
func (h *Heap) TotalSize() Size { return h.total }

// Released reports whether Free has been called.
func (h *Heap) Released() bool { return h.released }
