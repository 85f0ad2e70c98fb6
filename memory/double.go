package memory

// DoubleBufferedHeap owns two equally sized [LinearHeap]s. Allocations
// always target the active one. Free swaps the active heap and clears the
// new one, so data written during the previous frame stays valid for one
// more frame while the GPU may still read it.
type DoubleBufferedHeap struct {
	heaps  [2]*LinearHeap
	active int
}

// NewDoubleBufferedHeap carves two regions of perBuffer bytes out of parent.
func NewDoubleBufferedHeap(parent Allocator, perBuffer Size) *DoubleBufferedHeap {
	return &DoubleBufferedHeap{
		heaps: [2]*LinearHeap{
			NewLinearHeap(parent, perBuffer),
			NewLinearHeap(parent, perBuffer),
		},
	}
}

// Allocate allocates from the active buffer.
func (h *DoubleBufferedHeap) Allocate(size Size) []byte {
	return h.heaps[h.active].Allocate(size)
}

// Deallocate forwards to the active buffer.
func (h *DoubleBufferedHeap) Deallocate(p []byte) {
	h.heaps[h.active].Deallocate(p)
}

// Free swaps the active buffer, then clears the new active buffer.
func (h *DoubleBufferedHeap) Free() {
	h.active ^= 1
	h.heaps[h.active].Free()
}

// CanAlloc reports whether the active buffer can take size bytes.
func (h *DoubleBufferedHeap) CanAlloc(size Size) bool {
	return h.heaps[h.active].CanAlloc(size)
}

// CurrentSize returns the bytes in use across both buffers.
func (h *DoubleBufferedHeap) CurrentSize() Size {
	return h.heaps[0].CurrentSize() + h.heaps[1].CurrentSize()
}

// TotalSize returns the combined capacity of both buffers.
func (h *DoubleBufferedHeap) TotalSize() Size {
	return h.heaps[0].TotalSize() + h.heaps[1].TotalSize()
}

// Active returns the index (0 or 1) of the buffer receiving allocations.
func (h *DoubleBufferedHeap) Active() int { return h.active }

// Buffer returns buffer i.
func (h *DoubleBufferedHeap) Buffer(i int) *LinearHeap { return h.heaps[i] }
