// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import "github.com/gogpu/sketch"

// CircularHeap is a ring allocator for same-frame scratch data.
//
// The used region is always the interval from tail to head, modulo the ring
// size. Allocation never fails for sizes up to TotalSize, but it can
// invalidate earlier allocations: when the request does not fit ahead of
// head the ring wraps to offset 0, and if the wrapped region would cross
// tail the whole ring is reset instead of overlapping live data.
type CircularHeap struct {
	block  []byte
	head   Size
	tail   Size
	total  Size
	resets int
}

// NewCircularHeap carves total bytes out of parent.
func NewCircularHeap(parent Allocator, total Size) *CircularHeap {
	return &CircularHeap{
		block: parent.Allocate(total),
		total: total,
	}
}

// Allocate returns size bytes at the aligned head, wrapping or resetting the
// ring when needed. Pointers issued before a wrap or reset may be reused.
func (h *CircularHeap) Allocate(size Size) []byte {
	if size > h.total {
		fatal(ErrOutOfMemory, "circular heap: allocate", "size", size, "total", h.total)
	}
	start := AlignUp(h.head, MaxAlign)
	if start > h.total || size > h.total-start {
		start = 0
	}
	if !h.HasSpace(start, size) {
		h.reset()
		start = 0
	}
	h.head = start + size
	return region(h.block, start, size)
}

// HasSpace reports whether an allocation of size bytes at start fits
// without crossing tail.
//
// With head >= tail the free space is [head, total) followed by [0, tail).
// With head < tail the live data straddles the end of the ring and the
// candidate is always rejected, which makes Allocate reset the ring.
func (h *CircularHeap) HasSpace(start, size Size) bool {
	if start > h.total || size > h.total-start {
		return false
	}
	if h.head >= h.tail {
		if start >= h.head {
			return true
		}
		return start+size <= h.tail
	}
	return false
}

func (h *CircularHeap) reset() {
	h.resets++
	sketch.Logger().Debug("circular heap: ring reset",
		"head", h.head, "tail", h.tail, "total", h.total, "resets", h.resets)
	h.head = 0
	h.tail = 0
}

// Deallocate is not supported by a ring allocator and panics.
func (h *CircularHeap) Deallocate(p []byte) {
	if len(p) == 0 && cap(p) == 0 {
		return
	}
	fatal(ErrDeallocateUnsupported, "circular heap: deallocate")
}

// Free resets both cursors.
func (h *CircularHeap) Free() {
	h.head = 0
	h.tail = 0
}

// Retire marks everything allocated so far as consumed by moving tail to
// head. Later allocations continue from head and may wrap over the retired
// region without forcing a reset.
func (h *CircularHeap) Retire() {
	h.tail = h.head
}

// CanAlloc reports whether size bytes fit without wrapping over live data or
// resetting the ring.
func (h *CircularHeap) CanAlloc(size Size) bool {
	if size > h.total {
		return false
	}
	start := AlignUp(h.head, MaxAlign)
	if start > h.total || size > h.total-start {
		start = 0
	}
	return h.HasSpace(start, size)
}

// CurrentSize returns the distance from tail to head.
func (h *CircularHeap) CurrentSize() Size {
	if h.head >= h.tail {
		return h.head - h.tail
	}
	return h.total - h.tail + h.head
}

// TotalSize returns the ring size.
func (h *CircularHeap) TotalSize() Size { return h.total }

// Head returns the write cursor.
func (h *CircularHeap) Head() Size { return h.head }

// Tail returns the start of the oldest live allocation.
func (h *CircularHeap) Tail() Size { return h.tail }

// Resets returns how many times the ring was reset to avoid an overlap.
func (h *CircularHeap) Resets() int { return h.resets }
