// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package memory

import (
	"slices"
	"sort"
)

// HeaderSize is the bookkeeping space reserved in front of every
// [FreeListHeap] allocation. Block sizes include it.
const HeaderSize = MaxAlign

// span is a contiguous byte range of the heap's region.
type span struct {
	offset Size
	size   Size
}

func (s span) end() Size { return s.offset + s.size }

// FreeListHeap is a first-fit allocator with an address-ordered free list
// and coalescing on deallocation.
//
// Each block is laid out as a HeaderSize prefix followed by the user region.
// Block metadata lives out of band: free spans are kept in a slice sorted by
// offset, and issued blocks in a table keyed by user offset. Keeping the
// free list sorted makes merging with the previous and next neighbor a pair
// of offset comparisons.
type FreeListHeap struct {
	block     []byte
	base      uintptr
	total     Size
	used      Size
	free      []span
	allocated map[Size]Size // user offset -> block size
}

// NewFreeListHeap carves total bytes out of parent. total is rounded down
// to a multiple of MaxAlign.
func NewFreeListHeap(parent Allocator, total Size) *FreeListHeap {
	total &^= MaxAlign - 1
	block := parent.Allocate(total)
	h := &FreeListHeap{
		block:     block,
		base:      addressOf(block),
		total:     total,
		allocated: make(map[Size]Size),
	}
	h.Free()
	return h
}

// blockSize returns the block size needed to serve a request of size bytes.
func blockSize(size Size) Size {
	return AlignUp(max(size, 1), MaxAlign) + HeaderSize
}

// findFit returns the index of the first free span that can hold need
// bytes, or -1.
func (h *FreeListHeap) findFit(need Size) int {
	for i, s := range h.free {
		if s.size >= need {
			return i
		}
	}
	return -1
}

// Allocate returns a region of size bytes from the first free block that
// fits. The block is split when the remainder is larger than one header;
// otherwise it is consumed whole. The returned slice's capacity is capped
// to size. Allocating zero bytes returns nil and reserves nothing.
func (h *FreeListHeap) Allocate(size Size) []byte {
	if size == 0 {
		return nil
	}
	need := blockSize(size)
	i := h.findFit(need)
	if i < 0 {
		fatal(ErrOutOfMemory, "free-list heap: allocate",
			"size", size, "used", h.used, "total", h.total, "free_blocks", len(h.free))
	}

	s := h.free[i]
	bs := need
	if s.size-need > HeaderSize {
		h.free[i] = span{offset: s.offset + need, size: s.size - need}
	} else {
		bs = s.size
		h.free = slices.Delete(h.free, i, i+1)
	}

	user := s.offset + HeaderSize
	h.allocated[user] = bs
	h.used += bs
	return region(h.block, user, size)
}

// Deallocate returns p's block to the free list and merges it with adjacent
// free blocks. Deallocating nil is a no-op.
func (h *FreeListHeap) Deallocate(p []byte) {
	if len(p) == 0 && cap(p) == 0 {
		return
	}
	addr := addressOf(p)
	if addr < h.base || addr >= h.base+uintptr(h.total) {
		fatal(ErrInvalidPointer, "free-list heap: deallocate outside region")
	}
	user := Size(addr - h.base)
	bs, ok := h.allocated[user]
	if !ok {
		fatal(ErrInvalidPointer, "free-list heap: deallocate", "offset", user)
	}
	delete(h.allocated, user)
	h.used -= bs
	h.insert(span{offset: user - HeaderSize, size: bs})
}

// insert adds b to the free list in address order, coalescing with the
// previous span when prev.end() == b.offset and with the next span when
// b.end() == next.offset.
func (h *FreeListHeap) insert(b span) {
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].offset > b.offset })

	if i > 0 && h.free[i-1].end() == b.offset {
		prev := &h.free[i-1]
		prev.size += b.size
		if i < len(h.free) && prev.end() == h.free[i].offset {
			prev.size += h.free[i].size
			h.free = slices.Delete(h.free, i, i+1)
		}
		return
	}
	if i < len(h.free) && b.end() == h.free[i].offset {
		h.free[i].offset = b.offset
		h.free[i].size += b.size
		return
	}
	h.free = slices.Insert(h.free, i, b)
}

// Free returns the heap to a single free block spanning the whole region.
func (h *FreeListHeap) Free() {
	h.free = h.free[:0]
	if h.total > 0 {
		h.free = append(h.free, span{offset: 0, size: h.total})
	}
	clear(h.allocated)
	h.used = 0
}

// CanAlloc reports whether Allocate(size) would succeed.
func (h *FreeListHeap) CanAlloc(size Size) bool {
	return h.findFit(blockSize(size)) >= 0
}

// CurrentSize returns the bytes held by issued blocks, headers included.
func (h *FreeListHeap) CurrentSize() Size { return h.used }

// TotalSize returns the region size.
func (h *FreeListHeap) TotalSize() Size { return h.total }

// FreeBlocks returns the number of spans in the free list.
func (h *FreeListHeap) FreeBlocks() int { return len(h.free) }

// LargestFreeBlock returns the size of the largest free span.
func (h *FreeListHeap) LargestFreeBlock() Size {
	var largest Size
	for _, s := range h.free {
		largest = max(largest, s.size)
	}
	return largest
}
