package memory

// Tag groups allocations for tracking.
type Tag int32

// NoTag marks a block that has not been allocated from since its last Free.
const NoTag Tag = -1

// TaggedHeapBlock is a [LinearHeap] stamped with the tag of its most recent
// allocation. The block is freed as a unit, so one tag describes all of its
// contents; it is meant for grouping many small per-frame allocations.
type TaggedHeapBlock struct {
	heap *LinearHeap
	tag  Tag
}

// NewTaggedHeapBlock carves total bytes out of parent.
func NewTaggedHeapBlock(parent Allocator, total Size) *TaggedHeapBlock {
	return &TaggedHeapBlock{
		heap: NewLinearHeap(parent, total),
		tag:  NoTag,
	}
}

// Allocate allocates size bytes and stamps the block with tag.
func (b *TaggedHeapBlock) Allocate(tag Tag, size Size) []byte {
	p := b.heap.Allocate(size)
	b.tag = tag
	return p
}

// Free resets the block and clears its tag.
func (b *TaggedHeapBlock) Free() {
	b.heap.Free()
	b.tag = NoTag
}

// Tag returns the tag of the most recent allocation, or NoTag.
func (b *TaggedHeapBlock) Tag() Tag { return b.tag }

// CanAlloc reports whether size more bytes fit.
func (b *TaggedHeapBlock) CanAlloc(size Size) bool { return b.heap.CanAlloc(size) }

// CurrentSize returns the bytes in use.
func (b *TaggedHeapBlock) CurrentSize() Size { return b.heap.CurrentSize() }

// TotalSize returns the block size.
func (b *TaggedHeapBlock) TotalSize() Size { return b.heap.TotalSize() }
