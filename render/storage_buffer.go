package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch/memory"
)

// StorageAlign is the element alignment of storage buffers, matching the
// std430 alignment of a vec4 member.
const StorageAlign = 16

// StorageBuffer holds fixed-size records for a shader storage binding.
// The element size is rounded up to StorageAlign.
type StorageBuffer struct {
	mirror
	elementSize int
}

// NewStorageBuffer returns a storage buffer for capacity records of
// elementSize bytes.
func NewStorageBuffer(elementSize, capacity int, alloc memory.Allocator) *StorageBuffer {
	stride := int(memory.AlignUp(memory.Size(max(elementSize, 1)), StorageAlign))
	return &StorageBuffer{
		mirror: newMirror("sketch_storage",
			gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst, capacity, stride, alloc),
		elementSize: elementSize,
	}
}

// ElementSize returns the unpadded record size.
func (b *StorageBuffer) ElementSize() int { return b.elementSize }

// SetElement overwrites record i with data. i must be active or inside the
// open window.
func (b *StorageBuffer) SetElement(i int, data []byte) {
	if i < 0 || i >= b.active+b.window {
		fatal(ErrCapacityExceeded, "render: set element", "buffer", b.label,
			"index", i, "written", b.active+b.window)
	}
	b.write(i, data)
	b.dirty = true
}

func (b *StorageBuffer) write(i int, data []byte) {
	el := b.element(i)
	n := copy(el, data[:min(len(data), b.elementSize)])
	clear(el[n:])
}

// Push appends one record and returns its index, or -1 when the buffer is
// full.
func (b *StorageBuffer) Push(data []byte) int {
	if b.released {
		fatal(ErrReleased, "render: push", "buffer", b.label)
	}
	if b.open {
		fatal(ErrWindowOpen, "render: push", "buffer", b.label)
	}
	if b.active >= b.capacity {
		return -1
	}
	i := b.active
	b.write(i, data)
	b.active++
	b.dirty = true
	return i
}

// Element returns record i without padding, or nil when i is not active.
func (b *StorageBuffer) Element(i int) []byte {
	if i < 0 || i >= b.active {
		return nil
	}
	return b.element(i)[:b.elementSize]
}
