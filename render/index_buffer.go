package render

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch/memory"
)

const indexSize = 4

// IndexBuffer holds uint32 indices.
type IndexBuffer struct {
	mirror
}

// NewIndexBuffer returns an index buffer for capacity indices.
func NewIndexBuffer(capacity int, alloc memory.Allocator) *IndexBuffer {
	return &IndexBuffer{newMirror("sketch_indices",
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst, capacity, indexSize, alloc)}
}

// SetIndexData writes src into the window, adding base to every index.
func (b *IndexBuffer) SetIndexData(src []uint32, base uint32) {
	b.requireOpen("set index data")
	n := min(b.window, len(src))
	for i := range n {
		binary.LittleEndian.PutUint32(b.element(b.active+i), src[i]+base)
	}
}

// SetSequentialIndexData fills the window with base, base+1, ...
func (b *IndexBuffer) SetSequentialIndexData(base uint32) {
	b.requireOpen("set index data")
	for i := range b.window {
		binary.LittleEndian.PutUint32(b.element(b.active+i), base+uint32(i))
	}
}

// Index returns active index i.
func (b *IndexBuffer) Index(i int) uint32 {
	return binary.LittleEndian.Uint32(b.element(i))
}

// Indices returns a copy of the active indices.
func (b *IndexBuffer) Indices() []uint32 {
	out := make([]uint32, b.active)
	for i := range out {
		out[i] = b.Index(i)
	}
	return out
}
