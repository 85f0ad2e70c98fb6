package render

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/memory"
)

// AttributeBuffer is a host mirror of interleaved elements described by a
// Layout. [VertexBuffer] and [InstanceBuffer] embed it.
//
// Writes go through an append window:
//
//	n := buf.Open(len(positions))
//	buf.SetAttributeData(AttributePosition, flat)
//	buf.MapAttributeData(AttributeColor, color[:])
//	buf.Close()
//
// Elements inside the window become active only on Close.
type AttributeBuffer struct {
	mirror
	layout *Layout
}

func newAttributeBuffer(label string, usage gputypes.BufferUsage, layout *Layout, capacity int, alloc memory.Allocator) AttributeBuffer {
	return AttributeBuffer{
		mirror: newMirror(label, usage, capacity, layout.Stride(), alloc),
		layout: layout,
	}
}

// Layout returns the element layout.
func (b *AttributeBuffer) Layout() *Layout { return b.layout }

// attribute looks up t and logs an error when the layout lacks it.
func (b *AttributeBuffer) attribute(t AttributeType, op string) (Attribute, bool) {
	a, ok := b.layout.Find(t)
	if !ok {
		sketch.Logger().Error("render: unknown attribute", "op", op, "attribute", t, "buffer", b.label)
	}
	return a, ok
}

func putComponent(dst []byte, d DataType, v float32) {
	var bits uint32
	switch d {
	case DataTypeInt32:
		bits = uint32(int32(v))
	case DataTypeUint32:
		bits = uint32(v)
	default:
		bits = math.Float32bits(v)
	}
	binary.LittleEndian.PutUint32(dst, bits)
}

func getComponent(src []byte, d DataType) float32 {
	bits := binary.LittleEndian.Uint32(src)
	switch d {
	case DataTypeInt32:
		return float32(int32(bits))
	case DataTypeUint32:
		return float32(bits)
	default:
		return math.Float32frombits(bits)
	}
}

func (b *AttributeBuffer) put(i int, a Attribute, v []float32) {
	el := b.element(i)[a.Offset:]
	for c := range a.Count {
		putComponent(el[c*4:], a.DataType, v[c])
	}
}

func (b *AttributeBuffer) get(i int, a Attribute, v []float32) {
	el := b.element(i)[a.Offset:]
	for c := range a.Count {
		v[c] = getComponent(el[c*4:], a.DataType)
	}
}

// SetAttributeData copies attribute t of the window's elements from
// tightly packed src, Count values per element. A short src fills only the
// elements it covers.
func (b *AttributeBuffer) SetAttributeData(t AttributeType, src []float32) {
	b.requireOpen("set attribute data")
	a, ok := b.attribute(t, "set attribute data")
	if !ok {
		return
	}
	n := min(b.window, len(src)/a.Count)
	for i := range n {
		b.put(b.active+i, a, src[i*a.Count:])
	}
}

// MapAttributeData writes value to attribute t of every element in the
// window.
func (b *AttributeBuffer) MapAttributeData(t AttributeType, value []float32) {
	b.requireOpen("map attribute data")
	a, ok := b.attribute(t, "map attribute data")
	if !ok {
		return
	}
	if len(value) < a.Count {
		sketch.Logger().Error("render: short attribute value",
			"attribute", t, "want", a.Count, "got", len(value), "buffer", b.label)
		return
	}
	for i := range b.window {
		b.put(b.active+i, a, value)
	}
}

// SetAttributeBytes copies attribute t of the window's elements from raw
// tightly packed bytes, Size bytes per element.
func (b *AttributeBuffer) SetAttributeBytes(t AttributeType, src []byte) {
	b.requireOpen("set attribute bytes")
	a, ok := b.attribute(t, "set attribute bytes")
	if !ok {
		return
	}
	size := a.Size()
	n := min(b.window, len(src)/size)
	for i := range n {
		copy(b.element(b.active+i)[a.Offset:a.Offset+size], src[i*size:])
	}
}

// TransformAttributeData calls fn in place on attribute t of count elements
// starting at first. The range may include the open window.
func (b *AttributeBuffer) TransformAttributeData(t AttributeType, first, count int, fn func(v []float32)) {
	a, ok := b.attribute(t, "transform attribute data")
	if !ok {
		return
	}
	if first < 0 || count < 0 || first+count > b.active+b.window {
		fatal(ErrCapacityExceeded, "render: transform attribute data", "buffer", b.label,
			"first", first, "count", count, "written", b.active+b.window)
	}
	var scratch [4]float32
	v := scratch[:a.Count]
	for i := first; i < first+count; i++ {
		b.get(i, a, v)
		fn(v)
		b.put(i, a, v)
	}
	if count > 0 {
		b.dirty = true
	}
}

// Attribute returns attribute t of element i, or nil when i is not active
// or the layout lacks t.
func (b *AttributeBuffer) Attribute(i int, t AttributeType) []float32 {
	a, ok := b.layout.Find(t)
	if !ok || i < 0 || i >= b.active {
		return nil
	}
	v := make([]float32, a.Count)
	b.get(i, a, v)
	return v
}

// VertexBuffer holds per-vertex attributes.
type VertexBuffer struct {
	AttributeBuffer
}

// NewVertexBuffer returns a vertex buffer for capacity elements of layout.
// The host mirror is taken from alloc when it has room and from the Go heap
// otherwise; alloc may be nil.
func NewVertexBuffer(layout *Layout, capacity int, alloc memory.Allocator) *VertexBuffer {
	return &VertexBuffer{newAttributeBuffer("sketch_vertices",
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, layout, capacity, alloc)}
}

// InstanceBuffer holds per-instance attributes.
type InstanceBuffer struct {
	AttributeBuffer
}

// NewInstanceBuffer returns an instance buffer for capacity elements of
// layout.
func NewInstanceBuffer(layout *Layout, capacity int, alloc memory.Allocator) *InstanceBuffer {
	return &InstanceBuffer{newAttributeBuffer("sketch_instances",
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst, layout, capacity, alloc)}
}
