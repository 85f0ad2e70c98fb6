// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/device"
	"github.com/gogpu/sketch/memory"
)

// Default batch capacities.
const (
	DefaultMaxVertices = 1 << 16
	DefaultMaxIndices  = 1 << 17
	DefaultMaxTextures = 8
)

// BatchConfig fixes the capacities of a batch at construction.
type BatchConfig struct {
	MaxVertices int
	MaxIndices  int

	// MaxTextures is the number of sampler slots. Zero disables texture
	// slotting; item textures are then ignored.
	MaxTextures int

	// Layout defaults to DefaultVertexLayout.
	Layout *Layout

	// Allocator backs the host mirrors. Nil uses the Go heap.
	Allocator memory.Allocator
}

// DefaultBatchConfig returns the default capacities.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MaxVertices: DefaultMaxVertices,
		MaxIndices:  DefaultMaxIndices,
		MaxTextures: DefaultMaxTextures,
	}
}

func (c BatchConfig) withDefaults() BatchConfig {
	if c.Layout == nil {
		c.Layout = DefaultVertexLayout()
	}
	return c
}

// Batch is one vertex buffer, one index buffer and a sampler slot table,
// drawn with a single indexed draw call.
type Batch struct {
	cfg      BatchConfig
	vertices *VertexBuffer
	indices  *IndexBuffer
	textures *TextureManager
}

// NewBatch returns an empty batch.
func NewBatch(cfg BatchConfig) *Batch {
	cfg = cfg.withDefaults()
	b := &Batch{
		cfg:      cfg,
		vertices: NewVertexBuffer(cfg.Layout, cfg.MaxVertices, cfg.Allocator),
		indices:  NewIndexBuffer(cfg.MaxIndices, cfg.Allocator),
	}
	if cfg.MaxTextures > 0 {
		b.textures = NewTextureManager(cfg.MaxTextures)
	}
	return b
}

// Config returns the batch's capacities.
func (b *Batch) Config() BatchConfig { return b.cfg }

// CanAdd reports whether v more vertices and i more indices fit. Both
// totals must stay strictly below capacity.
func (b *Batch) CanAdd(v, i int) bool {
	return b.vertices.Len()+v < b.cfg.MaxVertices && b.indices.Len()+i < b.cfg.MaxIndices
}

// CanAddTexture reports whether tex can get a sampler slot.
func (b *Batch) CanAddTexture(tex device.TextureID) bool {
	return b.textures == nil || b.textures.CanReserve(tex)
}

// CanAccept reports whether item fits in full.
func (b *Batch) CanAccept(item *RenderItem) bool {
	return b.CanAdd(item.VertexCount(), item.IndexCount()) && b.CanAddTexture(item.DiffuseTexture())
}

// AddIndices appends indices offset by the current vertex count. It must
// be called before the vertices they refer to are added.
func (b *Batch) AddIndices(indices []uint32) {
	base := uint32(b.vertices.Len())
	WithIndexScope(b.indices, len(indices), func(s *IndexScope) {
		s.SetIndexData(indices, base)
	})
}

// AddSequentialIndices appends n indices numbering the next n vertices.
func (b *Batch) AddSequentialIndices(n int) {
	base := uint32(b.vertices.Len())
	WithIndexScope(b.indices, n, func(s *IndexScope) {
		s.SetSequentialIndexData(base)
	})
}

// AddVertices copies item's vertices, transforms the new positions and
// normals by world, stamps color on them and resolves the diffuse texture
// to a sampler slot. Running out of sampler slots panics with
// ErrSamplerTableFull.
func (b *Batch) AddVertices(item *RenderItem, color f32.Vec4, world f32.Mat4) {
	slot := NoSlot
	if tex := item.DiffuseTexture(); b.textures != nil && tex != device.NoTexture {
		if slot = b.textures.Reserve(tex); slot == NoSlot {
			fatal(ErrSamplerTableFull, "render: add vertices",
				"texture", tex, "slots", b.textures.Capacity())
		}
	}

	layout := b.vertices.Layout()
	first := b.vertices.Len()
	n := WithAppendScope(b.vertices, item.VertexCount(), func(s *AppendScope) {
		s.SetAttributeData(AttributePosition, flatVec3(item.Positions))
		if layout.Has(AttributeNormal) {
			if len(item.Normals) > 0 {
				s.SetAttributeData(AttributeNormal, flatVec3(item.Normals))
			} else {
				s.MapAttributeData(AttributeNormal, []float32{0, 0, 1})
			}
		}
		if layout.Has(AttributeTexCoord) {
			if len(item.UVs) > 0 {
				s.SetAttributeData(AttributeTexCoord, flatVec2(item.UVs))
			} else {
				s.MapAttributeData(AttributeTexCoord, []float32{0, 0})
			}
		}
		if layout.Has(AttributeColor) {
			s.MapAttributeData(AttributeColor, color[:])
		}
		if layout.Has(AttributeDiffuseTextureIndex) {
			s.MapAttributeData(AttributeDiffuseTextureIndex, []float32{float32(slot)})
		}
	})

	if world == Identity() {
		return
	}
	b.vertices.TransformAttributeData(AttributePosition, first, n, func(v []float32) {
		transformPoint(&world, v)
	})
	if layout.Has(AttributeNormal) {
		nm := normalMatrix(&world)
		b.vertices.TransformAttributeData(AttributeNormal, first, n, func(v []float32) {
			transformNormal(&nm, v)
		})
	}
}

// Add merges item into the batch: indices first, then vertices.
func (b *Batch) Add(item *RenderItem, color f32.Vec4, world f32.Mat4) {
	if len(item.Indices) > 0 {
		b.AddIndices(item.Indices)
	} else {
		b.AddSequentialIndices(item.VertexCount())
	}
	b.AddVertices(item, color, world)
}

// HasData reports whether the batch holds any vertices.
func (b *Batch) HasData() bool { return b.vertices.Len() > 0 }

// VertexCount returns the number of active vertices.
func (b *Batch) VertexCount() int { return b.vertices.Len() }

// IndexCount returns the number of active indices.
func (b *Batch) IndexCount() int { return b.indices.Len() }

// Vertices returns the vertex buffer.
func (b *Batch) Vertices() *VertexBuffer { return b.vertices }

// Indices returns the index buffer.
func (b *Batch) Indices() *IndexBuffer { return b.indices }

// Textures returns the textures bound by the batch in slot order.
func (b *Batch) Textures() []device.TextureID {
	if b.textures == nil {
		return nil
	}
	return b.textures.Textures()
}

// Free empties the batch for reuse.
func (b *Batch) Free() {
	b.vertices.Free()
	b.indices.Free()
	if b.textures != nil {
		b.textures.Reset()
	}
}

// Upload writes changed buffers to dev and returns the bytes written.
func (b *Batch) Upload(dev device.Device) (int, error) {
	nv, err := b.vertices.Upload(dev)
	if err != nil {
		return nv, err
	}
	ni, err := b.indices.Upload(dev)
	return nv + ni, err
}

// Release destroys the batch's device buffers. Only the first call has an
// effect.
func (b *Batch) Release(dev device.Device) {
	if b.vertices.Released() {
		return
	}
	b.vertices.Release(dev)
	b.indices.Release(dev)
	sketch.Logger().Debug("render: batch released", "vertices", b.cfg.MaxVertices, "indices", b.cfg.MaxIndices)
}
