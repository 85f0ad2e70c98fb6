// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch/device"
	"github.com/gogpu/sketch/memory"
)

// Default instance capacities.
const (
	DefaultMaxInstances = 4096
	DefaultMaxMaterials = 256
)

// InstanceConfig fixes the capacities of an instance at construction.
type InstanceConfig struct {
	MaxInstances int
	MaxMaterials int

	// MaxTextures is the number of sampler slots for material textures.
	MaxTextures int

	// VertexLayout defaults to DefaultVertexLayout and InstanceLayout to
	// DefaultInstanceLayout.
	VertexLayout   *Layout
	InstanceLayout *Layout

	// Allocator backs the host mirrors. Nil uses the Go heap.
	Allocator memory.Allocator
}

// DefaultInstanceConfig returns the default capacities.
func DefaultInstanceConfig() InstanceConfig {
	return InstanceConfig{
		MaxInstances: DefaultMaxInstances,
		MaxMaterials: DefaultMaxMaterials,
		MaxTextures:  DefaultMaxTextures,
	}
}

func (c InstanceConfig) withDefaults() InstanceConfig {
	if c.VertexLayout == nil {
		c.VertexLayout = DefaultVertexLayout()
	}
	if c.InstanceLayout == nil {
		c.InstanceLayout = DefaultInstanceLayout()
	}
	return c
}

var white = f32.Vec4{1, 1, 1, 1}

// Instance draws one base geometry many times. The base vertices and
// indices are written once at construction; every Append adds one
// per-instance record.
type Instance struct {
	geometryID uint64
	cfg        InstanceConfig

	vertices  *VertexBuffer
	indices   *IndexBuffer
	instances *InstanceBuffer
	materials *StorageBuffer
	textures  *TextureManager

	materialIndex map[materialKey]int32
	baseUploaded  bool
	record        [MaterialSize]byte
}

// NewInstance returns an instance whose base geometry is item's, in object
// space.
func NewInstance(item *RenderItem, cfg InstanceConfig) *Instance {
	cfg = cfg.withDefaults()
	inst := &Instance{
		geometryID:    item.GeometryID,
		cfg:           cfg,
		vertices:      NewVertexBuffer(cfg.VertexLayout, item.VertexCount(), cfg.Allocator),
		indices:       NewIndexBuffer(item.IndexCount(), cfg.Allocator),
		instances:     NewInstanceBuffer(cfg.InstanceLayout, cfg.MaxInstances, cfg.Allocator),
		materials:     NewStorageBuffer(MaterialSize, cfg.MaxMaterials, cfg.Allocator),
		textures:      NewTextureManager(cfg.MaxTextures),
		materialIndex: make(map[materialKey]int32),
	}
	inst.writeBase(item)
	return inst
}

func (inst *Instance) writeBase(item *RenderItem) {
	WithIndexScope(inst.indices, item.IndexCount(), func(s *IndexScope) {
		if len(item.Indices) > 0 {
			s.SetIndexData(item.Indices, 0)
		} else {
			s.SetSequentialIndexData(0)
		}
	})

	layout := inst.vertices.Layout()
	WithAppendScope(inst.vertices, item.VertexCount(), func(s *AppendScope) {
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
			s.MapAttributeData(AttributeColor, white[:])
		}
		if layout.Has(AttributeDiffuseTextureIndex) {
			s.MapAttributeData(AttributeDiffuseTextureIndex, []float32{NoSlot})
		}
	})
}

// GeometryID returns the geometry the instance draws.
func (inst *Instance) GeometryID() uint64 { return inst.geometryID }

// CanAdd reports whether one more instance record fits.
func (inst *Instance) CanAdd() bool { return inst.instances.Remaining() > 0 }

// CanAddMaterial reports whether m can be referenced by a new record.
// A nil or already stored material always can.
func (inst *Instance) CanAddMaterial(m *Material) bool {
	if m == nil {
		return true
	}
	if _, ok := inst.materialIndex[m.key()]; ok {
		return true
	}
	return inst.materials.Remaining() > 0 && inst.textures.CanReserve(m.DiffuseTexture)
}

// CanAccept reports whether a record with material m fits.
func (inst *Instance) CanAccept(m *Material) bool { return inst.CanAdd() && inst.CanAddMaterial(m) }

// Append adds one instance record and returns its index. Materials are
// stored once per frame; a nil material is recorded as index -1.
// Appending past capacity panics with ErrCapacityExceeded.
func (inst *Instance) Append(color f32.Vec4, world f32.Mat4, m *Material) int {
	if !inst.CanAccept(m) {
		fatal(ErrCapacityExceeded, "render: append instance",
			"geometry", inst.geometryID, "instances", inst.instances.Len(), "materials", inst.materials.Len())
	}
	material := inst.materialID(m)

	i := inst.instances.Len()
	WithAppendScope(inst.instances, 1, func(s *AppendScope) {
		for j, t := range [4]AttributeType{
			AttributeModelMatrixColumn0, AttributeModelMatrixColumn1,
			AttributeModelMatrixColumn2, AttributeModelMatrixColumn3,
		} {
			col := column(&world, j)
			s.SetAttributeData(t, col[:])
		}
		s.SetAttributeData(AttributeInstanceColor, color[:])
		s.SetAttributeData(AttributeMaterialIndex, []float32{float32(material)})
	})
	return i
}

func (inst *Instance) materialID(m *Material) int32 {
	if m == nil {
		return -1
	}
	k := m.key()
	if id, ok := inst.materialIndex[k]; ok {
		return id
	}
	slot := inst.textures.Reserve(m.DiffuseTexture)
	m.Encode(inst.record[:], slot)
	id := int32(inst.materials.Push(inst.record[:]))
	inst.materialIndex[k] = id
	return id
}

// InstanceCount returns the number of records appended this frame.
func (inst *Instance) InstanceCount() int { return inst.instances.Len() }

// MaterialCount returns the number of stored materials.
func (inst *Instance) MaterialCount() int { return inst.materials.Len() }

// HasData reports whether any record was appended.
func (inst *Instance) HasData() bool { return inst.instances.Len() > 0 }

// VertexCount returns the base geometry's vertex count.
func (inst *Instance) VertexCount() int { return inst.vertices.Len() }

// IndexCount returns the base geometry's index count.
func (inst *Instance) IndexCount() int { return inst.indices.Len() }

// Vertices returns the base vertex buffer.
func (inst *Instance) Vertices() *VertexBuffer { return inst.vertices }

// Indices returns the base index buffer.
func (inst *Instance) Indices() *IndexBuffer { return inst.indices }

// Instances returns the per-instance buffer.
func (inst *Instance) Instances() *InstanceBuffer { return inst.instances }

// Materials returns the material storage buffer.
func (inst *Instance) Materials() *StorageBuffer { return inst.materials }

// Textures returns the material textures in slot order.
func (inst *Instance) Textures() []device.TextureID { return inst.textures.Textures() }

// Reset clears the instance records and materials. The base geometry is
// kept.
func (inst *Instance) Reset() {
	inst.instances.Free()
	inst.materials.Free()
	inst.textures.Reset()
	clear(inst.materialIndex)
}

// Upload writes the base geometry on first use and the instance records and
// materials when they changed. It returns the bytes written.
func (inst *Instance) Upload(dev device.Device) (int, error) {
	total := 0
	if !inst.baseUploaded {
		n, err := inst.vertices.Upload(dev)
		total += n
		if err != nil {
			return total, err
		}
		n, err = inst.indices.Upload(dev)
		total += n
		if err != nil {
			return total, err
		}
		inst.baseUploaded = true
	}
	n, err := inst.instances.Upload(dev)
	total += n
	if err != nil {
		return total, err
	}
	n, err = inst.materials.Upload(dev)
	return total + n, err
}

// Release destroys every device buffer of the instance. Only the first call
// has an effect.
func (inst *Instance) Release(dev device.Device) {
	inst.vertices.Release(dev)
	inst.indices.Release(dev)
	inst.instances.Release(dev)
	inst.materials.Release(dev)
	inst.materialIndex = nil
}
