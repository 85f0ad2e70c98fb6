package render

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch/device"
)

// RenderItem is one shape as produced by the drawing API.
//
// Positions and Normals are in object space. Items without Indices are
// drawn as a triangle list over their vertices in order.
type RenderItem struct {
	// GeometryID identifies shared geometry for instancing.
	GeometryID uint64

	Positions []f32.Vec3
	Normals   []f32.Vec3
	UVs       []f32.Vec2
	Indices   []uint32

	// Textures lists the textures the item samples. The first one is the
	// diffuse texture.
	Textures []device.TextureID

	Material *Material
}

// VertexCount returns the number of vertices.
func (it *RenderItem) VertexCount() int { return len(it.Positions) }

// IndexCount returns the number of indices the item contributes.
func (it *RenderItem) IndexCount() int {
	if len(it.Indices) > 0 {
		return len(it.Indices)
	}
	return len(it.Positions)
}

// DiffuseTexture returns the first texture, falling back to the
// material's diffuse texture.
func (it *RenderItem) DiffuseTexture() device.TextureID {
	if len(it.Textures) > 0 {
		return it.Textures[0]
	}
	if it.Material != nil {
		return it.Material.DiffuseTexture
	}
	return device.NoTexture
}

// MaterialSize is the encoded size of a Material.
const MaterialSize = 64

// Material describes the surface of an instanced item.
type Material struct {
	Ambient        f32.Vec4
	Diffuse        f32.Vec4
	Specular       f32.Vec4
	Shininess      float32
	DiffuseTexture device.TextureID
}

// DefaultMaterial is a white, untextured material.
func DefaultMaterial() Material {
	return Material{
		Ambient:   f32.Vec4{0.1, 0.1, 0.1, 1},
		Diffuse:   f32.Vec4{1, 1, 1, 1},
		Specular:  f32.Vec4{1, 1, 1, 1},
		Shininess: 32,
	}
}

// Encode writes the storage record for m into dst, which must hold
// MaterialSize bytes. slot is the sampler slot of the diffuse texture, or
// NoSlot.
//
// Layout (std430): ambient at 0, diffuse at 16, specular at 32, shininess
// at 48, diffuse slot (i32) at 52, 8 bytes of padding.
func (m *Material) Encode(dst []byte, slot int) {
	_ = dst[MaterialSize-1]
	putVec4(dst[0:], m.Ambient)
	putVec4(dst[16:], m.Diffuse)
	putVec4(dst[32:], m.Specular)
	binary.LittleEndian.PutUint32(dst[48:], math.Float32bits(m.Shininess))
	binary.LittleEndian.PutUint32(dst[52:], uint32(int32(slot)))
	clear(dst[56:MaterialSize])
}

func putVec4(dst []byte, v f32.Vec4) {
	for i, c := range v {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(c))
	}
}

// materialKey identifies a material by the bits of its fields. All NaNs
// share one key and both zeros share another, so lookups follow value
// equality except that NaN matches NaN.
type materialKey struct {
	bits    [13]uint32
	texture device.TextureID
}

func (m *Material) key() materialKey {
	k := materialKey{texture: m.DiffuseTexture}
	i := 0
	for _, v := range [...]f32.Vec4{m.Ambient, m.Diffuse, m.Specular} {
		for _, c := range v {
			k.bits[i] = canonicalBits(c)
			i++
		}
	}
	k.bits[i] = canonicalBits(m.Shininess)
	return k
}

func canonicalBits(f float32) uint32 {
	switch {
	case math.IsNaN(float64(f)):
		return 0x7fc00000
	case f == 0:
		return 0
	}
	return math.Float32bits(f)
}
