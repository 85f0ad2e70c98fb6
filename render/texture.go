package render

import (
	"slices"

	"github.com/gogpu/sketch/device"
)

// NoSlot is returned when a texture has no sampler slot.
const NoSlot = -1

// TextureManager assigns sampler slots 0..Capacity-1 to textures in first
// use order. Slots are stable until Reset.
type TextureManager struct {
	capacity int
	slots    []device.TextureID
}

// NewTextureManager returns a manager with n slots.
func NewTextureManager(n int) *TextureManager {
	n = max(n, 0)
	return &TextureManager{capacity: n, slots: make([]device.TextureID, 0, n)}
}

// Reserve returns tex's slot, assigning the next free one on first use.
// It returns NoSlot for NoTexture and when every slot is taken.
func (m *TextureManager) Reserve(tex device.TextureID) int {
	if tex == device.NoTexture {
		return NoSlot
	}
	if i := m.Slot(tex); i != NoSlot {
		return i
	}
	if len(m.slots) == m.capacity {
		return NoSlot
	}
	m.slots = append(m.slots, tex)
	return len(m.slots) - 1
}

// CanReserve reports whether Reserve(tex) would not fail. NoTexture needs
// no slot and always can.
func (m *TextureManager) CanReserve(tex device.TextureID) bool {
	return tex == device.NoTexture || len(m.slots) < m.capacity || m.Slot(tex) != NoSlot
}

// Slot returns tex's slot without reserving one.
func (m *TextureManager) Slot(tex device.TextureID) int {
	if tex == device.NoTexture {
		return NoSlot
	}
	return slices.Index(m.slots, tex)
}

// Textures returns the reserved textures in slot order.
func (m *TextureManager) Textures() []device.TextureID { return slices.Clone(m.slots) }

// Len returns the number of reserved slots.
func (m *TextureManager) Len() int { return len(m.slots) }

// Capacity returns the number of slots.
func (m *TextureManager) Capacity() int { return m.capacity }

// Reset frees every slot.
func (m *TextureManager) Reset() { m.slots = m.slots[:0] }
