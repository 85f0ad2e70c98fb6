package device

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// BufferID is an opaque handle to a device buffer.
type BufferID uint64

// InvalidBuffer is the zero BufferID. No live buffer uses it.
const InvalidBuffer BufferID = 0

// TextureID is an opaque handle to a texture owned by the caller.
type TextureID uint32

// NoTexture means "no texture". It never occupies a sampler slot.
const NoTexture TextureID = 0

var (
	// ErrUnknownBuffer is returned for a BufferID that was never created or
	// was already destroyed.
	ErrUnknownBuffer = errors.New("device: unknown buffer")

	// ErrInvalidSize is returned for zero-sized buffers and writes past the
	// end of a buffer.
	ErrInvalidSize = errors.New("device: invalid size")

	// ErrNoRenderPass is returned when bind or draw calls are issued outside
	// a render pass.
	ErrNoRenderPass = errors.New("device: no render pass")

	// ErrNotHALProvider is returned when a provider does not expose HAL
	// device and queue handles.
	ErrNotHALProvider = errors.New("device: provider does not expose HAL types")
)

// BufferDescriptor describes a device buffer.
type BufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage
}

// Device creates, fills, binds and draws device buffers.
type Device interface {
	// CreateBuffer creates a buffer of desc.Size bytes.
	CreateBuffer(desc BufferDescriptor) (BufferID, error)

	// DestroyBuffer releases a buffer. The id must not be used afterwards.
	DestroyBuffer(id BufferID)

	// WriteBuffer copies data into the buffer starting at offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// SetVertexBuffer binds a vertex or instance buffer to slot.
	SetVertexBuffer(slot uint32, id BufferID)

	// SetIndexBuffer binds a buffer of uint32 indices.
	SetIndexBuffer(id BufferID)

	// DrawIndexed draws indexCount indices, instanceCount times.
	DrawIndexed(indexCount, instanceCount uint32)
}

// TextureBinder is implemented by devices that bind textures to sampler
// slots.
type TextureBinder interface {
	BindTexture(slot int, tex TextureID)
}

// StorageBinder is implemented by devices that bind storage buffers.
type StorageBinder interface {
	BindStorageBuffer(binding uint32, id BufferID)
}

// Unbinder is implemented by devices that need bindings cleared after a
// draw.
type Unbinder interface {
	Unbind()
}
