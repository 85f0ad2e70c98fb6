// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
)

// Op identifies a recorded device call.
type Op uint8

// Recorded operations.
const (
	OpCreateBuffer Op = iota + 1
	OpDestroyBuffer
	OpWriteBuffer
	OpSetVertexBuffer
	OpSetIndexBuffer
	OpDrawIndexed
	OpBindTexture
	OpBindStorageBuffer
	OpUnbind
)

var opNames = [...]string{
	OpCreateBuffer:      "CreateBuffer",
	OpDestroyBuffer:     "DestroyBuffer",
	OpWriteBuffer:       "WriteBuffer",
	OpSetVertexBuffer:   "SetVertexBuffer",
	OpSetIndexBuffer:    "SetIndexBuffer",
	OpDrawIndexed:       "DrawIndexed",
	OpBindTexture:       "BindTexture",
	OpBindStorageBuffer: "BindStorageBuffer",
	OpUnbind:            "Unbind",
}

// String returns the name of the operation.
func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Command is one recorded device call. Only the fields relevant to Op are
// set.
type Command struct {
	Op            Op
	Buffer        BufferID
	Slot          uint32 // vertex slot or storage binding
	Offset        uint64
	Size          uint64 // bytes written or created
	IndexCount    uint32
	InstanceCount uint32
	Texture       TextureID
	TextureSlot   int
}

type headlessBuffer struct {
	label string
	usage gputypes.BufferUsage
	data  []byte
}

// Headless is a Device that needs no graphics context. It records every
// call and keeps a host copy of each buffer so tests can inspect what
// would have reached the GPU.
//
// Headless is not safe for concurrent use.
type Headless struct {
	next           BufferID
	buffers        map[BufferID]*headlessBuffer
	commands       []Command
	created        int
	doubleDestroys int
}

var (
	_ Device        = (*Headless)(nil)
	_ TextureBinder = (*Headless)(nil)
	_ StorageBinder = (*Headless)(nil)
	_ Unbinder      = (*Headless)(nil)
)

// NewHeadless returns an empty recorder.
func NewHeadless() *Headless {
	return &Headless{buffers: make(map[BufferID]*headlessBuffer)}
}

func (h *Headless) record(c Command) { h.commands = append(h.commands, c) }

// CreateBuffer allocates a zeroed host buffer.
func (h *Headless) CreateBuffer(desc BufferDescriptor) (BufferID, error) {
	if desc.Size == 0 {
		return InvalidBuffer, fmt.Errorf("create buffer %q: %w", desc.Label, ErrInvalidSize)
	}
	h.next++
	id := h.next
	h.buffers[id] = &headlessBuffer{
		label: desc.Label,
		usage: desc.Usage,
		data:  make([]byte, desc.Size),
	}
	h.created++
	h.record(Command{Op: OpCreateBuffer, Buffer: id, Size: desc.Size})
	sketch.Logger().Debug("headless: buffer created", "id", id, "label", desc.Label, "size", desc.Size)
	return id, nil
}

// DestroyBuffer drops a buffer. Destroying an unknown buffer is counted
// as a double destroy and logged.
func (h *Headless) DestroyBuffer(id BufferID) {
	h.record(Command{Op: OpDestroyBuffer, Buffer: id})
	if _, ok := h.buffers[id]; !ok {
		h.doubleDestroys++
		sketch.Logger().Warn("headless: destroy of unknown buffer", "id", id)
		return
	}
	delete(h.buffers, id)
}

// WriteBuffer copies data into the host copy of the buffer.
func (h *Headless) WriteBuffer(id BufferID, offset uint64, data []byte) error {
	b, ok := h.buffers[id]
	if !ok {
		return fmt.Errorf("write buffer %d: %w", id, ErrUnknownBuffer)
	}
	size := uint64(len(b.data))
	if offset > size || uint64(len(data)) > size-offset {
		return fmt.Errorf("write buffer %q: %d bytes at offset %d exceed size %d: %w",
			b.label, len(data), offset, size, ErrInvalidSize)
	}
	copy(b.data[offset:], data)
	h.record(Command{Op: OpWriteBuffer, Buffer: id, Offset: offset, Size: uint64(len(data))})
	return nil
}

// SetVertexBuffer records a vertex buffer binding.
func (h *Headless) SetVertexBuffer(slot uint32, id BufferID) {
	h.record(Command{Op: OpSetVertexBuffer, Buffer: id, Slot: slot})
}

// SetIndexBuffer records an index buffer binding.
func (h *Headless) SetIndexBuffer(id BufferID) {
	h.record(Command{Op: OpSetIndexBuffer, Buffer: id})
}

// DrawIndexed records a draw call.
func (h *Headless) DrawIndexed(indexCount, instanceCount uint32) {
	h.record(Command{Op: OpDrawIndexed, IndexCount: indexCount, InstanceCount: instanceCount})
}

// BindTexture records a texture binding.
func (h *Headless) BindTexture(slot int, tex TextureID) {
	h.record(Command{Op: OpBindTexture, Texture: tex, TextureSlot: slot})
}

// BindStorageBuffer records a storage buffer binding.
func (h *Headless) BindStorageBuffer(binding uint32, id BufferID) {
	h.record(Command{Op: OpBindStorageBuffer, Buffer: id, Slot: binding})
}

// Unbind records the end of a draw's bindings.
func (h *Headless) Unbind() {
	h.record(Command{Op: OpUnbind})
}

// Commands returns the recorded calls in order.
func (h *Headless) Commands() []Command { return h.commands }

// Draws returns only the recorded DrawIndexed calls.
func (h *Headless) Draws() []Command {
	var draws []Command
	for _, c := range h.commands {
		if c.Op == OpDrawIndexed {
			draws = append(draws, c)
		}
	}
	return draws
}

// Count returns how many times op was recorded.
func (h *Headless) Count(op Op) int {
	n := 0
	for _, c := range h.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ClearCommands drops the recorded calls. Buffers are kept.
func (h *Headless) ClearCommands() { h.commands = h.commands[:0] }

// BufferData returns the host copy of a live buffer, or nil.
func (h *Headless) BufferData(id BufferID) []byte {
	if b, ok := h.buffers[id]; ok {
		return b.data
	}
	return nil
}

// BufferUsage returns the usage a live buffer was created with.
func (h *Headless) BufferUsage(id BufferID) (gputypes.BufferUsage, bool) {
	b, ok := h.buffers[id]
	if !ok {
		return 0, false
	}
	return b.usage, true
}

// LiveBuffers returns the number of buffers created and not yet destroyed.
func (h *Headless) LiveBuffers() int { return len(h.buffers) }

// CreatedBuffers returns the number of buffers ever created.
func (h *Headless) CreatedBuffers() int { return h.created }

// DoubleDestroys returns how many DestroyBuffer calls hit an unknown id.
func (h *Headless) DoubleDestroys() int { return h.doubleDestroys }
