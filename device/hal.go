// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/wgpu/hal"
)

// HAL adapts a gogpu/wgpu HAL device and queue to [Device].
//
// Buffer creation and writes go through the device and queue. Bind and
// draw calls go to the render pass set with BeginPass; outside a pass they
// are dropped and the first such error is reported by EndPass.
type HAL struct {
	device hal.Device
	queue  hal.Queue

	next    BufferID
	buffers map[BufferID]hal.Buffer
	sizes   map[BufferID]uint64

	pass       hal.RenderPassEncoder
	pipeline   *Pipeline
	bindGroups []hal.BindGroup
	err        error
}

var (
	_ Device        = (*HAL)(nil)
	_ StorageBinder = (*HAL)(nil)
	_ Unbinder      = (*HAL)(nil)
)

// NewHAL returns an adapter over device and queue.
func NewHAL(device hal.Device, queue hal.Queue) *HAL {
	return &HAL{
		device:  device,
		queue:   queue,
		buffers: make(map[BufferID]hal.Buffer),
		sizes:   make(map[BufferID]uint64),
	}
}

// NewHALFromProvider returns an adapter over a host application's shared
// device. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewHALFromProvider(provider gpucontext.DeviceProvider) (*HAL, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNotHALProvider
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return nil, fmt.Errorf("provider HalDevice is not hal.Device: %w", ErrNotHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("provider HalQueue is not hal.Queue: %w", ErrNotHALProvider)
	}
	return NewHAL(dev, queue), nil
}

// CreateBuffer creates a HAL buffer.
func (h *HAL) CreateBuffer(desc BufferDescriptor) (BufferID, error) {
	if desc.Size == 0 {
		return InvalidBuffer, fmt.Errorf("create buffer %q: %w", desc.Label, ErrInvalidSize)
	}
	buf, err := h.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return InvalidBuffer, fmt.Errorf("create buffer %q: %w", desc.Label, err)
	}
	h.next++
	h.buffers[h.next] = buf
	h.sizes[h.next] = desc.Size
	sketch.Logger().Debug("hal: buffer created", "id", h.next, "label", desc.Label, "size", desc.Size)
	return h.next, nil
}

// DestroyBuffer destroys a HAL buffer. Unknown ids are logged and ignored.
func (h *HAL) DestroyBuffer(id BufferID) {
	buf, ok := h.buffers[id]
	if !ok {
		sketch.Logger().Warn("hal: destroy of unknown buffer", "id", id)
		return
	}
	h.device.DestroyBuffer(buf)
	delete(h.buffers, id)
	delete(h.sizes, id)
}

// WriteBuffer queues a write of data at offset.
func (h *HAL) WriteBuffer(id BufferID, offset uint64, data []byte) error {
	buf, ok := h.buffers[id]
	if !ok {
		return fmt.Errorf("write buffer %d: %w", id, ErrUnknownBuffer)
	}
	if size := h.sizes[id]; offset > size || uint64(len(data)) > size-offset {
		return fmt.Errorf("write buffer %d: %d bytes at offset %d exceed size %d: %w",
			id, len(data), offset, size, ErrInvalidSize)
	}
	h.queue.WriteBuffer(buf, offset, data)
	return nil
}

// Buffer returns the HAL buffer behind id, or nil. Callers use it to build
// their own bind groups.
func (h *HAL) Buffer(id BufferID) hal.Buffer { return h.buffers[id] }

// BeginPass directs bind and draw calls to rp until EndPass.
func (h *HAL) BeginPass(rp hal.RenderPassEncoder) {
	h.pass = rp
	h.pipeline = nil
	h.err = nil
}

// SetPipeline binds p for subsequent draws.
func (h *HAL) SetPipeline(p *Pipeline) {
	if !h.inPass("set pipeline") {
		return
	}
	h.pipeline = p
	h.pass.SetPipeline(p.pipeline)
}

// EndPass destroys the bind groups created during the pass and returns the
// first error recorded since BeginPass.
func (h *HAL) EndPass() error {
	for _, bg := range h.bindGroups {
		h.device.DestroyBindGroup(bg)
	}
	h.bindGroups = h.bindGroups[:0]
	h.pass = nil
	h.pipeline = nil
	err := h.err
	h.err = nil
	return err
}

func (h *HAL) fail(err error) {
	if h.err == nil {
		h.err = err
	}
}

func (h *HAL) inPass(op string) bool {
	if h.pass == nil {
		h.fail(fmt.Errorf("%s: %w", op, ErrNoRenderPass))
		return false
	}
	return true
}

// SetVertexBuffer binds id to slot in the current pass.
func (h *HAL) SetVertexBuffer(slot uint32, id BufferID) {
	if !h.inPass("set vertex buffer") {
		return
	}
	buf, ok := h.buffers[id]
	if !ok {
		h.fail(fmt.Errorf("set vertex buffer %d: %w", id, ErrUnknownBuffer))
		return
	}
	h.pass.SetVertexBuffer(slot, buf, 0)
}

// SetIndexBuffer binds id as a uint32 index buffer in the current pass.
func (h *HAL) SetIndexBuffer(id BufferID) {
	if !h.inPass("set index buffer") {
		return
	}
	buf, ok := h.buffers[id]
	if !ok {
		h.fail(fmt.Errorf("set index buffer %d: %w", id, ErrUnknownBuffer))
		return
	}
	h.pass.SetIndexBuffer(buf, gputypes.IndexFormatUint32, 0)
}

// DrawIndexed records an indexed draw in the current pass.
func (h *HAL) DrawIndexed(indexCount, instanceCount uint32) {
	if !h.inPass("draw indexed") {
		return
	}
	h.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

// BindStorageBuffer binds id at binding of bind group 0, using the storage
// layout of the current pipeline.
func (h *HAL) BindStorageBuffer(binding uint32, id BufferID) {
	if !h.inPass("bind storage buffer") {
		return
	}
	if h.pipeline == nil || h.pipeline.storageLayout == nil {
		h.fail(errors.New("bind storage buffer: pipeline has no storage layout"))
		return
	}
	buf, ok := h.buffers[id]
	if !ok {
		h.fail(fmt.Errorf("bind storage buffer %d: %w", id, ErrUnknownBuffer))
		return
	}
	bg, err := h.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sketch_storage_bind",
		Layout: h.pipeline.storageLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: binding, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: h.sizes[id]}},
		},
	})
	if err != nil {
		h.fail(fmt.Errorf("bind storage buffer %d: %w", id, err))
		return
	}
	h.bindGroups = append(h.bindGroups, bg)
	h.pass.SetBindGroup(0, bg, nil)
}

// Unbind is a no-op for HAL: bindings are replaced by the next draw.
func (h *HAL) Unbind() {}

// LiveBuffers returns the number of buffers created and not yet destroyed.
func (h *HAL) LiveBuffers() int { return len(h.buffers) }
