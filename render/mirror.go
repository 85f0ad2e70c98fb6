// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/device"
	"github.com/gogpu/sketch/memory"
)

// mirror is the host-side copy of one device buffer plus its append window.
// Every typed buffer embeds one.
type mirror struct {
	label    string
	usage    gputypes.BufferUsage
	stride   int
	capacity int
	data     []byte
	alloc    memory.Allocator // nil when data lives on the Go heap

	active int
	window int
	open   bool
	dirty  bool

	id       device.BufferID
	released bool
}

func newMirror(label string, usage gputypes.BufferUsage, capacity, stride int, alloc memory.Allocator) mirror {
	capacity = max(capacity, 0)
	m := mirror{
		label:    label,
		usage:    usage,
		stride:   stride,
		capacity: capacity,
	}
	size := memory.Size(capacity * stride)
	switch {
	case size == 0:
	case alloc != nil && alloc.CanAlloc(size):
		m.data = alloc.Allocate(size)
		m.alloc = alloc
	default:
		if alloc != nil {
			sketch.Logger().Warn("render: allocator exhausted, falling back to Go heap",
				"buffer", label, "size", size, "used", alloc.CurrentSize(), "total", alloc.TotalSize())
		}
		m.data = make([]byte, size)
	}
	return m
}

// Open starts an append window of n elements at the active count. n is
// clamped to the remaining capacity; the clamped size is returned.
func (m *mirror) Open(n int) int {
	if m.released {
		fatal(ErrReleased, "render: open", "buffer", m.label)
	}
	if m.open {
		fatal(ErrWindowOpen, "render: open", "buffer", m.label)
	}
	m.window = min(max(n, 0), m.capacity-m.active)
	m.open = true
	return m.window
}

// Close commits the window by advancing the active count.
func (m *mirror) Close() {
	if !m.open {
		fatal(ErrWindowClosed, "render: close", "buffer", m.label)
	}
	if m.active+m.window > m.capacity {
		fatal(ErrCapacityExceeded, "render: close", "buffer", m.label,
			"active", m.active, "window", m.window, "capacity", m.capacity)
	}
	m.active += m.window
	if m.window > 0 {
		m.dirty = true
	}
	m.window = 0
	m.open = false
}

func (m *mirror) requireOpen(op string) {
	if !m.open {
		fatal(ErrWindowClosed, "render: "+op, "buffer", m.label)
	}
}

// element returns the bytes of element i.
func (m *mirror) element(i int) []byte {
	off := i * m.stride
	return m.data[off : off+m.stride : off+m.stride]
}

// Len returns the active element count.
func (m *mirror) Len() int { return m.active }

// Capacity returns the maximum element count.
func (m *mirror) Capacity() int { return m.capacity }

// Remaining returns how many more elements fit.
func (m *mirror) Remaining() int { return m.capacity - m.active }

// Window returns the size of the open append window, or 0.
func (m *mirror) Window() int { return m.window }

// IsOpen reports whether an append window is open.
func (m *mirror) IsOpen() bool { return m.open }

// Stride returns the element size in bytes.
func (m *mirror) Stride() int { return m.stride }

// Free resets the active count. Host bytes are left as they are and are
// overwritten by later appends.
func (m *mirror) Free() {
	m.active = 0
	m.window = 0
	m.open = false
	m.dirty = true
}

// Bytes returns the active part of the host mirror.
func (m *mirror) Bytes() []byte {
	if m.data == nil {
		return nil
	}
	return m.data[:m.active*m.stride]
}

// ID returns the device buffer handle, or device.InvalidBuffer before the
// first Upload.
func (m *mirror) ID() device.BufferID { return m.id }

// Upload creates the device buffer on first use, sized for the full
// capacity, and writes the active bytes when they changed since the last
// upload. It returns the number of bytes written.
func (m *mirror) Upload(dev device.Device) (int, error) {
	if m.released {
		return 0, fmt.Errorf("upload %s: %w", m.label, ErrReleased)
	}
	if len(m.data) == 0 {
		return 0, nil
	}
	if m.id == device.InvalidBuffer {
		id, err := dev.CreateBuffer(device.BufferDescriptor{
			Label: m.label,
			Size:  uint64(len(m.data)),
			Usage: m.usage,
		})
		if err != nil {
			return 0, fmt.Errorf("upload %s: %w", m.label, err)
		}
		m.id = id
		m.dirty = true
	}
	if !m.dirty {
		return 0, nil
	}
	b := m.Bytes()
	if len(b) > 0 {
		if err := dev.WriteBuffer(m.id, 0, b); err != nil {
			return 0, fmt.Errorf("upload %s: %w", m.label, err)
		}
	}
	m.dirty = false
	return len(b), nil
}

// Release destroys the device buffer and returns the host mirror to its
// allocator. Only the first call has an effect.
func (m *mirror) Release(dev device.Device) {
	if m.released {
		return
	}
	m.released = true
	if m.id != device.InvalidBuffer && dev != nil {
		dev.DestroyBuffer(m.id)
	}
	m.id = device.InvalidBuffer
	// Ring memory cannot be returned piecewise; it is reclaimed by the
	// ring's own Retire or Free.
	if _, ring := m.alloc.(*memory.CircularHeap); m.alloc != nil && !ring {
		m.alloc.Deallocate(m.data)
	}
	m.data = nil
	m.alloc = nil
	m.active = 0
	m.window = 0
	m.open = false
}

// Released reports whether Release has been called.
func (m *mirror) Released() bool { return m.released }
