// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render accumulates draw calls into GPU-ready host buffers and
// submits them to a [device.Device].
//
// # Buffers
//
// Every buffer owns a host mirror of capacity × stride bytes and an active
// element count. Writes go through a two-phase append window: Open clamps
// the request to the remaining capacity, attribute setters fill the
// window, and Close commits it. Elements are never active half-written.
//
//   - VertexBuffer and InstanceBuffer: interleaved attributes per [Layout]
//   - IndexBuffer: uint32 indices
//   - StorageBuffer: 16-byte aligned records (materials)
//
// # Batches and instances
//
// A [Batch] merges many items into one vertex/index buffer pair with its
// own sampler slot table. [BatchDrawingData] spills into a new batch of the
// same capacities when an item does not fit.
//
// An [Instance] keeps one base geometry and appends one record per
// occurrence. [InstanceDrawingData] finds the instance by geometry id.
//
// # Submission
//
// [Strategy] submits either kind of drawing data. [Renderer] ties them
// together into a frame:
//
//	r.Draw(&item, color, world)
//	r.DrawInstanced(&item, color, world)
//	stats, err := r.EndFrame(dev)
//
// Under [PolicyImmediate] everything is cleared after each frame. Under
// [PolicyRetained] content stays and is redrawn without being appended
// again.
//
// # Failure model
//
// Writing an attribute the layout lacks is logged and skipped. Writing past
// capacity, running out of sampler slots or appending an item that cannot
// fit an empty batch panics with a wrapped sentinel error; the CanAdd
// predicates exist to avoid those paths.
package render
