// Package device defines the graphics-device capability the render core
// submits to.
//
// The core never calls a graphics API directly. Buffers are created,
// written, bound and drawn through the [Device] interface using opaque
// [BufferID] handles. Optional capabilities ([TextureBinder],
// [StorageBinder], [Unbinder]) are discovered by type assertion.
//
// Two implementations are provided:
//
//   - [Headless] records every call and keeps a copy of each buffer's bytes.
//     It needs no graphics context and is used by tests and benchmarks.
//   - [HAL] adapts a gogpu/wgpu HAL device, queue and the current frame's
//     render pass encoder.
package device
