// Package sketch is the render batching and buffer-management core of a
// Processing-style creative-coding engine.
//
// Immediate-mode draw calls (shapes with positions, normals, texture
// coordinates, an optional index list, textures and a material) are
// accumulated into tightly packed, GPU-ready host buffers and replayed to a
// graphics device once per frame.
//
// # Packages
//
//   - memory: allocator suite (root heap, linear, circular, free-list,
//     double-buffered and tagged heaps) expressed in [memory.Size] units
//   - render: vertex/index/instance/storage buffers, append scopes, texture
//     slot manager, batches, instances, drawing data and submit strategies
//   - device: the opaque graphics device capability, a headless recorder and
//     an adapter over gogpu/wgpu HAL
//   - shader: WGSL sources for the batch and instance pipelines
//   - config: capacity and policy configuration from files and environment
//
// # Frame model
//
// Everything runs on one thread within one frame:
//
//	r := render.NewRenderer(render.DefaultBatchConfig(), render.DefaultInstanceConfig(), render.PolicyImmediate)
//	defer r.Release(dev)
//
//	for each frame {
//	    r.Draw(item, color, world)           // static geometry, merged into batches
//	    r.DrawInstanced(item, color, world)  // repeated geometry, one record per occurrence
//	    stats, err := r.EndFrame(dev)        // upload, bind, draw, then reset
//	}
//
// Device-side buffers are only released by an explicit Release call, never by
// garbage collection, because the graphics context may already be gone.
//
// # Logging
//
// sketch is silent by default. Use [SetLogger] to route diagnostics to a
// [log/slog] logger.
package sketch
