// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/device"
)

// Renderer collects one frame of batched and instanced draws and submits
// them with EndFrame.
//
// Renderers are NOT thread-safe. A frame is appended, submitted and reset
// on one goroutine.
//
// Example:
//
//	r := render.NewRenderer(render.DefaultBatchConfig(), render.DefaultInstanceConfig(), render.PolicyImmediate)
//	defer r.Release(dev)
//
//	r.Draw(&quad, color, render.Translation(10, 0, 0))
//	r.DrawInstanced(&cube, color, world)
//	stats, err := r.EndFrame(dev)
type Renderer struct {
	batches    *BatchDrawingData
	instances  *InstanceDrawingData
	strategies [2]Strategy
	frames     int

	reportedUnbound bool
}

// NewRenderer returns a renderer whose drawing data share policy.
func NewRenderer(batchCfg BatchConfig, instCfg InstanceConfig, policy BufferPolicy) *Renderer {
	r := &Renderer{
		batches:   NewBatchDrawingData(batchCfg, policy),
		instances: NewInstanceDrawingData(instCfg, policy),
	}
	r.strategies = [2]Strategy{
		NewBatchStrategy(r.batches),
		NewInstanceStrategy(r.instances),
	}
	return r
}

// Draw merges item into the batched drawing data.
func (r *Renderer) Draw(item *RenderItem, color f32.Vec4, world f32.Mat4) {
	r.batches.Append(item, color, world)
}

// DrawInstanced adds one occurrence of item to the instanced drawing data.
func (r *Renderer) DrawInstanced(item *RenderItem, color f32.Vec4, world f32.Mat4) {
	r.instances.Append(item, color, world)
}

// EndFrame submits batches then instances and resets both for the next
// frame. The drawing data is reset even when submission fails.
func (r *Renderer) EndFrame(dev device.Device) (SubmitStats, error) {
	var total SubmitStats
	var errs []error
	for _, s := range r.strategies {
		stats, err := s.Submit(dev)
		total.Add(stats)
		if err != nil {
			errs = append(errs, err)
		}
	}
	r.batches.Reset()
	r.instances.Reset()
	r.frames++

	if total.UnboundTextures > 0 && !r.reportedUnbound {
		r.reportedUnbound = true
		sketch.Logger().Debug("render: device cannot bind textures, sampler slots skipped",
			"frame", r.frames, "textures", total.UnboundTextures)
	}

	sketch.Logger().Debug("render: frame submitted",
		"frame", r.frames, "draws", total.DrawCalls, "bytes", total.Bytes,
		"batches", r.batches.Len(), "instances", r.instances.Len())
	return total, errors.Join(errs...)
}

// Batches returns the batched drawing data.
func (r *Renderer) Batches() *BatchDrawingData { return r.batches }

// Instances returns the instanced drawing data.
func (r *Renderer) Instances() *InstanceDrawingData { return r.instances }

// Frames returns the number of completed frames.
func (r *Renderer) Frames() int { return r.frames }

// Release destroys every device buffer. Call it before the graphics
// context is torn down.
func (r *Renderer) Release(dev device.Device) {
	r.batches.Release(dev)
	r.instances.Release(dev)
}
