package render

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/device"
)

// BatchDrawingData is an ordered sequence of same-capacity batches with a
// push cursor for appends and a draw cursor for submission.
type BatchDrawingData struct {
	cfg     BatchConfig
	policy  BufferPolicy
	batches []*Batch
	push    int
	draw    int
}

// NewBatchDrawingData returns drawing data whose batches use cfg.
func NewBatchDrawingData(cfg BatchConfig, policy BufferPolicy) *BatchDrawingData {
	return &BatchDrawingData{cfg: cfg.withDefaults(), policy: policy}
}

// Policy returns the buffer policy.
func (d *BatchDrawingData) Policy() BufferPolicy { return d.policy }

// Append merges item into the push batch. When it does not fit, the push
// cursor moves to the next batch, creating one with the same capacities if
// needed. An item that does not fit an empty batch panics with
// ErrItemTooLarge.
func (d *BatchDrawingData) Append(item *RenderItem, color f32.Vec4, world f32.Mat4) {
	if len(d.batches) == 0 {
		d.batches = append(d.batches, NewBatch(d.cfg))
	}
	for {
		b := d.batches[d.push]
		if b.CanAccept(item) {
			b.Add(item, color, world)
			return
		}
		if !b.HasData() {
			fatal(ErrItemTooLarge, "render: append batch",
				"vertices", item.VertexCount(), "indices", item.IndexCount(),
				"max_vertices", d.cfg.MaxVertices, "max_indices", d.cfg.MaxIndices)
		}
		d.push++
		if d.push == len(d.batches) {
			d.batches = append(d.batches, NewBatch(d.cfg))
			sketch.Logger().Debug("render: batch spill", "batches", len(d.batches))
		}
	}
}

// Reset prepares for the next frame. Immediate drawing data empties every
// batch and rewinds both cursors; retained drawing data only rewinds the
// draw cursor.
func (d *BatchDrawingData) Reset() {
	d.draw = 0
	if d.policy == PolicyRetained {
		return
	}
	for _, b := range d.batches {
		b.Free()
	}
	d.push = 0
}

// NextBatch returns the batch at the draw cursor and advances it, or nil
// past the end.
func (d *BatchDrawingData) NextBatch() *Batch {
	if d.draw >= len(d.batches) {
		return nil
	}
	b := d.batches[d.draw]
	d.draw++
	return b
}

// Batches returns the batches in order.
func (d *BatchDrawingData) Batches() []*Batch { return d.batches }

// Len returns the number of batches.
func (d *BatchDrawingData) Len() int { return len(d.batches) }

// Release destroys every batch's device buffers and drops the batches.
func (d *BatchDrawingData) Release(dev device.Device) {
	for _, b := range d.batches {
		b.Release(dev)
	}
	d.batches = nil
	d.push = 0
	d.draw = 0
}
