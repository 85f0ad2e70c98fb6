package render

import (
	"fmt"

	"github.com/gogpu/sketch/device"
)

// Vertex buffer slots used by submission.
const (
	VertexSlot   = 0
	InstanceSlot = 1
)

// MaterialBinding is the storage binding of the material buffer.
const MaterialBinding = 0

// SubmitStats counts what one submission sent to the device.
type SubmitStats struct {
	DrawCalls int
	Vertices  int
	Indices   int
	Instances int
	Bytes     int

	// UnboundTextures counts sampler slots that were not bound because
	// the device does not implement device.TextureBinder.
	UnboundTextures int
}

// Add accumulates o into s.
func (s *SubmitStats) Add(o SubmitStats) {
	s.DrawCalls += o.DrawCalls
	s.Vertices += o.Vertices
	s.Indices += o.Indices
	s.Instances += o.Instances
	s.Bytes += o.Bytes
	s.UnboundTextures += o.UnboundTextures
}

// StrategyKind selects how a Strategy submits.
type StrategyKind uint8

// Strategy kinds.
const (
	StrategyBatch StrategyKind = iota
	StrategyInstance
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyBatch:
		return "batch"
	case StrategyInstance:
		return "instance"
	}
	return fmt.Sprintf("StrategyKind(%d)", uint8(k))
}

// Strategy submits one kind of drawing data. It is a closed set of
// variants; the zero value is an empty batch strategy.
type Strategy struct {
	kind      StrategyKind
	batches   *BatchDrawingData
	instances *InstanceDrawingData
}

// NewBatchStrategy returns a strategy that draws each batch of d.
func NewBatchStrategy(d *BatchDrawingData) Strategy {
	return Strategy{kind: StrategyBatch, batches: d}
}

// NewInstanceStrategy returns a strategy that draws each instance of d.
func NewInstanceStrategy(d *InstanceDrawingData) Strategy {
	return Strategy{kind: StrategyInstance, instances: d}
}

// Kind returns the variant.
func (s Strategy) Kind() StrategyKind { return s.kind }

// Submit uploads, binds, draws and unbinds every non-empty batch or
// instance from the draw cursor on. It stops at the first device error.
func (s Strategy) Submit(dev device.Device) (SubmitStats, error) {
	switch s.kind {
	case StrategyBatch:
		if s.batches == nil {
			return SubmitStats{}, nil
		}
		return submitBatches(dev, s.batches)
	case StrategyInstance:
		if s.instances == nil {
			return SubmitStats{}, nil
		}
		return submitInstances(dev, s.instances)
	}
	return SubmitStats{}, fmt.Errorf("render: unknown strategy %v", s.kind)
}

// bindTextures binds textures in slot order and returns how many could not
// be bound.
func bindTextures(dev device.Device, textures []device.TextureID) int {
	tb, ok := dev.(device.TextureBinder)
	if !ok {
		return len(textures)
	}
	for slot, tex := range textures {
		tb.BindTexture(slot, tex)
	}
	return 0
}

func unbind(dev device.Device) {
	if u, ok := dev.(device.Unbinder); ok {
		u.Unbind()
	}
}

func submitBatches(dev device.Device, d *BatchDrawingData) (SubmitStats, error) {
	var stats SubmitStats
	for i, b := 0, d.NextBatch(); b != nil; i, b = i+1, d.NextBatch() {
		if !b.HasData() {
			continue
		}
		n, err := b.Upload(dev)
		stats.Bytes += n
		if err != nil {
			return stats, fmt.Errorf("submit batch %d: %w", i, err)
		}

		dev.SetVertexBuffer(VertexSlot, b.Vertices().ID())
		dev.SetIndexBuffer(b.Indices().ID())
		stats.UnboundTextures += bindTextures(dev, b.Textures())
		dev.DrawIndexed(uint32(b.IndexCount()), 1)
		unbind(dev)

		stats.DrawCalls++
		stats.Vertices += b.VertexCount()
		stats.Indices += b.IndexCount()
	}
	return stats, nil
}

func submitInstances(dev device.Device, d *InstanceDrawingData) (SubmitStats, error) {
	var stats SubmitStats
	for i, inst := 0, d.NextInstance(); inst != nil; i, inst = i+1, d.NextInstance() {
		if !inst.HasData() || inst.IndexCount() == 0 {
			continue
		}
		n, err := inst.Upload(dev)
		stats.Bytes += n
		if err != nil {
			return stats, fmt.Errorf("submit instance %d (geometry %d): %w", i, inst.GeometryID(), err)
		}

		dev.SetVertexBuffer(VertexSlot, inst.Vertices().ID())
		dev.SetVertexBuffer(InstanceSlot, inst.Instances().ID())
		dev.SetIndexBuffer(inst.Indices().ID())
		stats.UnboundTextures += bindTextures(dev, inst.Textures())
		if inst.MaterialCount() > 0 {
			if sb, ok := dev.(device.StorageBinder); ok {
				sb.BindStorageBuffer(MaterialBinding, inst.Materials().ID())
			}
		}
		dev.DrawIndexed(uint32(inst.IndexCount()), uint32(inst.InstanceCount()))
		unbind(dev)

		stats.DrawCalls++
		stats.Vertices += inst.VertexCount()
		stats.Indices += inst.IndexCount()
		stats.Instances += inst.InstanceCount()
	}
	return stats, nil
}
