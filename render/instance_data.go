package render

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/device"
)

// InstanceDrawingData is an ordered collection of instances, looked up by
// geometry id.
type InstanceDrawingData struct {
	cfg       InstanceConfig
	policy    BufferPolicy
	instances []*Instance
	draw      int
}

// NewInstanceDrawingData returns drawing data whose instances use cfg.
func NewInstanceDrawingData(cfg InstanceConfig, policy BufferPolicy) *InstanceDrawingData {
	return &InstanceDrawingData{cfg: cfg.withDefaults(), policy: policy}
}

// Policy returns the buffer policy.
func (d *InstanceDrawingData) Policy() BufferPolicy { return d.policy }

// Append adds one occurrence of item. The first instance of item's
// geometry with room takes the record; when every one is full a new
// instance of the same geometry is created from item.
func (d *InstanceDrawingData) Append(item *RenderItem, color f32.Vec4, world f32.Mat4) int {
	spill := false
	for _, inst := range d.instances {
		if inst.GeometryID() != item.GeometryID {
			continue
		}
		if inst.CanAccept(item.Material) {
			return inst.Append(color, world, item.Material)
		}
		spill = true
	}

	inst := NewInstance(item, d.cfg)
	if !inst.CanAccept(item.Material) {
		inst.Release(nil)
		fatal(ErrItemTooLarge, "render: append instance",
			"geometry", item.GeometryID, "max_instances", d.cfg.MaxInstances, "max_materials", d.cfg.MaxMaterials)
	}
	d.instances = append(d.instances, inst)
	if spill {
		sketch.Logger().Debug("render: instance spill", "geometry", item.GeometryID, "instances", len(d.instances))
	}
	return inst.Append(color, world, item.Material)
}

// Find returns the first instance of geometry id, or nil.
func (d *InstanceDrawingData) Find(id uint64) *Instance {
	for _, inst := range d.instances {
		if inst.GeometryID() == id {
			return inst
		}
	}
	return nil
}

// Reset prepares for the next frame. Immediate drawing data clears every
// instance's records and materials; base geometry is always kept.
// Retained drawing data only rewinds the draw cursor.
func (d *InstanceDrawingData) Reset() {
	d.draw = 0
	if d.policy == PolicyRetained {
		return
	}
	for _, inst := range d.instances {
		inst.Reset()
	}
}

// NextInstance returns the instance at the draw cursor and advances it, or
// nil past the end.
func (d *InstanceDrawingData) NextInstance() *Instance {
	if d.draw >= len(d.instances) {
		return nil
	}
	inst := d.instances[d.draw]
	d.draw++
	return inst
}

// Instances returns the instances in creation order.
func (d *InstanceDrawingData) Instances() []*Instance { return d.instances }

// Len returns the number of instances.
func (d *InstanceDrawingData) Len() int { return len(d.instances) }

// Release destroys every instance's device buffers and drops them.
func (d *InstanceDrawingData) Release(dev device.Device) {
	for _, inst := range d.instances {
		inst.Release(dev)
	}
	d.instances = nil
	d.draw = 0
}
