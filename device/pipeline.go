package device

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PipelineDescriptor describes a render pipeline for batched or instanced
// geometry.
type PipelineDescriptor struct {
	Label string

	// SPIRV is the compiled shader module with vs_main and fs_main entry
	// points.
	SPIRV []uint32

	// Buffers are the vertex buffer layouts in slot order.
	Buffers []gputypes.VertexBufferLayout

	// Format is the color target format.
	Format gputypes.TextureFormat

	// Storage adds a read-only storage buffer at binding 0 of group 0.
	Storage bool
}

// Pipeline is a compiled render pipeline and the layouts it owns.
type Pipeline struct {
	shader        hal.ShaderModule
	storageLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
}

// NewPipeline compiles desc on device. On failure every resource created
// so far is destroyed.
func NewPipeline(device hal.Device, desc PipelineDescriptor) (*Pipeline, error) {
	if len(desc.SPIRV) == 0 {
		return nil, errors.New("pipeline: empty shader")
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatBGRA8Unorm
	}

	p := &Pipeline{}
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_shader",
		Source: hal.ShaderSource{SPIRV: desc.SPIRV},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: compile shader: %w", desc.Label, err)
	}
	p.shader = shader

	var groups []hal.BindGroupLayout
	if desc.Storage {
		layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: desc.Label + "_storage_layout",
			Entries: []gputypes.BindGroupLayoutEntry{
				{
					Binding:    0,
					Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
					Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
				},
			},
		})
		if err != nil {
			p.Destroy(device)
			return nil, fmt.Errorf("pipeline %q: create storage layout: %w", desc.Label, err)
		}
		p.storageLayout = layout
		groups = append(groups, layout)
	}

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("pipeline %q: create pipeline layout: %w", desc.Label, err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    desc.Buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    desc.Format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy(device)
		return nil, fmt.Errorf("pipeline %q: create render pipeline: %w", desc.Label, err)
	}
	p.pipeline = pipeline
	return p, nil
}

// Destroy releases the pipeline resources in reverse creation order.
func (p *Pipeline) Destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.storageLayout != nil {
		device.DestroyBindGroupLayout(p.storageLayout)
		p.storageLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
