//go:build !nogpu

package layer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rastermesh"
	"github.com/gogpu/wgpu/hal"
)

// Vertex stream strides. Positions and colors live in separate buffers:
//
//	slot 0: position (vec2<f32>) = 8 bytes  (location 0)
//	slot 1: color    (vec4<f32>) = 16 bytes (location 1)
const (
	positionStride = 8
	colorStride    = 16
)

// pipelines holds the GPU objects shared by every mesh a layer draws: one
// shader, one uniform layout and a render pipeline per topology.
type pipelines struct {
	device hal.Device

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	triangles     hal.RenderPipeline
	lines         hal.RenderPipeline
}

// newPipelines compiles the shader and creates both pipelines. On failure
// everything created so far is released.
func newPipelines(device hal.Device, format gputypes.TextureFormat, label string) (*pipelines, error) {
	p := &pipelines{device: device}
	if err := p.create(format, label); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) create(format gputypes.TextureFormat, label string) error {
	shader, err := createShaderModule(p.device, label)
	if err != nil {
		return err
	}
	p.shader = shader

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	p.triangles, err = p.createPipeline(label+"_triangles", format, gputypes.PrimitiveTopologyTriangleList)
	if err != nil {
		return err
	}
	p.lines, err = p.createPipeline(label+"_lines", format, gputypes.PrimitiveTopologyLineStrip)
	return err
}

func (p *pipelines) createPipeline(label string, format gputypes.TextureFormat, topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return pipeline, nil
}

// forTopology returns the pipeline a mesh of topology t is drawn with.
func (p *pipelines) forTopology(t rastermesh.Topology) hal.RenderPipeline {
	if t == rastermesh.TopologyLineStrip {
		return p.lines
	}
	return p.triangles
}

// destroy releases all pipeline resources in reverse creation order. Safe
// to call on a partially created set and more than once.
func (p *pipelines) destroy() {
	if p.lines != nil {
		p.device.DestroyRenderPipeline(p.lines)
		p.lines = nil
	}
	if p.triangles != nil {
		p.device.DestroyRenderPipeline(p.triangles)
		p.triangles = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// vertexLayout returns the two vertex buffer layouts of the grid pipeline.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: positionStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: colorStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 1},
			},
		},
	}
}

// meshResources holds the vertex buffers of the current mesh.
type meshResources struct {
	positions hal.Buffer
	colors    hal.Buffer
	count     uint32
	topology  rastermesh.Topology
}

// uploadMesh creates both vertex buffers and fills them from m.
func uploadMesh(device hal.Device, queue hal.Queue, m *rastermesh.MeshBuffers, label string) (*meshResources, error) {
	usage := gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst
	positions, err := createAndUploadBuffer(device, queue, label+"_positions", m.PositionBytes(), usage)
	if err != nil {
		return nil, err
	}
	colors, err := createAndUploadBuffer(device, queue, label+"_colors", m.ColorBytes(), usage)
	if err != nil {
		device.DestroyBuffer(positions)
		return nil, err
	}
	return &meshResources{
		positions: positions,
		colors:    colors,
		count:     uint32(m.VertexCount), //nolint:gosec // vertex count fits uint32
		topology:  m.Topology,
	}, nil
}

func (r *meshResources) destroy(device hal.Device) {
	if r.colors != nil {
		device.DestroyBuffer(r.colors)
	}
	if r.positions != nil {
		device.DestroyBuffer(r.positions)
	}
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
