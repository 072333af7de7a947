//go:build !nogpu

// Package layer draws raster meshes into a host-owned render pass.
//
// A Layer is owned by the render goroutine. Meshes are built elsewhere with
// rastermesh.Build or a rastermesh.Builder and handed over with Apply; Draw
// then records a single draw call per frame, independent of grid size.
//
// Lifecycle:
//
//	Uninitialized --Attach--> Attached --Apply--> Ready
//	      |                                        |
//	      +-------------------Detach---------------+--> Disposed
//
// Apply before Attach keeps the mesh on the CPU; it is uploaded on Attach.
package layer

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rastermesh"
	"github.com/gogpu/wgpu/hal"
)

// State is the lifecycle state of a Layer.
type State int

const (
	// StateUninitialized means no GPU device has been attached yet.
	StateUninitialized State = iota
	// StateAttached means pipelines exist but no mesh is uploaded.
	StateAttached
	// StateReady means a mesh is uploaded and Draw records it.
	StateReady
	// StateDisposed means Detach released everything. Terminal.
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAttached:
		return "attached"
	case StateReady:
		return "ready"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pass is the part of a render pass encoder a Layer records into.
// hal.RenderPassEncoder satisfies it.
type Pass interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// Layer is the GPU half of a raster mesh: vertex buffers, pipelines and the
// per-frame uniforms. It is not safe for concurrent use.
type Layer struct {
	label  string
	strict bool

	state  State
	device hal.Device
	queue  hal.Queue

	pipes      *pipelines
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	mesh    *meshResources
	pending *rastermesh.MeshBuffers
	seq     uint64

	placement rastermesh.Placement
	opacity   float32
	visible   bool
}

// New creates an unattached layer.
func New(opts ...Option) *Layer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Layer{
		label:   o.label,
		strict:  o.strict,
		opacity: 1,
		visible: true,
	}
}

// State returns the lifecycle state.
func (l *Layer) State() State { return l.state }

// Seq returns the sequence number of the newest result seen by Apply.
func (l *Layer) Seq() uint64 { return l.seq }

// VertexCount returns the vertex count of the uploaded mesh, or 0.
func (l *Layer) VertexCount() int {
	if l.mesh == nil {
		return 0
	}
	return int(l.mesh.count)
}

// Attach creates the shader, the pipelines and the uniform buffer on
// device. format is the color format of the render target. A mesh applied
// before Attach is uploaded immediately.
func (l *Layer) Attach(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) error {
	switch l.state {
	case StateDisposed:
		return ErrDisposed
	case StateAttached, StateReady:
		return &rastermesh.AttachmentError{Op: "attach", State: l.state.String()}
	}
	if device == nil || queue == nil {
		return fmt.Errorf("layer: attach: nil device or queue")
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}

	pipes, err := newPipelines(device, format, l.label)
	if err != nil {
		return fmt.Errorf("layer: attach: %w", err)
	}
	uniformBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: l.label + "_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		pipes.destroy()
		return fmt.Errorf("layer: attach: create uniform buffer: %w", err)
	}
	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  l.label + "_bind",
		Layout: pipes.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
		},
	})
	if err != nil {
		device.DestroyBuffer(uniformBuf)
		pipes.destroy()
		return fmt.Errorf("layer: attach: create bind group: %w", err)
	}

	l.device, l.queue = device, queue
	l.pipes, l.uniformBuf, l.bindGroup = pipes, uniformBuf, bindGroup
	l.state = StateAttached
	rastermesh.Logger().Info("layer: attached", "label", l.label, "format", format)

	if l.pending != nil {
		m := l.pending
		l.pending = nil
		if err := l.upload(m); err != nil {
			return err
		}
	}
	return nil
}

// Apply installs the mesh of res. Results older than the newest one seen
// are dropped, so the newest request wins even when builds finish out of
// order. A failed result is logged and keeps the current mesh.
//
// The returned error reports upload failures only.
func (l *Layer) Apply(res rastermesh.BuildResult) error {
	if l.state == StateDisposed {
		return ErrDisposed
	}
	if res.Seq != 0 && res.Seq < l.seq {
		rastermesh.Logger().Debug("layer: dropped stale result", "seq", res.Seq, "current", l.seq)
		return nil
	}
	l.seq = max(l.seq, res.Seq)

	if res.Err != nil {
		rastermesh.Logger().Warn("layer: build failed, keeping previous mesh", "seq", res.Seq, "error", res.Err)
		return nil
	}
	if res.Mesh == nil {
		return nil
	}
	if l.state == StateUninitialized {
		l.pending = res.Mesh
		return nil
	}
	return l.upload(res.Mesh)
}

// upload replaces the current vertex buffers with m.
func (l *Layer) upload(m *rastermesh.MeshBuffers) error {
	mesh, err := uploadMesh(l.device, l.queue, m, l.label)
	if err != nil {
		return fmt.Errorf("layer: upload: %w", err)
	}
	if l.mesh != nil {
		l.mesh.destroy(l.device)
	}
	l.mesh = mesh
	l.state = StateReady
	rastermesh.Logger().Debug("layer: mesh uploaded",
		"label", l.label, "vertices", m.VertexCount, "topology", m.Topology)
	return nil
}

// SetOpacity sets the fragment opacity, clamped to [0, 1].
func (l *Layer) SetOpacity(v float64) {
	l.opacity = float32(rastermesh.ClampOpacity(v))
}

// Opacity returns the current opacity.
func (l *Layer) Opacity() float64 { return float64(l.opacity) }

// SetVisible toggles drawing without touching the mesh.
func (l *Layer) SetVisible(v bool) { l.visible = v }

// Visible reports whether Draw records anything.
func (l *Layer) Visible() bool { return l.visible }

// SetStyle applies the parts of s that need no rebuild.
func (l *Layer) SetStyle(s rastermesh.RenderStyle) {
	l.SetOpacity(s.Opacity)
	l.SetVisible(s.Visible)
}

// SetPlacement positions the mesh on the map.
func (l *Layer) SetPlacement(ext rastermesh.Extent, cell rastermesh.CellSpacing) {
	l.placement = rastermesh.PlacementFor(ext, cell)
}

// Placement returns the current placement.
func (l *Layer) Placement() rastermesh.Placement { return l.placement }

// Draw records the mesh into pass using the host matrix m. It does nothing
// unless the layer is Ready and visible.
func (l *Layer) Draw(pass Pass, m Mat4) error {
	switch l.state {
	case StateDisposed:
		return ErrDisposed
	case StateUninitialized:
		if l.strict {
			return ErrNotAttached
		}
		return nil
	case StateAttached:
		return nil
	}
	if !l.visible || l.mesh == nil || l.mesh.count == 0 {
		return nil
	}

	l.queue.WriteBuffer(l.uniformBuf, 0, makeUniform(m, l.placement, l.opacity))
	pass.SetPipeline(l.pipes.forTopology(l.mesh.topology))
	pass.SetBindGroup(0, l.bindGroup, nil)
	pass.SetVertexBuffer(0, l.mesh.positions, 0)
	pass.SetVertexBuffer(1, l.mesh.colors, 0)
	pass.Draw(l.mesh.count, 1, 0, 0)
	return nil
}

// Detach releases every GPU resource. The layer cannot be used afterwards.
// Detach is idempotent.
func (l *Layer) Detach() {
	if l.state == StateDisposed {
		return
	}
	if l.device != nil {
		if l.mesh != nil {
			l.mesh.destroy(l.device)
		}
		if l.bindGroup != nil {
			l.device.DestroyBindGroup(l.bindGroup)
		}
		if l.uniformBuf != nil {
			l.device.DestroyBuffer(l.uniformBuf)
		}
		if l.pipes != nil {
			l.pipes.destroy()
		}
		rastermesh.Logger().Info("layer: detached", "label", l.label)
	}
	l.mesh, l.pending = nil, nil
	l.bindGroup, l.uniformBuf, l.pipes = nil, nil, nil
	l.device, l.queue = nil, nil
	l.state = StateDisposed
}
