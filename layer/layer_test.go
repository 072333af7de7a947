//go:build !nogpu

package layer

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rastermesh"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// recordingPass records the commands a layer issues.
type recordingPass struct {
	pipelines []hal.RenderPipeline
	slots     []uint32
	draws     []uint32
	bindings  int
}

func (p *recordingPass) SetPipeline(pipeline hal.RenderPipeline) {
	p.pipelines = append(p.pipelines, pipeline)
}

func (p *recordingPass) SetBindGroup(uint32, hal.BindGroup, []uint32) {
	p.bindings++
}

func (p *recordingPass) SetVertexBuffer(slot uint32, _ hal.Buffer, _ uint64) {
	p.slots = append(p.slots, slot)
}

func (p *recordingPass) Draw(vertexCount, _, _, _ uint32) {
	p.draws = append(p.draws, vertexCount)
}

func buildResult(t *testing.T, seq uint64, wireframe bool, w, h int) rastermesh.BuildResult {
	t.Helper()
	values := make([]float64, w*h)
	for k := range values {
		values[k] = float64(k + 1)
	}
	mesh, err := rastermesh.Build(context.Background(), rastermesh.BuildRequest{
		Grid:  rastermesh.Grid{Width: w, Height: h, Values: values},
		Cell:  rastermesh.CellSpacing{DX: 0.1, DY: -0.1},
		Style: rastermesh.NewStyle(rastermesh.WithWireframe(wireframe)),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return rastermesh.BuildResult{Seq: seq, Mesh: mesh}
}

func attachedLayer(t *testing.T, opts ...Option) (*Layer, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	l := New(opts...)
	if err := l.Attach(device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		cleanup()
		t.Fatalf("Attach: %v", err)
	}
	return l, func() {
		l.Detach()
		cleanup()
	}
}

func TestLayerLifecycle(t *testing.T) {
	l, cleanup := attachedLayer(t)
	defer cleanup()

	if l.State() != StateAttached {
		t.Fatalf("State() = %v, want attached", l.State())
	}

	pass := &recordingPass{}
	if err := l.Draw(pass, Identity()); err != nil {
		t.Fatalf("Draw before mesh: %v", err)
	}
	if len(pass.draws) != 0 {
		t.Error("Draw recorded commands without a mesh")
	}

	if err := l.Apply(buildResult(t, 1, false, 4, 3)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if l.State() != StateReady {
		t.Fatalf("State() = %v, want ready", l.State())
	}
	if err := l.Draw(pass, Identity()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(pass.draws) != 1 || pass.draws[0] != 4*3*6 {
		t.Errorf("draws = %v, want [%d]", pass.draws, 4*3*6)
	}
	if len(pass.slots) != 2 || pass.slots[0] != 0 || pass.slots[1] != 1 {
		t.Errorf("vertex buffer slots = %v, want [0 1]", pass.slots)
	}
	if pass.bindings != 1 {
		t.Errorf("bind group set %d times, want 1", pass.bindings)
	}

	l.Detach()
	if l.State() != StateDisposed {
		t.Errorf("State() = %v, want disposed", l.State())
	}
	if err := l.Draw(pass, Identity()); !errors.Is(err, ErrDisposed) {
		t.Errorf("Draw after Detach: err = %v", err)
	}
	if err := l.Apply(buildResult(t, 2, false, 1, 1)); !errors.Is(err, ErrDisposed) {
		t.Errorf("Apply after Detach: err = %v", err)
	}
	l.Detach() // idempotent
}

func TestLayerTopologySelectsPipeline(t *testing.T) {
	l, cleanup := attachedLayer(t)
	defer cleanup()

	pass := &recordingPass{}
	if err := l.Apply(buildResult(t, 1, true, 2, 2)); err != nil {
		t.Fatal(err)
	}
	if err := l.Draw(pass, Identity()); err != nil {
		t.Fatal(err)
	}
	if err := l.Apply(buildResult(t, 2, false, 2, 2)); err != nil {
		t.Fatal(err)
	}
	if err := l.Draw(pass, Identity()); err != nil {
		t.Fatal(err)
	}

	if len(pass.pipelines) != 2 {
		t.Fatalf("%d pipelines set, want 2", len(pass.pipelines))
	}
	if pass.pipelines[0] != l.pipes.lines || pass.pipelines[1] != l.pipes.triangles {
		t.Error("wireframe mesh must use the line-strip pipeline, solid the triangle pipeline")
	}
	if pass.draws[0] != 2*2*10 || pass.draws[1] != 2*2*6 {
		t.Errorf("draws = %v", pass.draws)
	}
}

func TestLayerLatestResultWins(t *testing.T) {
	l, cleanup := attachedLayer(t)
	defer cleanup()

	if err := l.Apply(buildResult(t, 5, false, 3, 1)); err != nil {
		t.Fatal(err)
	}
	// An older build finishing late must not replace the newer mesh.
	if err := l.Apply(buildResult(t, 4, false, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if l.VertexCount() != 3*6 || l.Seq() != 5 {
		t.Errorf("VertexCount() = %d, Seq() = %d; want 18, 5", l.VertexCount(), l.Seq())
	}
}

func TestLayerFailedResultKeepsMesh(t *testing.T) {
	l, cleanup := attachedLayer(t)
	defer cleanup()

	if err := l.Apply(buildResult(t, 1, false, 2, 1)); err != nil {
		t.Fatal(err)
	}
	failed := rastermesh.BuildResult{Seq: 2, Err: &rastermesh.BuildError{Op: "validate", Err: rastermesh.ErrEmptyGrid}}
	if err := l.Apply(failed); err != nil {
		t.Fatalf("Apply(failed) = %v", err)
	}
	if l.State() != StateReady || l.VertexCount() != 12 {
		t.Errorf("state %v with %d vertices after failed build", l.State(), l.VertexCount())
	}
	// The failed request still supersedes older ones.
	if err := l.Apply(buildResult(t, 1, false, 5, 5)); err != nil {
		t.Fatal(err)
	}
	if l.VertexCount() != 12 {
		t.Errorf("stale result replaced the mesh: %d vertices", l.VertexCount())
	}
}

func TestLayerApplyBeforeAttach(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	l := New()
	defer l.Detach()
	if err := l.Apply(buildResult(t, 1, false, 2, 2)); err != nil {
		t.Fatal(err)
	}
	if l.State() != StateUninitialized {
		t.Fatalf("State() = %v, want uninitialized", l.State())
	}
	if err := l.Attach(device, queue, gputypes.TextureFormatBGRA8Unorm); err != nil {
		t.Fatal(err)
	}
	if l.State() != StateReady || l.VertexCount() != 24 {
		t.Errorf("State() = %v with %d vertices, want ready with 24", l.State(), l.VertexCount())
	}
}

func TestLayerDrawBeforeAttach(t *testing.T) {
	pass := &recordingPass{}
	if err := New().Draw(pass, Identity()); err != nil {
		t.Errorf("non-strict Draw before Attach = %v, want nil", err)
	}
	if err := New(WithStrict()).Draw(pass, Identity()); !errors.Is(err, ErrNotAttached) {
		t.Errorf("strict Draw before Attach = %v, want ErrNotAttached", err)
	}
	if len(pass.draws) != 0 {
		t.Error("unattached layer recorded a draw")
	}
}

func TestLayerAttachTwice(t *testing.T) {
	l, cleanup := attachedLayer(t)
	defer cleanup()

	device, queue, cleanup2 := createNoopDevice(t)
	defer cleanup2()
	err := l.Attach(device, queue, gputypes.TextureFormatBGRA8Unorm)
	var ae *rastermesh.AttachmentError
	if !errors.As(err, &ae) || ae.State != "attached" {
		t.Errorf("second Attach: err = %v", err)
	}
}

func TestLayerHiddenSkipsDraw(t *testing.T) {
	l, cleanup := attachedLayer(t)
	defer cleanup()

	if err := l.Apply(buildResult(t, 1, false, 1, 1)); err != nil {
		t.Fatal(err)
	}
	l.SetStyle(rastermesh.NewStyle(rastermesh.WithVisible(false), rastermesh.WithOpacity(0.3)))

	pass := &recordingPass{}
	if err := l.Draw(pass, Identity()); err != nil {
		t.Fatal(err)
	}
	if len(pass.draws) != 0 {
		t.Error("hidden layer recorded a draw")
	}
	if l.Opacity() != float64(float32(0.3)) {
		t.Errorf("Opacity() = %v", l.Opacity())
	}

	l.SetVisible(true)
	if err := l.Draw(pass, Identity()); err != nil {
		t.Fatal(err)
	}
	if len(pass.draws) != 1 {
		t.Error("visible layer did not draw")
	}
}

func TestLayerSetOpacityClamps(t *testing.T) {
	l := New()
	l.SetOpacity(3)
	if l.Opacity() != 1 {
		t.Errorf("Opacity() = %v, want 1", l.Opacity())
	}
	l.SetOpacity(-1)
	if l.Opacity() != 0 {
		t.Errorf("Opacity() = %v, want 0", l.Opacity())
	}
}

// mockProvider implements gpucontext.DeviceProvider and exposes HAL handles.
type mockProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (m *mockProvider) Device() gpucontext.Device             { return nil }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }
func (m *mockProvider) HalDevice() any                        { return m.device }
func (m *mockProvider) HalQueue() any                         { return m.queue }

// plainProvider implements gpucontext.DeviceProvider only.
type plainProvider struct{ *mockProvider }

func (plainProvider) HalDevice() {}

func TestLayerAttachProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	l := New(WithLabel("provided"))
	defer l.Detach()
	if err := l.AttachProvider(&mockProvider{device: device, queue: queue}); err != nil {
		t.Fatalf("AttachProvider: %v", err)
	}
	if l.State() != StateAttached {
		t.Errorf("State() = %v, want attached", l.State())
	}

	if err := New().AttachProvider(plainProvider{&mockProvider{}}); !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("AttachProvider(plain) = %v, want ErrNoHALProvider", err)
	}
	if err := New().AttachProvider(&mockProvider{}); !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("AttachProvider(nil handles) = %v, want ErrNoHALProvider", err)
	}
}
