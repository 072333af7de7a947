package rastermesh

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/rastermesh/internal/tessellate"
)

// BuildRequest is the immutable input of one build. It carries JSON tags so
// it can cross a process or worker boundary as a message.
type BuildRequest struct {
	Grid  Grid        `json:"grid"`
	Cell  CellSpacing `json:"cell"`
	Style RenderStyle `json:"style"`

	// Domain holds the color scale breakpoints. Nil selects the valid
	// sample range of Grid.
	Domain []float64 `json:"domain,omitempty"`

	// Stops is the gradient. Nil selects DefaultStops.
	Stops []ColorStop `json:"colors,omitempty"`

	Interpolation Interpolation `json:"interpolation,omitempty"`
}

// Clone returns a deep copy of r that shares no memory with it.
func (r BuildRequest) Clone() BuildRequest {
	c := r
	c.Grid = r.Grid.Clone()
	if r.Domain != nil {
		c.Domain = append([]float64(nil), r.Domain...)
	}
	if r.Stops != nil {
		c.Stops = append([]ColorStop(nil), r.Stops...)
	}
	return c
}

// DomainOrDefault returns Domain, or the valid sample range of the grid
// when Domain is nil.
func (r BuildRequest) DomainOrDefault() []float64 {
	if r.Domain != nil {
		return r.Domain
	}
	lo, hi, ok := r.Grid.Range()
	if !ok {
		return []float64{0, 1}
	}
	return []float64{lo, hi}
}

// ColorMapper builds the mapper described by the request.
func (r BuildRequest) ColorMapper() (*ColorMapper, error) {
	return NewColorMapper(r.DomainOrDefault(), r.Stops, WithInterpolation(r.Interpolation))
}

func (r BuildRequest) validate() error {
	if err := r.Grid.Validate(); err != nil {
		return err
	}
	for _, d := range []float64{r.Cell.DX, r.Cell.DY} {
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("%w: cell spacing %vx%v", ErrDimensionMismatch, r.Cell.DX, r.Cell.DY)
		}
	}
	return nil
}

// Build runs the color mapping and tessellation pipeline. It is a pure
// function of req: identical requests yield bit-identical buffers, and it
// touches no shared state, so it may run on any goroutine.
//
// On failure Build returns a *BuildError and no mesh.
func Build(ctx context.Context, req BuildRequest) (*MeshBuffers, error) {
	start := time.Now()
	if err := req.validate(); err != nil {
		return nil, &BuildError{Op: "validate", Err: err}
	}
	mapper, err := req.ColorMapper()
	if err != nil {
		return nil, &BuildError{Op: "color", Err: err}
	}

	topology := TopologyTriangles
	if req.Style.Wireframe {
		topology = TopologyLineStrip
	}

	resolver := tessellate.NewResolver(tessellate.Params{
		Width:    req.Grid.Width,
		Height:   req.Grid.Height,
		Values:   req.Grid.Values,
		IsNoData: req.Grid.IsNoData,
		Color: func(v float64) tessellate.Color {
			return mapper.Map(v).Float32()
		},
		Interpolated:      req.Style.Interpolated,
		InterpolateBounds: req.Style.InterpolateBounds,
	})

	positions, colors, err := tessellate.Mesh(ctx, resolver, topology.mode())
	if err != nil {
		return nil, &BuildError{Op: "tessellate", Err: err}
	}

	mesh := &MeshBuffers{
		Positions:   positions,
		Colors:      colors,
		VertexCount: len(positions) / 2,
		Topology:    topology,
	}
	Logger().Debug("rastermesh: mesh built",
		"width", req.Grid.Width,
		"height", req.Grid.Height,
		"topology", topology,
		"vertices", mesh.VertexCount,
		"elapsed", time.Since(start))
	return mesh, nil
}
