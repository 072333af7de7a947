package rastermesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/rastermesh/internal/tessellate"
)

// LatticeUnit is the distance between neighboring cell centers in mesh
// coordinates. Meshes are resolution independent; PlacementFor scales them
// by the real cell spacing.
const LatticeUnit = tessellate.LatticeUnit

// Topology is the primitive type a mesh is drawn with.
type Topology int

const (
	// TopologyTriangles draws a triangle list (6 vertices per cell).
	TopologyTriangles Topology = iota
	// TopologyLineStrip draws one line strip (10 vertices per cell).
	TopologyLineStrip
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyLineStrip:
		return "line-strip"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// VerticesPerCell returns the vertex count one cell contributes.
func (t Topology) VerticesPerCell() int {
	return t.mode().VerticesPerCell()
}

func (t Topology) mode() tessellate.Mode {
	if t == TopologyLineStrip {
		return tessellate.Wireframe
	}
	return tessellate.Solid
}

// MeshBuffers is the output of a build: flat vertex streams ready for
// upload. Positions hold 2 floats per vertex in lattice coordinates, Colors
// 4 floats per vertex (straight RGBA in [0, 1]). Vertex k is described by
// Positions[2k:2k+2] and Colors[4k:4k+4].
//
// MeshBuffers is never mutated after Build returns it.
type MeshBuffers struct {
	Positions   []float32 `json:"positions"`
	Colors      []float32 `json:"colors"`
	VertexCount int       `json:"vertexCount"`
	Topology    Topology  `json:"topology"`
}

// Validate checks the stream length invariants.
func (m *MeshBuffers) Validate() error {
	if len(m.Positions) != 2*m.VertexCount {
		return fmt.Errorf("rastermesh: %d position floats for %d vertices", len(m.Positions), m.VertexCount)
	}
	if len(m.Colors) != 4*m.VertexCount {
		return fmt.Errorf("rastermesh: %d color floats for %d vertices", len(m.Colors), m.VertexCount)
	}
	if per := m.Topology.VerticesPerCell(); m.VertexCount%per != 0 {
		return fmt.Errorf("rastermesh: %d vertices is not a multiple of %d for %v", m.VertexCount, per, m.Topology)
	}
	return nil
}

// Vertex returns the position and color of vertex k.
func (m *MeshBuffers) Vertex(k int) (x, y float32, c RGBA) {
	p := m.Positions[2*k : 2*k+2]
	col := m.Colors[4*k : 4*k+4]
	return p[0], p[1], RGBA{R: float64(col[0]), G: float64(col[1]), B: float64(col[2]), A: float64(col[3])}
}

// PositionBytes returns the positions as little-endian float32 bytes, the
// layout of the position vertex buffer.
func (m *MeshBuffers) PositionBytes() []byte {
	return float32Bytes(m.Positions)
}

// ColorBytes returns the colors as little-endian float32 bytes, the layout
// of the color vertex buffer.
func (m *MeshBuffers) ColorBytes() []byte {
	return float32Bytes(m.Colors)
}

func float32Bytes(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}
