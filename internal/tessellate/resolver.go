// Package tessellate turns a sample grid into flat position and color
// vertex streams.
//
// The package knows nothing about color scales or raster metadata: callers
// inject the no-data predicate and the value-to-color function.
package tessellate

// Color is an RGBA color in vertex buffer order, components in [0, 1].
type Color = [4]float32

// Transparent is the color of no-data corners.
var Transparent = Color{0, 0, 0, 0}

// Corner indices, in the order positions are wound.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// Params describes the grid and the color policy of one build.
type Params struct {
	Width  int
	Height int

	// Values holds Width*Height samples, row-major, data row 0 first.
	Values []float64

	// IsNoData reports samples that must not be colored.
	IsNoData func(float64) bool

	// Color maps a valid sample, or an average of valid samples, to a color.
	Color func(float64) Color

	Interpolated      bool
	InterpolateBounds bool
}

// Resolver computes the four corner colors of grid cells.
//
// Corners are addressed on the (Height+1)x(Width+1) lattice of cell
// corners: lattice point (cr, ci) touches cells (cr-1, ci-1), (cr-1, ci),
// (cr, ci-1) and (cr, ci) when they exist. A lattice point always gathers
// its cells in that order, so the four cells sharing a corner see
// bit-identical colors.
type Resolver struct {
	p Params
}

// NewResolver creates a resolver. p must describe a valid grid.
func NewResolver(p Params) *Resolver {
	return &Resolver{p: p}
}

// Cell returns the corner colors of the cell at data row j, column i,
// indexed by TopLeft, TopRight, BottomRight and BottomLeft. Data row j-1 is
// north of row j.
func (r *Resolver) Cell(j, i int) [4]Color {
	if !r.p.Interpolated {
		c := r.cellColor(j, i)
		return [4]Color{c, c, c, c}
	}
	return [4]Color{
		TopLeft:     r.Corner(j, i),
		TopRight:    r.Corner(j, i+1),
		BottomRight: r.Corner(j+1, i+1),
		BottomLeft:  r.Corner(j+1, i),
	}
}

// Corner returns the smoothed color at lattice point (cr, ci).
func (r *Resolver) Corner(cr, ci int) Color {
	var (
		sum    float64
		n      int
		noData bool
	)
	for dr := -1; dr <= 0; dr++ {
		for dc := -1; dc <= 0; dc++ {
			j, i := cr+dr, ci+dc
			if j < 0 || j >= r.p.Height || i < 0 || i >= r.p.Width {
				continue
			}
			v := r.p.Values[j*r.p.Width+i]
			if r.p.IsNoData(v) {
				noData = true
				continue
			}
			sum += v
			n++
		}
	}
	if noData && !r.p.InterpolateBounds {
		return Transparent
	}
	if n == 0 {
		return Transparent
	}
	return r.p.Color(sum / float64(n))
}

func (r *Resolver) cellColor(j, i int) Color {
	v := r.p.Values[j*r.p.Width+i]
	if r.p.IsNoData(v) {
		return Transparent
	}
	return r.p.Color(v)
}
