package rastermesh

import (
	"fmt"
	"math"
)

// Grid is a decoded single-band raster: Width*Height samples in row-major
// order. Row 0 is the geographic top (north, Extent.YMax) and column 0 the
// west edge, the usual north-up convention of GeoTIFF and friends.
//
// A sample is no-data when it equals NoData, is NaN, or is exactly 0. The
// zero rule applies whatever the sentinel is.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
	NoData *float64  `json:"noDataValue"`
}

// NewGrid creates a grid from rows of samples. rows[0] is the north row.
func NewGrid(rows [][]float64, noData *float64) (Grid, error) {
	g := Grid{Height: len(rows), NoData: noData}
	if g.Height > 0 {
		g.Width = len(rows[0])
	}
	g.Values = make([]float64, 0, g.Width*g.Height)
	for j, row := range rows {
		if len(row) != g.Width {
			return Grid{}, fmt.Errorf("%w: row %d has %d samples, want %d",
				ErrDimensionMismatch, j, len(row), g.Width)
		}
		g.Values = append(g.Values, row...)
	}
	return g, g.Validate()
}

// NoDataValue returns a pointer to v, for use as Grid.NoData.
func NoDataValue(v float64) *float64 { return &v }

// Validate reports malformed dimensions.
func (g Grid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyGrid, g.Width, g.Height)
	}
	if len(g.Values) != g.Width*g.Height {
		return fmt.Errorf("%w: %dx%d grid with %d values",
			ErrDimensionMismatch, g.Width, g.Height, len(g.Values))
	}
	return nil
}

// At returns the sample at data row j, column i.
func (g Grid) At(j, i int) float64 {
	return g.Values[j*g.Width+i]
}

// IsNoData reports whether v must not be colored. Zero and non-finite
// samples are always no-data.
func (g Grid) IsNoData(v float64) bool {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return true
	}
	return g.NoData != nil && v == *g.NoData
}

// Range returns the smallest and largest valid samples. ok is false when the
// grid holds no valid sample.
func (g Grid) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if g.IsNoData(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Clone returns a deep copy that shares no memory with g.
func (g Grid) Clone() Grid {
	c := g
	c.Values = make([]float64, len(g.Values))
	copy(c.Values, g.Values)
	if g.NoData != nil {
		c.NoData = NoDataValue(*g.NoData)
	}
	return c
}

// Extent is the geographic bounding box of a raster in longitude/latitude.
type Extent struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

// Contains reports whether (x, y) lies inside the extent.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax
}

// CellSpacing is the signed size of one cell in degrees.
type CellSpacing struct {
	DX float64 `json:"cellWidth"`
	DY float64 `json:"cellHeight"`
}

// Sample returns the grid value under a geographic coordinate, for cursor
// readouts. ok is false outside the grid.
func (g Grid) Sample(x, y float64, ext Extent, cell CellSpacing) (v float64, ok bool) {
	dx, dy := math.Abs(cell.DX), math.Abs(cell.DY)
	if dx == 0 || dy == 0 || !ext.Contains(x, y) {
		return 0, false
	}
	i := int(math.Floor((x - ext.XMin) / dx))
	j := int(math.Floor((ext.YMax - y) / dy))
	// The max edges belong to the last column and row.
	i = min(i, g.Width-1)
	j = min(j, g.Height-1)
	if i < 0 || j < 0 {
		return 0, false
	}
	return g.At(j, i), true
}

// Placement holds the per-layer affine part of the vertex transform:
// lattice position * Scale + Translation = longitude/latitude.
type Placement struct {
	Scale       [2]float32
	Translation [2]float32
}

// PlacementFor derives the placement of a mesh built with LatticeUnit.
// Cell centers sit half a cell inside the south-west corner; spacing signs
// are ignored because geometry is always built south to north.
func PlacementFor(ext Extent, cell CellSpacing) Placement {
	dx, dy := math.Abs(cell.DX), math.Abs(cell.DY)
	return Placement{
		Scale:       [2]float32{float32(dx / LatticeUnit), float32(dy / LatticeUnit)},
		Translation: [2]float32{float32(ext.XMin + dx/2), float32(ext.YMin + dy/2)},
	}
}

// Apply maps a lattice position to longitude/latitude.
func (p Placement) Apply(x, y float32) (lng, lat float64) {
	return float64(x*p.Scale[0] + p.Translation[0]), float64(y*p.Scale[1] + p.Translation[1])
}
