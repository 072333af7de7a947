// Package source adapts decoded raster snapshots to the mesh engine.
//
// A Raster is the JSON form of a raster that an external decoder (a
// GeoTIFF reader, a tile server, ...) has already turned into numbers:
// dimensions, georeferencing, a projection code and one sample matrix per
// band. Select picks one band and yields the Grid, Extent and CellSpacing
// that rastermesh.Build and layer.Layer consume.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/rastermesh"
)

// EPSG4326 is the only projection code Select accepts: plain
// longitude/latitude on WGS84.
const EPSG4326 = 4326

var (
	// ErrUnsupportedProjection is wrapped when a raster is not in EPSG:4326.
	ErrUnsupportedProjection = errors.New("projection not supported")

	// ErrBandNotAvailable is wrapped when the requested band does not exist.
	ErrBandNotAvailable = errors.New("band not available")
)

// Raster is a decoded multi-band raster.
type Raster struct {
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	CellWidth   float64  `json:"cellWidth"`
	CellHeight  float64  `json:"cellHeight"`
	NoDataValue *float64 `json:"noDataValue"`
	XMin        float64  `json:"xmin"`
	XMax        float64  `json:"xmax"`
	YMin        float64  `json:"ymin"`
	YMax        float64  `json:"ymax"`
	Projection  int      `json:"projection"`
	Bands       []Band   `json:"bands"`
}

// Band holds the samples of one band, rows[0] being the north row. Min and
// Max are the decoder's statistics; when absent they are computed from the
// valid samples.
type Band struct {
	Values [][]float64 `json:"values"`
	Min    *float64    `json:"min,omitempty"`
	Max    *float64    `json:"max,omitempty"`
}

// Snapshot is one band of a raster, ready for the mesh engine.
type Snapshot struct {
	Grid   rastermesh.Grid
	Extent rastermesh.Extent
	Cell   rastermesh.CellSpacing
	Min    float64
	Max    float64
}

// Decode reads a JSON raster from r and checks its dimensions.
func Decode(r io.Reader) (*Raster, error) {
	raster, err := decode(r)
	if err != nil {
		return nil, &rastermesh.SourceError{Label: "decode", Err: err}
	}
	return raster, nil
}

func decode(r io.Reader) (*Raster, error) {
	var raster Raster
	if err := json.NewDecoder(r).Decode(&raster); err != nil {
		return nil, err
	}
	if err := raster.validate(); err != nil {
		return nil, err
	}
	return &raster, nil
}

func (r *Raster) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", rastermesh.ErrEmptyGrid, r.Width, r.Height)
	}
	for b, band := range r.Bands {
		if len(band.Values) != r.Height {
			return fmt.Errorf("%w: band %d has %d rows, want %d",
				rastermesh.ErrDimensionMismatch, b, len(band.Values), r.Height)
		}
		for j, row := range band.Values {
			if len(row) != r.Width {
				return fmt.Errorf("%w: band %d row %d has %d samples, want %d",
					rastermesh.ErrDimensionMismatch, b, j, len(row), r.Width)
			}
		}
	}
	return nil
}

// Extent returns the geographic bounds of the raster.
func (r *Raster) Extent() rastermesh.Extent {
	return rastermesh.Extent{XMin: r.XMin, XMax: r.XMax, YMin: r.YMin, YMax: r.YMax}
}

// Select returns band as a Snapshot. It fails with a *rastermesh.SourceError
// when the raster is not in EPSG:4326 or the band does not exist.
func (r *Raster) Select(band int) (*Snapshot, error) {
	if r.Projection != EPSG4326 {
		return nil, &rastermesh.SourceError{
			Label: "select",
			Err:   fmt.Errorf("%w: %d", ErrUnsupportedProjection, r.Projection),
		}
	}
	if band < 0 || band >= len(r.Bands) {
		return nil, &rastermesh.SourceError{
			Label: "select",
			Err:   fmt.Errorf("%w: %d", ErrBandNotAvailable, band),
		}
	}

	b := r.Bands[band]
	grid, err := rastermesh.NewGrid(b.Values, r.NoDataValue)
	if err != nil {
		return nil, &rastermesh.SourceError{Label: "select", Err: err}
	}

	lo, hi, ok := grid.Range()
	if !ok {
		lo, hi = 0, 0
	}
	if b.Min != nil {
		lo = *b.Min
	}
	if b.Max != nil {
		hi = *b.Max
	}

	return &Snapshot{
		Grid:   grid,
		Extent: r.Extent(),
		Cell:   rastermesh.CellSpacing{DX: r.CellWidth, DY: r.CellHeight},
		Min:    lo,
		Max:    hi,
	}, nil
}

// Domain returns the default color domain [Min, Max]. A flat band yields a
// degenerate but valid domain.
func (s *Snapshot) Domain() []float64 {
	return []float64{s.Min, s.Max}
}

// Request returns a build request for the snapshot with the default domain
// and gradient.
func (s *Snapshot) Request(style rastermesh.RenderStyle) rastermesh.BuildRequest {
	return rastermesh.BuildRequest{
		Grid:   s.Grid,
		Cell:   s.Cell,
		Style:  style,
		Domain: s.Domain(),
	}
}
