// Package preview renders raster meshes on the CPU.
//
// It is a debugging aid: the same vertex streams the GPU layer uploads are
// projected, then every triangle (or line segment) is rasterized with
// golang.org/x/image/vector and shaded by interpolating its vertex colors.
// Colors are treated the way the layer shader treats them: each vertex color
// is premultiplied by its alpha, scaled by the opacity and composited with
// premultiplied source-over.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/rastermesh"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"golang.org/x/image/vector"
)

// maxMercatorLat is the latitude where square Web Mercator tiles end.
const maxMercatorLat = 85.05112878

// ErrEmptyBounds is returned when a mesh has no area after projection.
var ErrEmptyBounds = errors.New("preview: mesh has empty bounds")

// Projection selects how longitude/latitude map to the image plane.
type Projection int

const (
	// Geographic plots longitude and latitude as plain x and y.
	Geographic Projection = iota
	// Mercator plots spherical Web Mercator meters, as map viewers do.
	Mercator
)

func (p Projection) String() string {
	switch p {
	case Geographic:
		return "geographic"
	case Mercator:
		return "mercator"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection parses "geographic" or "mercator".
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "geographic", "wgs84", "4326":
		return Geographic, nil
	case "mercator", "3857":
		return Mercator, nil
	}
	return Geographic, fmt.Errorf("preview: unknown projection %q", s)
}

func (p Projection) project(lng, lat float64) orb.Point {
	pt := orb.Point{lng, lat}
	if p == Mercator {
		pt[1] = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
		return project.WGS84.ToMercator(pt)
	}
	return pt
}

// Project places every vertex of mesh and returns the projected points in
// vertex order.
func Project(mesh *rastermesh.MeshBuffers, placement rastermesh.Placement, p Projection) []orb.Point {
	pts := make([]orb.Point, mesh.VertexCount)
	for k := range pts {
		x, y, _ := mesh.Vertex(k)
		lng, lat := placement.Apply(x, y)
		pts[k] = p.project(lng, lat)
	}
	return pts
}

// Render draws mesh into a new image. The image is opts' width wide; its
// height follows the aspect ratio of the projected mesh bounds.
func Render(mesh *rastermesh.MeshBuffers, placement rastermesh.Placement, opts ...Option) (*image.RGBA, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	pts := Project(mesh, placement, o.projection)
	bound := orb.MultiPoint(pts).Bound()
	if bound.Right() <= bound.Left() || bound.Top() <= bound.Bottom() {
		return nil, ErrEmptyBounds
	}

	inner := float64(o.width - 2*o.padding)
	if inner <= 0 {
		return nil, fmt.Errorf("preview: width %d leaves no room for padding %d", o.width, o.padding)
	}
	scale := inner / (bound.Right() - bound.Left())
	height := int(math.Ceil((bound.Top()-bound.Bottom())*scale)) + 2*o.padding

	dst := image.NewRGBA(image.Rect(0, 0, o.width, height))
	if o.background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(o.background), image.Point{}, draw.Src)
	}

	verts := make([]vertex, len(pts))
	pad := float64(o.padding)
	for k, pt := range pts {
		_, _, c := mesh.Vertex(k)
		verts[k] = vertex{
			x: pad + (pt.X()-bound.Left())*scale,
			y: pad + (bound.Top()-pt.Y())*scale,
			c: c,
		}
	}

	r := &renderer{dst: dst, opacity: o.opacity, ras: vector.NewRasterizer(1, 1)}
	switch mesh.Topology {
	case rastermesh.TopologyLineStrip:
		for k := 0; k+1 < len(verts); k++ {
			r.segment(verts[k], verts[k+1], o.lineWidth)
		}
	default:
		for k := 0; k+2 < len(verts); k += 3 {
			r.triangle(verts[k], verts[k+1], verts[k+2])
		}
	}

	rastermesh.Logger().Debug("preview: rendered",
		"width", o.width, "height", height, "vertices", mesh.VertexCount, "projection", o.projection)
	return dst, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// vertex is a mesh vertex in image coordinates.
type vertex struct {
	x, y float64
	c    rastermesh.RGBA
}

type renderer struct {
	dst     *image.RGBA
	opacity float64
	ras     *vector.Rasterizer
}

// triangle fills one triangle with interpolated vertex colors.
func (r *renderer) triangle(a, b, c vertex) {
	shade, ok := newGouraud(a, b, c, r.opacity, r.dst.Bounds())
	if !ok {
		return
	}

	rect := image.Rect(
		int(math.Floor(min(a.x, b.x, c.x))), int(math.Floor(min(a.y, b.y, c.y))),
		int(math.Ceil(max(a.x, b.x, c.x))), int(math.Ceil(max(a.y, b.y, c.y))),
	).Intersect(r.dst.Bounds())
	if rect.Empty() {
		return
	}

	ox, oy := float32(rect.Min.X), float32(rect.Min.Y)
	r.ras.Reset(rect.Dx(), rect.Dy())
	r.ras.MoveTo(float32(a.x)-ox, float32(a.y)-oy)
	r.ras.LineTo(float32(b.x)-ox, float32(b.y)-oy)
	r.ras.LineTo(float32(c.x)-ox, float32(c.y)-oy)
	r.ras.ClosePath()
	r.ras.Draw(r.dst, rect, shade, rect.Min)
}

// segment strokes a line of the given width as a quad whose color runs
// from a's color to b's.
func (r *renderer) segment(a, b vertex, width float64) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	a0 := vertex{x: a.x + nx, y: a.y + ny, c: a.c}
	a1 := vertex{x: a.x - nx, y: a.y - ny, c: a.c}
	b0 := vertex{x: b.x + nx, y: b.y + ny, c: b.c}
	b1 := vertex{x: b.x - nx, y: b.y - ny, c: b.c}
	r.triangle(a0, b0, b1)
	r.triangle(b1, a1, a0)
}
