package preview

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/rastermesh"
)

func buildMesh(t *testing.T, w, h int, values []float64, wireframe bool) *rastermesh.MeshBuffers {
	t.Helper()
	mesh, err := rastermesh.Build(context.Background(), rastermesh.BuildRequest{
		Grid:   rastermesh.Grid{Width: w, Height: h, Values: values},
		Cell:   rastermesh.CellSpacing{DX: 1, DY: -1},
		Style:  rastermesh.NewStyle(rastermesh.WithInterpolated(false), rastermesh.WithWireframe(wireframe)),
		Domain: []float64{0, 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	return mesh
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func TestRenderFlatCells(t *testing.T) {
	// Two cells side by side: 2.5 (light gray) west, 10 (black) east.
	mesh := buildMesh(t, 2, 1, []float64{2.5, 10}, false)
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 2, YMin: 0, YMax: 1}, rastermesh.CellSpacing{DX: 1, DY: 1})

	img, err := Render(mesh, placement, WithWidth(100))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("bounds = %v, want 100x50", b)
	}

	west := img.RGBAAt(12, 25)
	if !near(west.R, 191) || !near(west.A, 255) {
		t.Errorf("west cell = %v, want gray 191", west)
	}
	east := img.RGBAAt(62, 25)
	if !near(east.R, 0) || !near(east.A, 255) {
		t.Errorf("east cell = %v, want opaque black", east)
	}
}

func TestRenderNoDataIsTransparent(t *testing.T) {
	mesh := buildMesh(t, 2, 1, []float64{0, 5}, false)
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 2, YMin: 0, YMax: 1}, rastermesh.CellSpacing{DX: 1, DY: 1})

	img, err := Render(mesh, placement, WithWidth(100))
	if err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(12, 25); c.A != 0 {
		t.Errorf("no-data cell = %v, want transparent", c)
	}
	if c := img.RGBAAt(62, 25); c.A == 0 {
		t.Error("valid cell is transparent")
	}
}

func TestRenderOpacity(t *testing.T) {
	mesh := buildMesh(t, 1, 1, []float64{10}, false)
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 1, YMin: 0, YMax: 1}, rastermesh.CellSpacing{DX: 1, DY: 1})

	img, err := Render(mesh, placement, WithWidth(40), WithOpacity(0.5), WithBackground(color.White))
	if err != nil {
		t.Fatal(err)
	}
	// Half-transparent black over white.
	if c := img.RGBAAt(10, 28); !near(c.R, 128) || c.A != 255 {
		t.Errorf("center = %v, want mid gray", c)
	}
}

func TestRenderTranslucentStops(t *testing.T) {
	gray := rastermesh.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 0.5}
	mesh, err := rastermesh.Build(context.Background(), rastermesh.BuildRequest{
		Grid:   rastermesh.Grid{Width: 1, Height: 1, Values: []float64{5}},
		Cell:   rastermesh.CellSpacing{DX: 1, DY: -1},
		Style:  rastermesh.NewStyle(rastermesh.WithInterpolated(false)),
		Domain: []float64{0, 10},
		Stops:  []rastermesh.ColorStop{{Offset: 0, Color: gray}, {Offset: 1, Color: gray}},
	})
	if err != nil {
		t.Fatal(err)
	}
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 1, YMin: 0, YMax: 1}, rastermesh.CellSpacing{DX: 1, DY: 1})

	img, err := Render(mesh, placement, WithWidth(40))
	if err != nil {
		t.Fatal(err)
	}
	// Straight 50% gray at alpha 0.5 is 25% gray premultiplied.
	if c := img.RGBAAt(10, 28); !near(c.R, 64) || !near(c.A, 128) {
		t.Errorf("center = %v, want premultiplied {64 64 64 128}", c)
	}
}

func TestRenderWireframe(t *testing.T) {
	mesh := buildMesh(t, 1, 1, []float64{10}, true)
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 1, YMin: 0, YMax: 1}, rastermesh.CellSpacing{DX: 1, DY: 1})

	img, err := Render(mesh, placement, WithWidth(64), WithPadding(4), WithLineWidth(2))
	if err != nil {
		t.Fatal(err)
	}
	// The outline is drawn, the inside of each triangle is not.
	if c := img.RGBAAt(32, 4); c.A == 0 {
		t.Error("top edge not drawn")
	}
	if c := img.RGBAAt(45, 20); c.A != 0 {
		t.Errorf("triangle interior = %v, want transparent", c)
	}
}

func TestRenderMercatorStretchesNorth(t *testing.T) {
	mesh := buildMesh(t, 1, 1, []float64{5}, false)
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 10, YMin: 60, YMax: 70}, rastermesh.CellSpacing{DX: 10, DY: 10})

	geo, err := Render(mesh, placement, WithWidth(100))
	if err != nil {
		t.Fatal(err)
	}
	merc, err := Render(mesh, placement, WithWidth(100), WithProjection(Mercator))
	if err != nil {
		t.Fatal(err)
	}
	if geo.Bounds().Dy() != 100 {
		t.Errorf("geographic height = %d, want 100", geo.Bounds().Dy())
	}
	if merc.Bounds().Dy() <= 2*geo.Bounds().Dy() {
		t.Errorf("mercator height = %d, want more than twice %d at 60-70N", merc.Bounds().Dy(), geo.Bounds().Dy())
	}
}

func TestRenderErrors(t *testing.T) {
	mesh := buildMesh(t, 1, 1, []float64{5}, false)

	if _, err := Render(mesh, rastermesh.Placement{}); !errors.Is(err, ErrEmptyBounds) {
		t.Errorf("zero placement: err = %v, want ErrEmptyBounds", err)
	}

	broken := *mesh
	broken.Colors = broken.Colors[:4]
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMax: 1, YMax: 1}, rastermesh.CellSpacing{DX: 1, DY: 1})
	if _, err := Render(&broken, placement); err == nil {
		t.Error("Render accepted a malformed mesh")
	}
}

func TestWritePNG(t *testing.T) {
	mesh := buildMesh(t, 3, 2, []float64{1, 2, 3, 4, 5, 6}, false)
	placement := rastermesh.PlacementFor(rastermesh.Extent{XMin: 0, XMax: 3, YMin: 0, YMax: 2}, rastermesh.CellSpacing{DX: 1, DY: 1})
	img, err := Render(mesh, placement, WithWidth(30))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestParseProjection(t *testing.T) {
	for _, p := range []Projection{Geographic, Mercator} {
		got, err := ParseProjection(p.String())
		if err != nil || got != p {
			t.Errorf("ParseProjection(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseProjection("robinson"); err == nil {
		t.Error("expected error for unknown projection")
	}
}
