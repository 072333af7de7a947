package tessellate

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// LatticeUnit is the distance between neighboring cell centers in lattice
// coordinates. Cell corners sit at ±LatticeUnit/2 around the center.
const LatticeUnit = 100

const halfUnit = LatticeUnit / 2

// Mode selects the primitive layout.
type Mode int

const (
	// Solid emits two triangles per cell: corners (0,1,2) and (2,3,0).
	Solid Mode = iota
	// Wireframe emits two 5-vertex line-strip loops per cell.
	Wireframe
)

// Corner sequences per cell. A wireframe loop closes its triangle and then
// walks back along the shared diagonal, so the second loop starts where the
// first ended. A cell ends on its top-left corner and the next cell starts on
// its own top-left corner, so the joining segment is a real top edge and a
// row is drawn without stray segments.
var (
	solidOrder     = [...]int{TopLeft, TopRight, BottomRight, BottomRight, BottomLeft, TopLeft}
	wireframeOrder = [...]int{
		TopLeft, TopRight, BottomRight, TopLeft, BottomRight,
		BottomRight, BottomLeft, TopLeft, BottomRight, TopLeft,
	}
)

func (m Mode) order() []int {
	if m == Wireframe {
		return wireframeOrder[:]
	}
	return solidOrder[:]
}

// VerticesPerCell returns how many vertices one cell contributes.
func (m Mode) VerticesPerCell() int {
	return len(m.order())
}

// Mesh tessellates the whole grid. Geometric row 0 is the south row and maps
// to data row Height-1. Rows are split into bands tessellated concurrently;
// each band writes a fixed window of the output, so the result does not
// depend on scheduling.
func Mesh(ctx context.Context, r *Resolver, mode Mode) (positions, colors []float32, err error) {
	w, h := r.p.Width, r.p.Height
	perRow := w * mode.VerticesPerCell()
	positions = make([]float32, h*perRow*2)
	colors = make([]float32, h*perRow*4)

	bands := runtime.GOMAXPROCS(0)
	bands = max(1, min(bands, h))
	rowsPerBand := (h + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < h; start += rowsPerBand {
		end := min(start+rowsPerBand, h)
		g.Go(func() error {
			for row := start; row < end; row++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				v := row * perRow
				Row(r, mode, row, positions[v*2:(v+perRow)*2], colors[v*4:(v+perRow)*4])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return positions, colors, nil
}

// Row tessellates geometric row g into positions and colors, which must hold
// exactly Width*VerticesPerCell vertices.
func Row(r *Resolver, mode Mode, g int, positions, colors []float32) {
	order := mode.order()
	dataRow := r.p.Height - 1 - g
	yc := g * LatticeUnit

	p, c := 0, 0
	for i := 0; i < r.p.Width; i++ {
		xc := i * LatticeUnit
		corners := [4][2]float32{
			TopLeft:     {float32(xc - halfUnit), float32(yc + halfUnit)},
			TopRight:    {float32(xc + halfUnit), float32(yc + halfUnit)},
			BottomRight: {float32(xc + halfUnit), float32(yc - halfUnit)},
			BottomLeft:  {float32(xc - halfUnit), float32(yc - halfUnit)},
		}
		cellColors := r.Cell(dataRow, i)

		for _, k := range order {
			positions[p] = corners[k][0]
			positions[p+1] = corners[k][1]
			p += 2
			copy(colors[c:c+4], cellColors[k][:])
			c += 4
		}
	}
}
