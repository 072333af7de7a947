package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gogpu/rastermesh"
	"github.com/gogpu/rastermesh/preview"
)

// redraw renders the current mesh into terminal cells sized to the map
// area. Each cell shows two vertically stacked pixels.
func (m *Model) redraw() {
	m.picture, m.picW, m.picH = nil, 0, 0
	cols, rows := m.mapSize()
	if m.mesh == nil || cols <= 0 || rows <= 0 {
		return
	}
	if !m.style.Visible {
		return
	}

	placement := rastermesh.PlacementFor(m.snap.Extent, m.snap.Cell)
	render := func(width int) (*image.RGBA, error) {
		return preview.Render(m.mesh, placement,
			preview.WithWidth(width),
			preview.WithOpacity(m.style.Opacity))
	}
	img, err := render(cols)
	if err == nil && img.Bounds().Dy() > 2*rows {
		if w := cols * 2 * rows / img.Bounds().Dy(); w > 0 {
			img, err = render(w)
		}
	}
	if err != nil {
		m.status = "render: " + err.Error()
		return
	}

	m.picture = halfBlocks(img)
	m.picW, m.picH = img.Bounds().Dx(), img.Bounds().Dy()
}

// mapSize returns the map area in terminal cells.
func (m Model) mapSize() (cols, rows int) {
	return m.width, m.height - headerHeight - footerHeight
}

// halfBlocks turns img into rows of "▀" cells: the foreground paints the
// upper pixel, the background the lower one.
func halfBlocks(img *image.RGBA) [][]string {
	b := img.Bounds()
	rows := make([][]string, 0, (b.Dy()+1)/2)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		row := make([]string, 0, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			row = append(row, lipgloss.NewStyle().
				Foreground(lipgloss.Color(over(img, x, y))).
				Background(lipgloss.Color(over(img, x, y+1))).
				Render("▀"))
		}
		rows = append(rows, row)
	}
	return rows
}

// mapLines joins the picture cells and marks the cursor.
func (m Model) mapLines() []string {
	col, row, ok := m.cursorCell()
	lines := make([]string, len(m.picture))
	for y, cells := range m.picture {
		if ok && y == row {
			marked := append([]string(nil), cells...)
			marked[col] = cursorStyle.Render("+")
			cells = marked
		}
		lines[y] = strings.Join(cells, "")
	}
	return lines
}

// over composites the premultiplied pixel at (x, y) onto the canvas
// background and returns it as a hex color. Pixels outside img are
// background.
func over(img *image.RGBA, x, y int) string {
	if !(image.Point{x, y}).In(img.Bounds()) {
		return hex(canvasBg[0], canvasBg[1], canvasBg[2])
	}
	c := img.RGBAAt(x, y)
	inv := 255 - uint32(c.A)
	blend := func(v uint8, bg uint8) uint8 {
		return uint8(min(uint32(v)+(uint32(bg)*inv+127)/255, 255))
	}
	return hex(blend(c.R, canvasBg[0]), blend(c.G, canvasBg[1]), blend(c.B, canvasBg[2]))
}

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// cursorCell maps the grid cursor to a terminal cell of the picture.
func (m Model) cursorCell() (col, row int, ok bool) {
	if m.picW == 0 || m.snap.Grid.Width == 0 || m.snap.Grid.Height == 0 {
		return 0, 0, false
	}
	px := int((float64(m.cursorX) + 0.5) / float64(m.snap.Grid.Width) * float64(m.picW))
	py := int((float64(m.cursorY) + 0.5) / float64(m.snap.Grid.Height) * float64(m.picH))
	return clampInt(px, 0, m.picW-1), clampInt(py/2, 0, len(m.picture)-1), true
}
