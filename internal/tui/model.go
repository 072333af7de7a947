// Package tui is a terminal host for the mesh engine. It requests builds
// through a rastermesh.Builder, keeps only the newest result and draws it
// with the CPU preview renderer as colored half-block cells.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gogpu/rastermesh"
	"github.com/gogpu/rastermesh/source"
)

const (
	headerHeight = 1
	footerHeight = 2
	opacityStep  = 0.1
)

type Model struct {
	width  int
	height int

	title   string
	snap    *source.Snapshot
	base    rastermesh.BuildRequest
	builder *rastermesh.Builder
	style   rastermesh.RenderStyle

	// newest request sent and newest result applied
	requested uint64
	applied   uint64
	mesh      *rastermesh.MeshBuffers

	// rendered map cells, row by row
	picture [][]string
	picW    int
	picH    int // in pixels, two per row

	// cursor in grid cells
	cursorX int
	cursorY int

	status string
	keys   keyMap
	help   help.Model
}

// New returns a model that builds req, a request for snap, on builder.
// Key toggles only change req's style. The builder's Results channel must
// not be consumed by anything else.
func New(title string, snap *source.Snapshot, req rastermesh.BuildRequest, builder *rastermesh.Builder) Model {
	return Model{
		title:   title,
		snap:    snap,
		base:    req,
		builder: builder,
		style:   req.Style,
		cursorX: snap.Grid.Width / 2,
		cursorY: snap.Grid.Height / 2,
		status:  "building...",
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Style returns the current render style.
func (m Model) Style() rastermesh.RenderStyle { return m.style }

// Mesh returns the newest applied mesh, or nil.
func (m Model) Mesh() *rastermesh.MeshBuffers { return m.mesh }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.request(), waitForResult(m.builder.Results()))
}

type requestedMsg struct{ seq uint64 }

type resultMsg rastermesh.BuildResult

type closedMsg struct{}

type errMsg struct{ err error }

// request submits the base request with the current style.
func (m Model) request() tea.Cmd {
	req := m.base
	req.Style = m.style
	b := m.builder
	return func() tea.Msg {
		seq, err := b.Request(context.Background(), req)
		if err != nil {
			return errMsg{err}
		}
		return requestedMsg{seq}
	}
}

func waitForResult(results <-chan rastermesh.BuildResult) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-results
		if !ok {
			return closedMsg{}
		}
		return resultMsg(res)
	}
}

// readout describes the cell under the cursor.
func (m Model) readout() string {
	dx, dy := abs(m.snap.Cell.DX), abs(m.snap.Cell.DY)
	lng := m.snap.Extent.XMin + (float64(m.cursorX)+0.5)*dx
	lat := m.snap.Extent.YMax - (float64(m.cursorY)+0.5)*dy
	v, ok := m.snap.Grid.Sample(lng, lat, m.snap.Extent, m.snap.Cell)
	switch {
	case !ok:
		return fmt.Sprintf("lon=%.5f lat=%.5f  outside", lng, lat)
	case m.snap.Grid.IsNoData(v):
		return fmt.Sprintf("lon=%.5f lat=%.5f  no data", lng, lat)
	}
	return fmt.Sprintf("lon=%.5f lat=%.5f  value=%g", lng, lat, v)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
