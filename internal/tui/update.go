package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gogpu/rastermesh"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.redraw()
	case requestedMsg:
		if msg.seq > m.requested {
			m.requested = msg.seq
		}
	case resultMsg:
		m.apply(rastermesh.BuildResult(msg))
		return m, waitForResult(m.builder.Results())
	case closedMsg:
		m.status = "builder closed"
	case errMsg:
		m.status = "error: " + msg.err.Error()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Wireframe):
		m.style.Wireframe = !m.style.Wireframe
		m.status = fmt.Sprintf("wireframe: %v", m.style.Wireframe)
		return m, m.request()
	case key.Matches(msg, m.keys.Interpolate):
		m.style.Interpolated = !m.style.Interpolated
		m.status = fmt.Sprintf("interpolated: %v", m.style.Interpolated)
		return m, m.request()
	case key.Matches(msg, m.keys.Bounds):
		m.style.InterpolateBounds = !m.style.InterpolateBounds
		m.status = fmt.Sprintf("interpolate bounds: %v", m.style.InterpolateBounds)
		return m, m.request()
	case key.Matches(msg, m.keys.Visible):
		m.style.Visible = !m.style.Visible
		m.status = fmt.Sprintf("visible: %v", m.style.Visible)
		m.redraw()
	case key.Matches(msg, m.keys.OpacityUp):
		m.setOpacity(m.style.Opacity + opacityStep)
	case key.Matches(msg, m.keys.OpacityDown):
		m.setOpacity(m.style.Opacity - opacityStep)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	}
	return m, nil
}

// apply keeps res when it is newer than the mesh on screen.
func (m *Model) apply(res rastermesh.BuildResult) {
	if res.Seq <= m.applied {
		rastermesh.Logger().Debug("tui: dropping stale result", "seq", res.Seq, "applied", m.applied)
		return
	}
	m.applied = res.Seq
	if res.Err != nil {
		rastermesh.Logger().Warn("tui: build failed", "seq", res.Seq, "err", res.Err)
		m.status = "build failed: " + res.Err.Error()
		return
	}
	m.mesh = res.Mesh
	m.status = fmt.Sprintf("seq %d: %d vertices, %s", res.Seq, res.Mesh.VertexCount, res.Mesh.Topology)
	m.redraw()
}

// setOpacity re-renders without a rebuild.
func (m *Model) setOpacity(v float64) {
	// round away float drift from repeated steps
	m.style.Opacity = rastermesh.ClampOpacity(float64(int(v*100+0.5)) / 100)
	m.status = fmt.Sprintf("opacity: %.1f", m.style.Opacity)
	m.redraw()
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursorX = clampInt(m.cursorX+dx, 0, m.snap.Grid.Width-1)
	m.cursorY = clampInt(m.cursorY+dy, 0, m.snap.Grid.Height-1)
	m.status = m.readout()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
