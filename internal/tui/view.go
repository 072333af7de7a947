package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	cols, rows := m.mapSize()

	header := titleStyle.Render(" rastermesh ─ " + m.title + " ")
	header = lipgloss.NewStyle().Width(m.width).Render(header)

	var mapView string
	switch {
	case !m.style.Visible:
		mapView = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, dimStyle.Render("layer hidden"))
	case m.picture == nil:
		mapView = lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, dimStyle.Render("waiting for mesh"))
	default:
		mapView = lipgloss.NewStyle().Width(cols).Height(rows).Render(
			lipgloss.JoinVertical(lipgloss.Left, m.mapLines()...))
	}

	if m.requested > m.applied {
		m.status = fmt.Sprintf("building seq %d...", m.requested)
	}
	flags := fmt.Sprintf(" interp=%v bounds=%v wire=%v opacity=%.1f ",
		m.style.Interpolated, m.style.InterpolateBounds, m.style.Wireframe, m.style.Opacity)
	status := lipgloss.JoinHorizontal(lipgloss.Bottom, dimStyle.Render(" "+m.status+" "), dimStyle.Render(flags))
	footer := lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, mapView, footer)
	return appStyle.Width(m.width).Render(ui)
}
