package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Wireframe   key.Binding
	Interpolate key.Binding
	Bounds      key.Binding
	Visible     key.Binding
	OpacityUp   key.Binding
	OpacityDown key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Wireframe:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wireframe")),
		Interpolate: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "interpolate")),
		Bounds:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bounds")),
		Visible:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visible")),
		OpacityUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "opacity")),
		OpacityDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "opacity")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Wireframe, k.Interpolate, k.Bounds, k.OpacityUp, k.OpacityDown, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Wireframe, k.Interpolate, k.Bounds, k.Visible},
		{k.OpacityUp, k.OpacityDown},
		{k.Help, k.Quit},
	}
}
