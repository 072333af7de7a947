package rastermesh

// RenderStyle holds the per-build rendering switches. Changing any field
// except Opacity and Visible requires a rebuild; the new mesh replaces the
// old one entirely.
type RenderStyle struct {
	// Interpolated smooths corner colors over the up-to-4 cells sharing
	// each corner. When false every cell is a flat quad.
	Interpolated bool `json:"interpolated"`

	// InterpolateBounds drops no-data neighbors from corner averages instead
	// of making the corner transparent.
	InterpolateBounds bool `json:"interpolateBounds"`

	// Wireframe emits line-strip outlines instead of filled triangles.
	Wireframe bool `json:"wireframe"`

	// Opacity scales the fragment color; clamped to [0, 1].
	Opacity float64 `json:"opacity"`

	// Visible gates drawing without touching the mesh.
	Visible bool `json:"visible"`
}

// StyleOption configures a RenderStyle.
//
// Example:
//
//	style := rastermesh.NewStyle(
//	    rastermesh.WithWireframe(true),
//	    rastermesh.WithOpacity(0.6),
//	)
type StyleOption func(*RenderStyle)

// DefaultStyle returns the default style: interpolated, no bounds
// interpolation, solid, fully opaque and visible.
func DefaultStyle() RenderStyle {
	return RenderStyle{
		Interpolated:      true,
		InterpolateBounds: false,
		Wireframe:         false,
		Opacity:           1,
		Visible:           true,
	}
}

// NewStyle applies opts on top of DefaultStyle.
func NewStyle(opts ...StyleOption) RenderStyle {
	s := DefaultStyle()
	for _, opt := range opts {
		opt(&s)
	}
	s.Opacity = ClampOpacity(s.Opacity)
	return s
}

// WithInterpolated toggles corner color smoothing.
func WithInterpolated(v bool) StyleOption {
	return func(s *RenderStyle) { s.Interpolated = v }
}

// WithInterpolateBounds toggles averaging across no-data neighbors.
func WithInterpolateBounds(v bool) StyleOption {
	return func(s *RenderStyle) { s.InterpolateBounds = v }
}

// WithWireframe toggles outline rendering.
func WithWireframe(v bool) StyleOption {
	return func(s *RenderStyle) { s.Wireframe = v }
}

// WithOpacity sets the opacity, clamped to [0, 1].
func WithOpacity(v float64) StyleOption {
	return func(s *RenderStyle) { s.Opacity = ClampOpacity(v) }
}

// WithVisible toggles drawing.
func WithVisible(v bool) StyleOption {
	return func(s *RenderStyle) { s.Visible = v }
}

// ClampOpacity restricts v to [0, 1]. NaN maps to 1.
func ClampOpacity(v float64) float64 {
	switch {
	case v != v:
		return 1
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
