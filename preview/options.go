package preview

import (
	"image/color"

	"github.com/gogpu/rastermesh"
)

// Option configures Render.
type Option func(*options)

type options struct {
	width      int
	padding    int
	projection Projection
	background color.Color
	opacity    float64
	lineWidth  float64
}

func defaultOptions() options {
	return options{
		width:     512,
		lineWidth: 1,
		opacity:   1,
	}
}

// WithWidth sets the image width in pixels (default 512).
func WithWidth(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.width = px
		}
	}
}

// WithPadding sets the empty border around the mesh in pixels.
func WithPadding(px int) Option {
	return func(o *options) {
		if px >= 0 {
			o.padding = px
		}
	}
}

// WithProjection selects the projection (default Geographic).
func WithProjection(p Projection) Option {
	return func(o *options) {
		o.projection = p
	}
}

// WithBackground fills the image before drawing. The default background is
// transparent.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithOpacity scales every fragment like the layer opacity uniform.
func WithOpacity(v float64) Option {
	return func(o *options) {
		o.opacity = rastermesh.ClampOpacity(v)
	}
}

// WithLineWidth sets the stroke width of wireframe meshes in pixels.
func WithLineWidth(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.lineWidth = px
		}
	}
}
