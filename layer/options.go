//go:build !nogpu

package layer

// Option configures a Layer during creation.
//
// Example:
//
//	// Development build: complain about draws before attach
//	l := layer.New(layer.WithStrict(), layer.WithLabel("dem"))
type Option func(*options)

// options holds optional configuration for Layer creation.
type options struct {
	label  string
	strict bool
}

// defaultOptions returns the default layer options.
func defaultOptions() options {
	return options{
		label: "raster_mesh",
	}
}

// WithStrict makes Draw return ErrNotAttached before Attach instead of
// skipping the frame.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithLabel sets the debug label prefix of every GPU object the layer
// creates.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
