package rastermesh

import (
	"errors"
	"fmt"
)

// Sentinel errors for malformed build inputs. They are wrapped by *BuildError
// and can be matched with errors.Is.
var (
	// ErrEmptyGrid is returned when the grid has zero width or height.
	ErrEmptyGrid = errors.New("rastermesh: empty grid")

	// ErrDimensionMismatch is returned when len(Values) != Width*Height.
	ErrDimensionMismatch = errors.New("rastermesh: grid dimensions do not match values")

	// ErrInvalidDomain is returned for a color domain with fewer than two
	// finite, monotonic breakpoints.
	ErrInvalidDomain = errors.New("rastermesh: invalid color domain")

	// ErrInvalidStops is returned for an empty gradient or out-of-range offsets.
	ErrInvalidStops = errors.New("rastermesh: invalid color stops")

	// ErrBuilderClosed is returned by Builder.Request after Close.
	ErrBuilderClosed = errors.New("rastermesh: builder closed")
)

// BuildError reports a failed build. A failed build never yields a partial
// mesh.
type BuildError struct {
	Op  string // validate, tessellate, ...
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("rastermesh: build %s: %v", e.Op, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// SourceError reports a failure while obtaining the raster: fetch, decode,
// projection or band selection. It always originates outside the mesh
// engine and is never retried.
type SourceError struct {
	Label string // human readable context, e.g. "unable to fetch dem.json"
	Err   error
}

func (e *SourceError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("rastermesh: source: %v", e.Err)
	}
	return fmt.Sprintf("rastermesh: %s: %v", e.Label, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// AttachmentError reports a draw-related call made without a GPU context.
type AttachmentError struct {
	Op    string
	State string
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("rastermesh: %s called in state %s", e.Op, e.State)
}
