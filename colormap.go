package rastermesh

import (
	"fmt"
	"math"
	"sort"
)

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 `json:"offset"` // Position in gradient, 0.0 to 1.0
	Color  RGBA    `json:"color"`
}

// Interpolation selects the color space adjacent stops are blended in.
type Interpolation int

const (
	// InterpolateRGB blends the stops component-wise in sRGB (default).
	InterpolateRGB Interpolation = iota
	// InterpolateLab blends in CIE L*a*b*.
	InterpolateLab
	// InterpolateHCL blends in polar L*a*b*, taking the shortest hue path.
	InterpolateHCL
)

// String returns the interpolation name as accepted by ParseInterpolation.
func (i Interpolation) String() string {
	switch i {
	case InterpolateRGB:
		return "rgb"
	case InterpolateLab:
		return "lab"
	case InterpolateHCL:
		return "hcl"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// ParseInterpolation parses "rgb", "lab" or "hcl".
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "rgb":
		return InterpolateRGB, nil
	case "lab":
		return InterpolateLab, nil
	case "hcl":
		return InterpolateHCL, nil
	}
	return InterpolateRGB, fmt.Errorf("rastermesh: unknown interpolation %q", s)
}

// DefaultStops returns the default two-stop white to black gradient.
func DefaultStops() []ColorStop {
	return []ColorStop{{Offset: 0, Color: White}, {Offset: 1, Color: Black}}
}

// EvenStops spreads colors evenly over [0, 1].
func EvenStops(colors ...RGBA) []ColorStop {
	stops := make([]ColorStop, len(colors))
	for i, c := range colors {
		if len(colors) > 1 {
			stops[i].Offset = float64(i) / float64(len(colors)-1)
		}
		stops[i].Color = c
	}
	return stops
}

// ParseColors parses CSS hex colors into evenly spaced stops.
func ParseColors(colors []string) ([]ColorStop, error) {
	parsed := make([]RGBA, 0, len(colors))
	for _, s := range colors {
		c, err := Hex(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, c)
	}
	return EvenStops(parsed...), nil
}

// ColorMapper maps sample values to colors through a piecewise-linear domain
// and a gradient. A ColorMapper is immutable and safe for concurrent use.
//
// Domain breakpoints d[0..n-1] land at gradient positions k/(n-1); values
// between two breakpoints are placed linearly between their positions.
// Values outside the domain clamp to the end colors.
type ColorMapper struct {
	domain  []float64
	flip    bool
	stops   []ColorStop
	interp  Interpolation
	endLow  RGBA
	endHigh RGBA
}

// ColorMapperOption configures a ColorMapper.
type ColorMapperOption func(*ColorMapper)

// WithInterpolation sets the blending color space.
func WithInterpolation(i Interpolation) ColorMapperOption {
	return func(m *ColorMapper) {
		m.interp = i
	}
}

// NewColorMapper creates a mapper from domain breakpoints and color stops.
// The domain needs at least two finite values in ascending or descending
// order. Nil stops select DefaultStops.
func NewColorMapper(domain []float64, stops []ColorStop, opts ...ColorMapperOption) (*ColorMapper, error) {
	if len(domain) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breakpoints, got %d", ErrInvalidDomain, len(domain))
	}
	d := make([]float64, len(domain))
	copy(d, domain)
	for _, v := range d {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite breakpoint %v", ErrInvalidDomain, v)
		}
	}

	flip := d[0] > d[len(d)-1]
	if flip {
		for i := range d {
			d[i] = -d[i]
		}
	}
	for i := 1; i < len(d); i++ {
		if d[i] < d[i-1] {
			return nil, fmt.Errorf("%w: breakpoints not monotonic at index %d", ErrInvalidDomain, i)
		}
	}

	if stops == nil {
		stops = DefaultStops()
	}
	if len(stops) == 0 {
		return nil, fmt.Errorf("%w: empty gradient", ErrInvalidStops)
	}
	for _, s := range stops {
		if s.Offset < 0 || s.Offset > 1 || math.IsNaN(s.Offset) {
			return nil, fmt.Errorf("%w: offset %v outside [0, 1]", ErrInvalidStops, s.Offset)
		}
	}

	m := &ColorMapper{
		domain: d,
		flip:   flip,
		stops:  sortStops(stops),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.endLow = m.stops[0].Color
	m.endHigh = m.stops[len(m.stops)-1].Color
	return m, nil
}

// Domain returns a copy of the domain breakpoints in the order given.
func (m *ColorMapper) Domain() []float64 {
	d := make([]float64, len(m.domain))
	for i, v := range m.domain {
		if m.flip {
			v = -v
		}
		d[i] = v
	}
	return d
}

// Map returns the color of v. No-data filtering is the caller's job.
func (m *ColorMapper) Map(v float64) RGBA {
	return m.colorAt(m.position(v))
}

// position returns the gradient offset of v in [0, 1].
func (m *ColorMapper) position(v float64) float64 {
	if m.flip {
		v = -v
	}
	d := m.domain
	n := len(d)
	if math.IsNaN(v) || v <= d[0] {
		return 0
	}
	if v >= d[n-1] {
		return 1
	}
	// First breakpoint strictly above v; v lies in [d[k-1], d[k]).
	k := sort.Search(n, func(i int) bool { return d[i] > v })
	lo, hi := d[k-1], d[k]
	local := 0.0
	if hi > lo {
		local = (v - lo) / (hi - lo)
	}
	return (float64(k-1) + local) / float64(n-1)
}

// colorAt returns the interpolated color at a given offset.
func (m *ColorMapper) colorAt(t float64) RGBA {
	stops := m.stops
	if len(stops) == 1 {
		return stops[0].Color
	}
	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	if idx == 0 {
		return m.endLow
	}
	if idx >= len(stops) {
		return m.endHigh
	}

	stop1 := stops[idx-1]
	stop2 := stops[idx]
	if stop2.Offset == stop1.Offset {
		return stop1.Color
	}
	localT := (t - stop1.Offset) / (stop2.Offset - stop1.Offset)
	return m.blend(stop1.Color, stop2.Color, localT)
}

func (m *ColorMapper) blend(c1, c2 RGBA, t float64) RGBA {
	var c RGBA
	switch m.interp {
	case InterpolateLab:
		b := c1.colorful().BlendLab(c2.colorful(), t).Clamped()
		c = RGBA{R: b.R, G: b.G, B: b.B}
	case InterpolateHCL:
		b := c1.colorful().BlendHcl(c2.colorful(), t).Clamped()
		c = RGBA{R: b.R, G: b.G, B: b.B}
	default:
		return c1.Lerp(c2, t)
	}
	c.A = c1.A + (c2.A-c1.A)*t
	return c
}

// sortStops returns a copy of stops ordered by offset. Equal offsets keep
// their input order, which yields a hard color edge.
func sortStops(stops []ColorStop) []ColorStop {
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}
