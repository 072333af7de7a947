package rastermesh

import (
	"errors"
	"math"
	"testing"
)

// tolerance for floating point comparisons
const colorEpsilon = 1e-9

func colorsEqual(c1, c2 RGBA, epsilon float64) bool {
	return math.Abs(c1.R-c2.R) < epsilon &&
		math.Abs(c1.G-c2.G) < epsilon &&
		math.Abs(c1.B-c2.B) < epsilon &&
		math.Abs(c1.A-c2.A) < epsilon
}

func TestColorMapperTwoStops(t *testing.T) {
	m, err := NewColorMapper([]float64{0, 10}, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		v    float64
		want RGBA
	}{
		{"below domain", -5, White},
		{"domain start", 0, White},
		{"quarter", 2.5, RGB(0.75, 0.75, 0.75)},
		{"middle", 5, RGB(0.5, 0.5, 0.5)},
		{"domain end", 10, Black},
		{"above domain", 1e9, Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Map(tt.v); !colorsEqual(got, tt.want, colorEpsilon) {
				t.Errorf("Map(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestColorMapperMultiBreakDomain(t *testing.T) {
	// Three breakpoints place the middle stop at 10, not at the midpoint 55.
	stops := EvenStops(RGB(1, 0, 0), RGB(0, 1, 0), RGB(0, 0, 1))
	m, err := NewColorMapper([]float64{0, 10, 100}, stops)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		v    float64
		want RGBA
	}{
		{0, RGB(1, 0, 0)},
		{5, RGB(0.5, 0.5, 0)},
		{10, RGB(0, 1, 0)},
		{55, RGB(0, 0.5, 0.5)},
		{100, RGB(0, 0, 1)},
	}
	for _, tt := range tests {
		if got := m.Map(tt.v); !colorsEqual(got, tt.want, colorEpsilon) {
			t.Errorf("Map(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestColorMapperDescendingDomain(t *testing.T) {
	m, err := NewColorMapper([]float64{10, 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Map(10); !colorsEqual(got, White, colorEpsilon) {
		t.Errorf("Map(10) = %v, want white", got)
	}
	if got := m.Map(2.5); !colorsEqual(got, RGB(0.25, 0.25, 0.25), colorEpsilon) {
		t.Errorf("Map(2.5) = %v, want 0.25 gray", got)
	}
	d := m.Domain()
	if d[0] != 10 || d[1] != 0 {
		t.Errorf("Domain() = %v, want [10 0]", d)
	}
}

func TestColorMapperFlatDomain(t *testing.T) {
	m, err := NewColorMapper([]float64{3, 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{2, 3, 4} {
		got := m.Map(v)
		if math.IsNaN(got.R) {
			t.Errorf("Map(%v) = %v", v, got)
		}
	}
}

func TestColorMapperNaN(t *testing.T) {
	for _, domain := range [][]float64{{0, 10}, {10, 0}, {0, 5, 10}} {
		m, err := NewColorMapper(domain, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := m.Map(math.NaN()), m.Map(domain[0]); got != want {
			t.Errorf("domain %v: Map(NaN) = %v, want low end %v", domain, got, want)
		}
	}
}

func TestColorMapperUnsortedStops(t *testing.T) {
	stops := []ColorStop{
		{Offset: 1, Color: Black},
		{Offset: 0, Color: White},
	}
	m, err := NewColorMapper([]float64{0, 1}, stops)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Map(0); !colorsEqual(got, White, colorEpsilon) {
		t.Errorf("Map(0) = %v, want white", got)
	}
	// Input slice must not be reordered.
	if stops[0].Color != Black {
		t.Error("NewColorMapper modified its input")
	}
}

func TestColorMapperAlphaStops(t *testing.T) {
	stops := EvenStops(RGBA{R: 1, A: 0}, RGBA{R: 1, A: 1})
	for _, interp := range []Interpolation{InterpolateRGB, InterpolateLab, InterpolateHCL} {
		m, err := NewColorMapper([]float64{0, 1}, stops, WithInterpolation(interp))
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Map(0.5); math.Abs(got.A-0.5) > colorEpsilon {
			t.Errorf("%v: alpha at midpoint = %v, want 0.5", interp, got.A)
		}
	}
}

func TestColorMapperLabEndpoints(t *testing.T) {
	stops := EvenStops(MustHex("#ff0000"), MustHex("#0000ff"))
	m, err := NewColorMapper([]float64{0, 1}, stops, WithInterpolation(InterpolateLab))
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Map(0); !colorsEqual(got, RGB(1, 0, 0), 1e-6) {
		t.Errorf("Map(0) = %v, want red", got)
	}
	if got := m.Map(1); !colorsEqual(got, RGB(0, 0, 1), 1e-6) {
		t.Errorf("Map(1) = %v, want blue", got)
	}
	mid := m.Map(0.5)
	if colorsEqual(mid, RGB(0.5, 0, 0.5), 0.01) {
		t.Errorf("Lab midpoint %v equals the RGB midpoint", mid)
	}
}

func TestNewColorMapperErrors(t *testing.T) {
	tests := []struct {
		name   string
		domain []float64
		stops  []ColorStop
		want   error
	}{
		{"nil domain", nil, nil, ErrInvalidDomain},
		{"single breakpoint", []float64{1}, nil, ErrInvalidDomain},
		{"NaN breakpoint", []float64{0, math.NaN()}, nil, ErrInvalidDomain},
		{"infinite breakpoint", []float64{0, math.Inf(1)}, nil, ErrInvalidDomain},
		{"zigzag", []float64{0, 5, 1, 10}, nil, ErrInvalidDomain},
		{"empty stops", []float64{0, 1}, []ColorStop{}, ErrInvalidStops},
		{"offset above one", []float64{0, 1}, []ColorStop{{Offset: 1.5}}, ErrInvalidStops},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewColorMapper(tt.domain, tt.stops); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseColors(t *testing.T) {
	stops, err := ParseColors([]string{"#FFFFFF", "#000"})
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 || stops[0].Offset != 0 || stops[1].Offset != 1 {
		t.Fatalf("stops = %+v", stops)
	}
	if !colorsEqual(stops[0].Color, White, colorEpsilon) || !colorsEqual(stops[1].Color, Black, colorEpsilon) {
		t.Errorf("colors = %v, %v", stops[0].Color, stops[1].Color)
	}

	if _, err := ParseColors([]string{"#fff", "nope"}); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestParseInterpolation(t *testing.T) {
	for _, i := range []Interpolation{InterpolateRGB, InterpolateLab, InterpolateHCL} {
		got, err := ParseInterpolation(i.String())
		if err != nil || got != i {
			t.Errorf("ParseInterpolation(%q) = %v, %v", i.String(), got, err)
		}
	}
	if _, err := ParseInterpolation("cmyk"); err == nil {
		t.Error("expected error for unknown interpolation")
	}
}
