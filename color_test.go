package rastermesh

import (
	"image/color"
	"testing"
)

func TestRGBA_Color(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want color.NRGBA
	}{
		{"opaque black", Black, color.NRGBA{0, 0, 0, 255}},
		{"opaque white", White, color.NRGBA{255, 255, 255, 255}},
		{"transparent", Transparent, color.NRGBA{}},
		{"half alpha red", RGBA{1, 0, 0, 0.5}, color.NRGBA{255, 0, 0, 128}},
		{"out of range", RGBA{2, -1, 0.5, 1}, color.NRGBA{255, 0, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Color(); got != tt.want {
				t.Errorf("Color() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	if !colorsEqual(got, RGBA{1, 0, 0.2, 1}, colorEpsilon) {
		t.Errorf("FromColor = %v", got)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#fff", White},
		{"000", Black},
		{"#ff0000", RGB(1, 0, 0)},
		{"#00ff0080", RGBA{0, 1, 0, 128.0 / 255}},
		{"#00f8", RGBA{0, 0, 1, 136.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Hex(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !colorsEqual(got, tt.want, 1e-6) {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexInvalid(t *testing.T) {
	for _, s := range []string{"", "#", "#ff", "#gggggg", "#1234567"} {
		if _, err := Hex(s); err == nil {
			t.Errorf("Hex(%q) succeeded", s)
		}
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustHex did not panic")
		}
	}()
	MustHex("not a color")
}

func TestRGBA_Lerp(t *testing.T) {
	c := Black.Lerp(White, 0.25)
	if !colorsEqual(c, RGB(0.25, 0.25, 0.25), colorEpsilon) {
		t.Errorf("Lerp = %v", c)
	}
	if got := Transparent.Lerp(White, 0.5).A; got != 0.5 {
		t.Errorf("alpha = %v, want 0.5", got)
	}
}

func TestRGBA_Float32(t *testing.T) {
	got := RGBA{0.5, 0.25, 1, 0}.Float32()
	if got != [4]float32{0.5, 0.25, 1, 0} {
		t.Errorf("Float32() = %v", got)
	}
}
