package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/rastermesh"
)

// gouraud is an image source that interpolates three vertex colors with
// barycentric weights, evaluated at pixel centers.
type gouraud struct {
	a, b, c vertex
	inv     float64 // 1 / twice the signed area
	opacity float64
	bounds  image.Rectangle
}

func newGouraud(a, b, c vertex, opacity float64, bounds image.Rectangle) (*gouraud, bool) {
	area2 := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	if math.Abs(area2) < 1e-12 {
		return nil, false
	}
	return &gouraud{a: a, b: b, c: c, inv: 1 / area2, opacity: opacity, bounds: bounds}, true
}

func (g *gouraud) ColorModel() color.Model { return color.RGBA64Model }

func (g *gouraud) Bounds() image.Rectangle { return g.bounds }

func (g *gouraud) At(x, y int) color.Color {
	px, py := float64(x)+0.5, float64(y)+0.5
	wa := ((g.b.x-px)*(g.c.y-py) - (g.c.x-px)*(g.b.y-py)) * g.inv
	wb := ((g.c.x-px)*(g.a.y-py) - (g.a.x-px)*(g.c.y-py)) * g.inv
	wa, wb = clamp01(wa), clamp01(wb)
	wc := clamp01(1 - wa - wb)
	if sum := wa + wb + wc; sum > 0 {
		wa, wb, wc = wa/sum, wb/sum, wc/sum
	}

	ca, cb, cc := premultiply(g.a.c), premultiply(g.b.c), premultiply(g.c.c)
	alpha := clamp01(wa*ca.A+wb*cb.A+wc*cc.A) * g.opacity
	channel := func(va, vb, vc float64) uint16 {
		v := math.Min(clamp01(wa*va+wb*vb+wc*vc)*g.opacity, alpha)
		return uint16(v*0xffff + 0.5)
	}
	return color.RGBA64{
		R: channel(ca.R, cb.R, cc.R),
		G: channel(ca.G, cb.G, cc.G),
		B: channel(ca.B, cb.B, cc.B),
		A: uint16(alpha*0xffff + 0.5),
	}
}

func premultiply(c rastermesh.RGBA) rastermesh.RGBA {
	a := clamp01(c.A)
	return rastermesh.RGBA{R: c.R * a, G: c.G * a, B: c.B * a, A: a}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
