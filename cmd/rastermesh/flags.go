package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/rastermesh"
	"github.com/gogpu/rastermesh/source"
)

// sourceFlags selects the raster and the build options shared by every
// subcommand.
type sourceFlags struct {
	inputPath     string
	band          int
	demo          bool
	domain        string
	colors        string
	interpolation string
	flat          bool
	bounds        bool
	wireframe     bool
	opacity       float64
}

func (s *sourceFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.inputPath, "i", "", "Input raster (JSON file path or http(s) URL)")
	f.IntVar(&s.band, "band", 0, "Band index")
	f.BoolVar(&s.demo, "demo", false, "Use a synthetic elevation raster instead of -i")
	f.StringVar(&s.domain, "domain", "", "Comma separated color domain breakpoints (default: band min,max)")
	f.StringVar(&s.colors, "colors", "", "Comma separated hex colors (default: white,black)")
	f.StringVar(&s.interpolation, "interp", "rgb", "Color interpolation (rgb, lab, hcl)")
	f.BoolVar(&s.flat, "flat", false, "Disable corner interpolation")
	f.BoolVar(&s.bounds, "bounds", false, "Interpolate across no-data neighbors")
	f.BoolVar(&s.wireframe, "wireframe", false, "Build line-strip outlines")
	f.Float64Var(&s.opacity, "opacity", 1, "Layer opacity")
}

// location returns a label for the selected raster.
func (s *sourceFlags) location() string {
	if s.demo {
		return "demo"
	}
	return s.inputPath
}

func (s *sourceFlags) raster(ctx context.Context) (*source.Raster, error) {
	if s.demo {
		return source.Demo(96, 64, 8.5, 46.0, 0.005), nil
	}
	if s.inputPath == "" {
		return nil, errors.New("missing input: pass -i <path> or -demo")
	}
	return source.Load(ctx, s.inputPath)
}

func (s *sourceFlags) snapshot(ctx context.Context) (*source.Snapshot, error) {
	r, err := s.raster(ctx)
	if err != nil {
		return nil, err
	}
	return r.Select(s.band)
}

func (s *sourceFlags) style() rastermesh.RenderStyle {
	return rastermesh.NewStyle(
		rastermesh.WithInterpolated(!s.flat),
		rastermesh.WithInterpolateBounds(s.bounds),
		rastermesh.WithWireframe(s.wireframe),
		rastermesh.WithOpacity(s.opacity),
	)
}

// request turns snap and the color flags into a build request.
func (s *sourceFlags) request(snap *source.Snapshot) (rastermesh.BuildRequest, error) {
	req := snap.Request(s.style())

	if s.domain != "" {
		domain, err := parseFloats(s.domain)
		if err != nil {
			return req, fmt.Errorf("invalid -domain: %w", err)
		}
		req.Domain = domain
	}
	if s.colors != "" {
		stops, err := rastermesh.ParseColors(strings.Split(s.colors, ","))
		if err != nil {
			return req, fmt.Errorf("invalid -colors: %w", err)
		}
		req.Stops = stops
	}
	interp, err := rastermesh.ParseInterpolation(s.interpolation)
	if err != nil {
		return req, err
	}
	req.Interpolation = interp
	return req, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
