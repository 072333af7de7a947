package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/gogpu/rastermesh"
	"github.com/gogpu/rastermesh/preview"
)

type previewCmd struct {
	source     sourceFlags
	outputPath string
	width      int
	padding    int
	projection string
	background string
	lineWidth  float64
}

func (c *previewCmd) Name() string     { return "preview" }
func (c *previewCmd) Synopsis() string { return "render a mesh to a PNG image on the CPU" }
func (c *previewCmd) Usage() string {
	return "rastermesh preview (-i <path> | -demo) -o <path> [-width <px> -projection <name>]\n"
}
func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	c.source.SetFlags(f)
	f.StringVar(&c.outputPath, "o", "", "Output PNG path")
	f.IntVar(&c.width, "width", 512, "Image width in pixels")
	f.IntVar(&c.padding, "padding", 0, "Border in pixels")
	f.StringVar(&c.projection, "projection", "geographic", "Image projection (geographic, mercator)")
	f.StringVar(&c.background, "background", "", "Background hex color (default transparent)")
	f.Float64Var(&c.lineWidth, "line-width", 1, "Wireframe line width in pixels")
}

func (c *previewCmd) options() ([]preview.Option, error) {
	projection, err := preview.ParseProjection(c.projection)
	if err != nil {
		return nil, err
	}
	opts := []preview.Option{
		preview.WithWidth(c.width),
		preview.WithPadding(c.padding),
		preview.WithProjection(projection),
		preview.WithOpacity(c.source.opacity),
		preview.WithLineWidth(c.lineWidth),
	}
	if c.background != "" {
		bg, err := rastermesh.Hex(c.background)
		if err != nil {
			return nil, err
		}
		opts = append(opts, preview.WithBackground(bg.Color()))
	}
	return opts, nil
}

func (c *previewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.outputPath == "" {
		log.Println("missing output: pass -o <path>")
		return subcommands.ExitUsageError
	}
	opts, err := c.options()
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	snap, err := c.source.snapshot(ctx)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	req, err := c.source.request(snap)
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}
	mesh, err := rastermesh.Build(ctx, req)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	img, err := preview.Render(mesh, rastermesh.PlacementFor(snap.Extent, snap.Cell), opts...)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	file, err := os.Create(c.outputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	if err := preview.WritePNG(file, img); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	log.Printf("%s: wrote %s (%dx%d, %d vertices)", c.source.location(), c.outputPath,
		img.Bounds().Dx(), img.Bounds().Dy(), mesh.VertexCount)
	return subcommands.ExitSuccess
}
