// Command rastermesh builds, previews and views raster meshes.
//
// Usage:
//
//	rastermesh [-v] build   -i dem.json [-band 0] [-all] [-o mesh.json]
//	rastermesh [-v] preview -i dem.json -o dem.png [-projection mercator]
//	rastermesh      view    -demo
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/gogpu/rastermesh"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&buildCmd{}, "")
	subcommands.Register(&previewCmd{}, "")
	subcommands.Register(&viewCmd{}, "")

	verbose := flag.Bool("v", false, "Log debug output to stderr")
	flag.Parse()
	if *verbose {
		rastermesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	os.Exit(int(subcommands.Execute(context.Background())))
}
