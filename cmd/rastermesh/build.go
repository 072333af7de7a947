package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"sort"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/rastermesh"
	"github.com/gogpu/rastermesh/source"
)

type buildCmd struct {
	source     sourceFlags
	outputPath string
	allBands   bool
	workers    int
}

func (c *buildCmd) Name() string     { return "build" }
func (c *buildCmd) Synopsis() string { return "build mesh buffers and write them as JSON" }
func (c *buildCmd) Usage() string {
	return "rastermesh build (-i <path> | -demo) [-band <n> | -all] [-o <path>]\n"
}
func (c *buildCmd) SetFlags(f *flag.FlagSet) {
	c.source.SetFlags(f)
	f.StringVar(&c.outputPath, "o", "", "Output file path (default stdout)")
	f.BoolVar(&c.allBands, "all", false, "Build every band")
	f.IntVar(&c.workers, "workers", 0, "Build workers (default GOMAXPROCS)")
}

// snapshots returns the bands to build.
func (c *buildCmd) snapshots(ctx context.Context) ([]*source.Snapshot, error) {
	if !c.allBands {
		snap, err := c.source.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return []*source.Snapshot{snap}, nil
	}
	raster, err := c.source.raster(ctx)
	if err != nil {
		return nil, err
	}
	snaps := make([]*source.Snapshot, len(raster.Bands))
	for i := range raster.Bands {
		if snaps[i], err = raster.Select(i); err != nil {
			return nil, err
		}
	}
	return snaps, nil
}

// buildAll submits every snapshot to one builder and collects the
// responses in request order.
func (c *buildCmd) buildAll(ctx context.Context, snaps []*source.Snapshot) ([]rastermesh.BuildResponse, error) {
	pool := rastermesh.NewWorkerPool(c.workers)
	defer pool.Close()
	builder := rastermesh.NewBuilder(pool, rastermesh.WithResultBuffer(len(snaps)))
	defer builder.Close()

	for _, snap := range snaps {
		req, err := c.source.request(snap)
		if err != nil {
			return nil, err
		}
		if _, err := builder.Request(ctx, req); err != nil {
			return nil, err
		}
	}

	bar := progressbar.NewOptions(len(snaps),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("building"),
		progressbar.OptionShowCount())

	responses := make([]rastermesh.BuildResponse, 0, len(snaps))
	for range snaps {
		res := <-builder.Results()
		if res.Err != nil {
			log.Printf("build %d: %v", res.Seq, res.Err)
		}
		responses = append(responses, res.Response())
		bar.Add(1)
	}
	bar.Finish()
	os.Stderr.WriteString("\n")

	sort.Slice(responses, func(i, j int) bool { return responses[i].Seq < responses[j].Seq })
	return responses, nil
}

func writeResponses(w io.Writer, responses []rastermesh.BuildResponse, single bool) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	var err error
	if single {
		err = enc.Encode(responses[0])
	} else {
		err = enc.Encode(responses)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (c *buildCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	snaps, err := c.snapshots(ctx)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if len(snaps) == 0 {
		log.Printf("%s: raster has no bands", c.source.location())
		return subcommands.ExitFailure
	}

	responses, err := c.buildAll(ctx, snaps)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	var out io.Writer = os.Stdout
	if c.outputPath != "" {
		file, err := os.Create(c.outputPath)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		out = file
	}
	if err := writeResponses(out, responses, !c.allBands); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	for _, r := range responses {
		if r.Error != "" {
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
