package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"

	"github.com/gogpu/rastermesh"
	"github.com/gogpu/rastermesh/internal/tui"
)

type viewCmd struct {
	source  sourceFlags
	logPath string
	workers int
}

func (c *viewCmd) Name() string     { return "view" }
func (c *viewCmd) Synopsis() string { return "explore a raster mesh in the terminal" }
func (c *viewCmd) Usage() string {
	return "rastermesh view (-i <path> | -demo) [-band <n>] [-log <path>]\n"
}
func (c *viewCmd) SetFlags(f *flag.FlagSet) {
	c.source.SetFlags(f)
	f.StringVar(&c.logPath, "log", "", "Write debug logs to this file")
	f.IntVar(&c.workers, "workers", 0, "Build workers (default GOMAXPROCS)")
}

func (c *viewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
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

	if c.logPath != "" {
		file, err := tea.LogToFile(c.logPath, "rastermesh")
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		rastermesh.SetLogger(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	pool := rastermesh.NewWorkerPool(c.workers)
	defer pool.Close()
	builder := rastermesh.NewBuilder(pool)
	defer builder.Close()

	m := tui.New(c.source.location(), snap, req, builder)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
