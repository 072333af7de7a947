package rastermesh

import (
	"context"
	"sync"
	"sync/atomic"
)

// Builder is the asynchronous boundary between a host and the build
// pipeline. Each Request is snapshotted, stamped with an increasing
// sequence number and handed to the Executor; its result shows up on
// Results exactly once.
//
// Results may arrive out of order. Builder does not cancel superseded work:
// consumers compare BuildResult.Seq with Latest, or let layer.Layer drop
// stale results, so the newest request wins.
type Builder struct {
	exec    Executor
	seq     atomic.Uint64
	results chan BuildResult
	done    chan struct{}

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	buffer int
}

// WithResultBuffer sets the capacity of the Results channel (default 4).
func WithResultBuffer(n int) BuilderOption {
	return func(o *builderOptions) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// NewBuilder creates a builder on top of exec. A nil exec selects Inline.
func NewBuilder(exec Executor, opts ...BuilderOption) *Builder {
	o := builderOptions{buffer: 4}
	for _, opt := range opts {
		opt(&o)
	}
	if exec == nil {
		exec = Inline{}
	}
	return &Builder{
		exec:    exec,
		results: make(chan BuildResult, o.buffer),
		done:    make(chan struct{}),
	}
}

// Request submits a build of a snapshot of req and returns its sequence
// number. The caller may mutate req afterwards.
func (b *Builder) Request(ctx context.Context, req BuildRequest) (uint64, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0, ErrBuilderClosed
	}
	seq := b.seq.Add(1)
	b.wg.Add(1)
	b.mu.Unlock()

	job := Job{Seq: seq, Request: req.Clone()}
	Logger().Debug("rastermesh: build requested", "seq", seq,
		"width", req.Grid.Width, "height", req.Grid.Height)

	ch := b.exec.Submit(ctx, job)
	go func() {
		defer b.wg.Done()
		res := <-ch
		select {
		case b.results <- res:
		case <-b.done:
		}
	}()
	return seq, nil
}

// Results delivers one BuildResult per Request. It is closed by Close.
func (b *Builder) Results() <-chan BuildResult {
	return b.results
}

// Latest returns the sequence number of the most recent Request, or 0.
func (b *Builder) Latest() uint64 {
	return b.seq.Load()
}

// IsCurrent reports whether res answers the most recent Request.
func (b *Builder) IsCurrent(res BuildResult) bool {
	return res.Seq == b.Latest()
}

// Close stops intake, waits for in-flight builds, drops their undelivered
// results and closes Results.
func (b *Builder) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()

	b.wg.Wait()
	close(b.results)
}
