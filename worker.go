package rastermesh

import (
	"context"

	"github.com/gogpu/rastermesh/internal/parallel"
)

// Job is one build submitted to an Executor.
type Job struct {
	Seq     uint64
	Request BuildRequest
}

// BuildResult is the message delivered for a Job: either a mesh or an
// error, never both.
type BuildResult struct {
	Seq  uint64
	Mesh *MeshBuffers
	Err  error
}

// Executor is the submit-and-await capability the Builder runs jobs on.
// Submit must deliver exactly one result on the returned channel.
type Executor interface {
	Submit(ctx context.Context, job Job) <-chan BuildResult
}

func run(ctx context.Context, job Job) BuildResult {
	mesh, err := Build(ctx, job.Request)
	return BuildResult{Seq: job.Seq, Mesh: mesh, Err: err}
}

// Inline runs jobs synchronously on the submitting goroutine. Useful in
// tests and for hosts without a render loop.
type Inline struct{}

// Submit implements Executor.
func (Inline) Submit(ctx context.Context, job Job) <-chan BuildResult {
	ch := make(chan BuildResult, 1)
	ch <- run(ctx, job)
	close(ch)
	return ch
}

// WorkerPool runs jobs on a fixed set of background goroutines.
type WorkerPool struct {
	pool *parallel.WorkerPool
}

// NewWorkerPool starts a pool of the given size; 0 selects GOMAXPROCS.
// Call Close to stop it.
func NewWorkerPool(workers int) *WorkerPool {
	return &WorkerPool{pool: parallel.NewWorkerPool(workers)}
}

// Submit implements Executor. After Close the result carries
// ErrBuilderClosed.
func (w *WorkerPool) Submit(ctx context.Context, job Job) <-chan BuildResult {
	ch := make(chan BuildResult, 1)
	ok := w.pool.Go(func() {
		ch <- run(ctx, job)
		close(ch)
	})
	if !ok {
		ch <- BuildResult{Seq: job.Seq, Err: ErrBuilderClosed}
		close(ch)
	}
	return ch
}

// Close waits for queued jobs and stops the workers.
func (w *WorkerPool) Close() {
	w.pool.Close()
}

// BuildWith submits req to exec and waits for the result.
func BuildWith(ctx context.Context, exec Executor, req BuildRequest) (*MeshBuffers, error) {
	select {
	case res := <-exec.Submit(ctx, Job{Request: req.Clone()}):
		return res.Mesh, res.Err
	case <-ctx.Done():
		return nil, &BuildError{Op: "await", Err: ctx.Err()}
	}
}

// BuildResponse is the serializable form of a BuildResult.
type BuildResponse struct {
	Seq         uint64    `json:"seq"`
	Positions   []float32 `json:"positions,omitempty"`
	Colors      []float32 `json:"colors,omitempty"`
	VertexCount int       `json:"vertexCount"`
	Topology    Topology  `json:"topology"`
	Error       string    `json:"error,omitempty"`
}

// Response converts r into its message form.
func (r BuildResult) Response() BuildResponse {
	resp := BuildResponse{Seq: r.Seq}
	if r.Err != nil {
		resp.Error = r.Err.Error()
		return resp
	}
	if r.Mesh != nil {
		resp.Positions = r.Mesh.Positions
		resp.Colors = r.Mesh.Colors
		resp.VertexCount = r.Mesh.VertexCount
		resp.Topology = r.Mesh.Topology
	}
	return resp
}
