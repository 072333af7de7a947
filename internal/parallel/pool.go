// Package parallel provides the goroutine pool that runs mesh builds off the
// render goroutine.
package parallel

import (
	"runtime"
	"sync"
)

// WorkerPool is a fixed set of goroutines consuming a shared work queue.
//
// Jobs start in submission order but may finish in any order. Close stops
// intake, runs everything already queued and waits for the workers to exit.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	wg      sync.WaitGroup

	// mu guards closed and the send side of queue.
	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately and workers begin waiting for work.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// A few slots per worker keep submitters from blocking on short bursts.
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), queueSize),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for work := range p.queue {
		if work != nil {
			work()
		}
	}
}

// Go queues fn for execution. It blocks while the queue is full and reports
// false, without running fn, once the pool is closed.
func (p *WorkerPool) Go(fn func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.queue <- fn
	return true
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// Close stops accepting work, drains the queue and waits for all workers.
// Safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}
