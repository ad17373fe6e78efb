// Package parallel runs fork-join loops over index ranges on a reusable
// worker pool.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	// DefaultGrain is the smallest number of indices handed to one task.
	DefaultGrain = 64

	queueSize   = 256
	idleTimeout = 1 * time.Second
)

// Pool splits loops into blocks and runs them on persistent workers.
// Workers outlive a single loop, so per-frame loops do not pay goroutine
// startup each time.
type Pool struct {
	workers int
	grain   int
	pool    worker.DynamicWorkerPool

	taskID atomic.Int64
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers overrides the worker count. Values below 1 select the default.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithGrain overrides the minimum block size. Values below 1 select the default.
func WithGrain(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.grain = n
		}
	}
}

// New creates a pool. The default worker count leaves one CPU for the caller.
func New(options ...Option) *Pool {
	p := &Pool{
		workers: max(runtime.NumCPU()-1, 1),
		grain:   DefaultGrain,
	}
	for _, option := range options {
		option(p)
	}
	if p.workers > 1 {
		p.pool = worker.NewDynamicWorkerPool(p.workers, queueSize, idleTimeout)
	}
	return p
}

// Serial returns a pool that runs every loop on the calling goroutine.
func Serial() *Pool {
	return New(WithWorkers(1))
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Grain returns the minimum block size.
func (p *Pool) Grain() int { return p.grain }

// For calls fn(i) for every i in [0, n) and returns once all calls finished.
// Calls for different i may run concurrently and in any order, so fn must
// only write state owned by index i.
func (p *Pool) For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	blocks := p.blocks(n)
	if len(blocks) == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(blocks))
	for _, b := range blocks {
		lo, hi := b[0], b[1]
		p.pool.SubmitTask(worker.Task{
			ID: p.nextID(),
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					fn(i)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// blocks partitions [0, n) into contiguous half-open ranges, one per task.
func (p *Pool) blocks(n int) [][2]int {
	if p.pool == nil || n <= p.grain {
		return [][2]int{{0, n}}
	}
	size := max((n+p.workers-1)/p.workers, p.grain)
	out := make([][2]int, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}

func (p *Pool) nextID() int {
	return int(p.taskID.Add(1))
}

// Close stops the workers. Loops run on the calling goroutine afterwards.
// Close must not be called while a loop is running.
func (p *Pool) Close() {
	if p.pool == nil {
		return
	}
	p.pool.Stop()
	p.pool = nil
}
