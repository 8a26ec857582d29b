// Package parallel runs independent conversion jobs on a fixed set of
// worker goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is recorded by Map for jobs that never ran because the pool
// was closed.
var ErrClosed = errors.New("parallel: worker pool closed")

// WorkerPool runs jobs on a fixed number of goroutines.
//
// Each worker owns a queue and steals from the others when its own runs
// dry, so one slow job (a large animated cursor) does not hold back the
// jobs queued behind it.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup

	// mu orders enqueueing against Close: jobs are only queued under the
	// read lock while running, so every queued job is visible to drain.
	mu      sync.RWMutex
	running bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(8, workers*4)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.running = true

	p.wg.Add(workers)
	for i := range workers {
		go p.loop(i)
	}
	return p
}

func (p *WorkerPool) loop(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case job := <-own:
			run(job)
			continue
		case <-p.done:
			p.drain(own)
			return
		default:
		}

		if job := p.steal(id); job != nil {
			run(job)
			continue
		}

		select {
		case job := <-own:
			run(job)
		case <-p.done:
			p.drain(own)
			return
		}
	}
}

func run(job func()) {
	if job != nil {
		job()
	}
}

// drain runs whatever is left in queue after Close.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			run(job)
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// ExecuteAll runs every job and waits for all of them to finish.
// Jobs are dealt round-robin across workers. If the pool is closed,
// this is a no-op. A concurrent Close waits until the jobs are queued,
// then runs them before returning. Jobs must not call back into the pool.
func (p *WorkerPool) ExecuteAll(jobs []func()) {
	if len(jobs) == 0 {
		return
	}

	var wg sync.WaitGroup
	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		return
	}
	wg.Add(len(jobs))
	for i, job := range jobs {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			run(job)
		}
	}
	p.mu.RUnlock()
	wg.Wait()
}

// Map calls fn for every index in [0, n) on the pool and returns the
// per-index errors. Indices not yet started when ctx is canceled record
// ctx.Err() instead of running; indices the closed pool never ran record
// ErrClosed.
func (p *WorkerPool) Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	jobs := make([]func(), n)
	for i := range jobs {
		errs[i] = ErrClosed
		jobs[i] = func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(ctx, i)
		}
	}
	p.ExecuteAll(jobs)
	return errs
}

// Close stops accepting jobs, runs what is already queued and waits for
// the workers to exit. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}
