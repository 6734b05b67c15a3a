package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs submitted jobs on a fixed number of workers. Results come back
// index-aligned with submission order, so jobs submitted in catalog load
// order are consumed in catalog load order no matter which worker finishes
// first.
type Pool struct {
	workers int
	jobs    []Job
}

// NewPool creates a worker pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Submit queues a job for the next Run
func (p *Pool) Submit(job Job) {
	p.jobs = append(p.jobs, job)
}

// Run executes every submitted job and returns one result per job, in
// submission order. Jobs not yet dispatched when ctx is canceled keep a
// nil result. The queue is cleared for the next batch.
func (p *Pool) Run(ctx context.Context) []Result {
	jobs := p.jobs
	p.jobs = nil
	if len(jobs) == 0 {
		return nil
	}

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make([]Result, len(jobs))
	next := make(chan int)
	go func() {
		defer close(next)
		for i := range jobs {
			select {
			case next <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				results[i] = jobs[i].Execute(ctx)
			}
		}()
	}
	wg.Wait()

	return results
}
