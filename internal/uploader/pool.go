package uploader

import (
	"context"
	"sync"
)

// DefaultConcurrency bounds simultaneous uploads when no value is configured.
const DefaultConcurrency = 4

// Pool runs queued tasks with at most N workers in flight.
type Pool struct {
	concurrency int
}

// NewPool builds a pool. Values below 1 are normalized to 1; a bound larger
// than the queue behaves as full parallelism over the queue.
func NewPool(concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{concurrency: concurrency}
}

// Run drains the queue, invoking work for each task, and returns once every
// in-flight worker has settled. Each worker loops on atomic removal, so a
// finished worker immediately picks up the next pending task. The work
// function is responsible for driving its task to a terminal outcome; tasks
// are never re-queued.
func (p *Pool) Run(ctx context.Context, queue *Queue, work func(context.Context, *Task)) {
	workers := p.concurrency
	if pending := queue.Len(); workers > pending {
		workers = pending
	}
	if workers == 0 {
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				task, ok := queue.Pop()
				if !ok {
					return
				}
				work(ctx, task)
			}
		}()
	}
	wg.Wait()
}
