// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"piishield/internal/observability"
)

// Job is one indexed unit of work
type Job[J any] struct {
	Index int
	Input J
}

// Result carries the output of a job back with its index
type Result[R any] struct {
	Index    int
	Output   R
	Error    error
	Duration time.Duration
}

// WorkerPool runs a fixed function over submitted jobs with a bounded number
// of goroutines. Results arrive in completion order; use Map for index order.
type WorkerPool[J, R any] struct {
	workers  int
	jobs     chan Job[J]
	results  chan Result[R]
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	fn       func(ctx context.Context, job Job[J]) (R, error)
	observer *observability.StandardObserver
	name     string
	once     sync.Once
}

// NewWorkerPool creates a worker pool. workers <= 0 means runtime.NumCPU().
func NewWorkerPool[J, R any](ctx context.Context, name string, workers int, observer *observability.StandardObserver, fn func(ctx context.Context, job Job[J]) (R, error)) *WorkerPool[J, R] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool[J, R]{
		workers:  workers,
		jobs:     make(chan Job[J], workers*2),
		results:  make(chan Result[R], workers*2),
		ctx:      ctx,
		cancel:   cancel,
		fn:       fn,
		observer: observer,
		name:     name,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool[J, R]) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Close tells the workers no more jobs will be submitted
func (wp *WorkerPool[J, R]) Close() {
	wp.once.Do(func() { close(wp.jobs) })
}

// Stop closes the job queue, waits for the workers and closes the results
func (wp *WorkerPool[J, R]) Stop() {
	wp.Close()
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit adds a job to the queue. It returns false once the pool is cancelled.
func (wp *WorkerPool[J, R]) Submit(job Job[J]) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Results returns the results channel
func (wp *WorkerPool[J, R]) Results() <-chan Result[R] {
	return wp.results
}

// worker processes jobs from the queue
func (wp *WorkerPool[J, R]) worker() {
	defer wp.wg.Done()

	for job := range wp.jobs {
		result := wp.processJob(job)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob executes a single job; a panic becomes the job's error
func (wp *WorkerPool[J, R]) processJob(job Job[J]) (result Result[R]) {
	start := time.Now()
	result.Index = job.Index

	finishTiming := wp.observer.StartTiming(wp.name, "job", fmt.Sprintf("#%d", job.Index))
	defer func() {
		if r := recover(); r != nil {
			result.Error = fmt.Errorf("%s job %d panicked: %v", wp.name, job.Index, r)
		}
		result.Duration = time.Since(start)
		finishTiming(result.Error == nil, nil)
	}()

	if err := wp.ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	result.Output, result.Error = wp.fn(wp.ctx, job)
	return result
}

// Map runs fn over inputs with at most workers goroutines and returns the
// outputs and errors in input order.
func Map[J, R any](ctx context.Context, name string, workers int, observer *observability.StandardObserver, inputs []J, fn func(ctx context.Context, index int, input J) (R, error)) ([]R, []error) {
	outputs := make([]R, len(inputs))
	errs := make([]error, len(inputs))
	if len(inputs) == 0 {
		return outputs, errs
	}
	if workers <= 0 || workers > len(inputs) {
		workers = min(len(inputs), runtime.NumCPU())
	}

	pool := NewWorkerPool(ctx, name, workers, observer, func(ctx context.Context, job Job[J]) (R, error) {
		return fn(ctx, job.Index, job.Input)
	})
	pool.Start()

	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		defer pool.Close()
		for i, in := range inputs {
			if !pool.Submit(Job[J]{Index: i, Input: in}) {
				return
			}
		}
	}()

	done := make([]bool, len(inputs))
	received := 0
collect:
	for received < len(inputs) {
		select {
		case res := <-pool.results:
			outputs[res.Index] = res.Output
			errs[res.Index] = res.Error
			done[res.Index] = true
			received++
		case <-pool.ctx.Done():
			break collect
		}
	}
	<-submitted
	pool.Stop()

	if received < len(inputs) {
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		for i := range errs {
			if !done[i] {
				errs[i] = err
			}
		}
	}
	return outputs, errs
}

// FirstError returns the first non-nil error in index order
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
