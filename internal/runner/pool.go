package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"knewkarma/pkg/logger"
)

// Job is one independent retrieval task
type Job[T any] struct {
	// Index is the submission position, used to restore order
	Index int
	Name  string
	Run   func(ctx context.Context) (T, error)
}

// Result is the outcome of a Job. A failed job never affects the others.
type Result[T any] struct {
	Job      Job[T]
	Value    T
	Err      error
	Duration time.Duration
}

// WorkerPool runs jobs on a fixed number of workers
type WorkerPool[T any] struct {
	numWorkers  int
	jobQueue    chan Job[T]
	resultQueue chan Result[T]
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	logger      logger.Logger
	stopOnce    sync.Once
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx stops workers
// from picking up further jobs.
func NewWorkerPool[T any](ctx context.Context, numWorkers int, log logger.Logger) *WorkerPool[T] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool[T]{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job[T], numWorkers*2),
		resultQueue: make(chan Result[T], numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.OrNop(log),
	}
}

// Start launches the workers
func (wp *WorkerPool[T]) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue, waits for in-flight jobs and closes Results
func (wp *WorkerPool[T]) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.jobQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.cancel()
		wp.logger.Debug("worker pool stopped")
	})
}

// Submit queues a job, blocking while the queue is full. It must not be
// called concurrently with Stop.
func (wp *WorkerPool[T]) Submit(job Job[T]) error {
	if err := wp.ctx.Err(); err != nil {
		return fmt.Errorf("worker pool is shutting down: %w", err)
	}
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel of completed jobs
func (wp *WorkerPool[T]) Results() <-chan Result[T] {
	return wp.resultQueue
}

func (wp *WorkerPool[T]) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		var result Result[T]
		if err := wp.ctx.Err(); err != nil {
			result = Result[T]{Job: job, Err: err}
		} else {
			result = wp.process(job, id)
		}
		wp.resultQueue <- result
	}
}

func (wp *WorkerPool[T]) process(job Job[T], workerID int) Result[T] {
	start := time.Now()
	value, err := job.Run(wp.ctx)
	result := Result[T]{Job: job, Value: value, Err: err, Duration: time.Since(start)}

	fields := map[string]interface{}{
		"worker_id": workerID,
		"job":       job.Name,
		"duration":  result.Duration,
	}
	if err != nil {
		fields["error"] = err.Error()
		wp.logger.WarnWithFields("job failed", fields)
	} else {
		wp.logger.DebugWithFields("job completed", fields)
	}
	return result
}

// RunAll runs every job with at most workers in flight and returns the
// results in submission order.
func RunAll[T any](ctx context.Context, workers int, jobs []Job[T], log logger.Logger) []Result[T] {
	results := make([]Result[T], len(jobs))
	if len(jobs) == 0 {
		return results
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := NewWorkerPool[T](ctx, workers, log)
	pool.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range pool.Results() {
			results[r.Job.Index] = r
		}
	}()

	for i, job := range jobs {
		job.Index = i
		if err := pool.Submit(job); err != nil {
			results[i] = Result[T]{Job: job, Err: err}
		}
	}
	pool.Stop()
	<-done
	return results
}

// Errors returns the failures among results
func Errors[T any](results []Result[T]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}
