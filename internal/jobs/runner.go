package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrShuttingDown is returned by Submit after Stop.
	ErrShuttingDown = errors.New("job runner is shutting down")
	// ErrNotCancellable is returned by Cancel for finished runs.
	ErrNotCancellable = errors.New("job already finished")
)

const (
	errCancelled = "job cancelled"
	errShutdown  = "service shutting down"
)

// RunnerConfig sizes the worker pool.
type RunnerConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:    2,
		QueueSize:  32,
		JobTimeout: 30 * time.Minute,
	}
}

// Runner executes submitted runs on a fixed pool of workers fed by a
// bounded queue. Each run gets its own cancellable context.
type Runner struct {
	store    *Store
	worker   Worker
	notifier *Notifier
	events   *Broker
	logger   *slog.Logger
	config   RunnerConfig

	queue chan *Job
	done  chan struct{}

	mu       sync.Mutex
	cancel   map[string]context.CancelFunc
	stopping bool
	wg       sync.WaitGroup
}

// NewRunner creates a Runner. Call Start before submitting work.
func NewRunner(store *Store, worker Worker, notifier *Notifier, logger *slog.Logger, config RunnerConfig) *Runner {
	def := DefaultRunnerConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if notifier == nil {
		notifier = NewNotifier(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:    store,
		worker:   worker,
		notifier: notifier,
		events:   NewBroker(),
		logger:   logger,
		config:   config,
		queue:    make(chan *Job, config.QueueSize),
		done:     make(chan struct{}),
		cancel:   make(map[string]context.CancelFunc),
	}
}

// Events returns the broker that receives every status change.
func (r *Runner) Events() *Broker { return r.events }

// finish records a terminal status and publishes it.
func (r *Runner) finish(ctx context.Context, job *Job, status Status, framework, errMsg string) error {
	err := r.store.Finish(ctx, job.ID, status, framework, errMsg)
	if err == nil {
		r.events.Publish(eventFor(job, status, errMsg))
	}
	return err
}

// abandon fails a run that never reached a worker and reports it to the
// callback URL. Runs a worker has already claimed are left to that worker.
func (r *Runner) abandon(ctx context.Context, job *Job, reason string) error {
	logger := r.logger.With("job_id", job.JobID, "run_id", job.ID)
	if err := r.store.Abandon(ctx, job.ID, reason); err != nil {
		return err
	}
	r.events.Publish(eventFor(job, StatusFailed, reason))
	logger.Info("job abandoned", "reason", reason)
	r.deliver(logger, job, CallbackPayload{JobID: job.JobID, Status: StatusFailed, Error: reason})
	return nil
}

// Start launches the workers.
func (r *Runner) Start() {
	r.logger.Info("starting job runner", "workers", r.config.Workers, "queue_size", r.config.QueueSize,
		"job_timeout", r.config.JobTimeout.String())
	for i := 0; i < r.config.Workers; i++ {
		r.wg.Add(1)
		go r.work(i)
	}
}

// Stop cancels running jobs and waits for the workers until ctx ends.
// Runs still queued are failed and reported to their callbacks.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.stopping {
		r.mu.Unlock()
		return nil
	}
	r.stopping = true
	close(r.done)
	for id, cancel := range r.cancel {
		r.logger.Debug("cancelling running job", "run_id", id)
		cancel()
	}
	r.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		return fmt.Errorf("job runner shutdown: %w", ctx.Err())
	}

	for {
		select {
		case job := <-r.queue:
			_ = r.abandon(context.Background(), job, errShutdown)
		default:
			r.logger.Info("job runner stopped")
			return nil
		}
	}
}

// Submit records a run for req and queues it. When the queue is full the
// run is recorded as failed and ErrQueueFull is returned.
func (r *Runner) Submit(ctx context.Context, req Request) (*Job, error) {
	r.mu.Lock()
	stopping := r.stopping
	r.mu.Unlock()
	if stopping {
		return nil, ErrShuttingDown
	}

	job, err := r.store.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("persisting job: %w", err)
	}

	select {
	case r.queue <- job:
		r.logger.Info("job queued", "job_id", job.JobID, "run_id", job.ID, "repo", job.RepoURL)
		r.events.Publish(eventFor(job, StatusQueued, ""))
		return job, nil
	default:
		r.logger.Warn("job queue full", "job_id", job.JobID, "run_id", job.ID)
		_ = r.finish(ctx, job, StatusFailed, "", ErrQueueFull.Error())
		return job, ErrQueueFull
	}
}

// Cancel stops the latest run of jobID. A queued run is failed with
// "job cancelled" immediately; a running one is interrupted. Either way the
// callback receives the failure.
func (r *Runner) Cancel(ctx context.Context, jobID string) (*Job, error) {
	job, err := r.store.Latest(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return job, ErrNotCancellable
	}

	r.mu.Lock()
	cancel, running := r.cancel[job.ID]
	r.mu.Unlock()

	if running {
		cancel()
		r.logger.Info("job cancellation requested", "job_id", jobID, "run_id", job.ID)
		return job, nil
	}
	err = r.abandon(ctx, job, errCancelled)
	if errors.Is(err, ErrNotFound) {
		// a worker claimed the run in the meantime
		r.mu.Lock()
		cancel, running = r.cancel[job.ID]
		r.mu.Unlock()
		if running {
			cancel()
		}
	} else if err != nil {
		return nil, err
	}
	return r.store.Get(ctx, job.ID)
}

func (r *Runner) work(id int) {
	defer r.wg.Done()
	r.logger.Debug("job worker started", "worker", id)

	for {
		select {
		case <-r.done:
			r.logger.Debug("job worker stopping", "worker", id)
			return
		case job := <-r.queue:
			r.process(job)
		}
	}
}

func (r *Runner) process(job *Job) {
	logger := r.logger.With("job_id", job.JobID, "run_id", job.ID)

	ctx, cancel := context.WithTimeout(context.Background(), r.config.JobTimeout)
	defer cancel()

	r.mu.Lock()
	if r.stopping {
		r.mu.Unlock()
		_ = r.abandon(context.Background(), job, errShutdown)
		return
	}
	r.cancel[job.ID] = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.cancel, job.ID)
		r.mu.Unlock()
	}()

	if err := r.store.MarkStarted(ctx, job.ID); err != nil {
		// Cancelled while queued.
		logger.Info("skipping job", "reason", err)
		return
	}
	r.events.Publish(eventFor(job, StatusProcessing, ""))

	logger.Info("processing job", "repo", job.RepoURL, "technical", job.Technical)
	start := time.Now()
	out := r.run(ctx, job)

	status := out.Payload.Status
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		status = StatusFailed
		out.Payload = CallbackPayload{JobID: job.JobID, Status: StatusFailed,
			Error: fmt.Sprintf("job timed out after %s", r.config.JobTimeout)}
	case errors.Is(ctx.Err(), context.Canceled):
		status = StatusFailed
		out.Payload = CallbackPayload{JobID: job.JobID, Status: StatusFailed, Error: errCancelled}
	}

	bg := context.Background()
	if err := r.store.SaveDiagrams(bg, job.ID, out.Diagrams); err != nil {
		logger.Error("saving diagrams failed", "error", err)
	}
	if err := r.finish(bg, job, status, out.Payload.Framework, out.Payload.Error); err != nil {
		logger.Error("updating job status failed", "error", err)
	}
	logger.Info("job finished", "status", status, "duration", time.Since(start).String())

	r.deliver(logger, job, out.Payload)
}

// run calls the worker and turns a panic into a failed outcome.
func (r *Runner) run(ctx context.Context, job *Job) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("job worker panicked", "job_id", job.JobID, "run_id", job.ID, "panic", p)
			out = failedOutcome(job.JobID, fmt.Errorf("internal error: %v", p))
		}
	}()
	return r.worker.Process(ctx, job)
}

func (r *Runner) deliver(logger *slog.Logger, job *Job, payload CallbackPayload) {
	ctx := context.Background()
	if err := r.notifier.Send(ctx, job.CallbackURL, payload); err != nil {
		logger.Error("callback delivery failed", "url", job.CallbackURL, "error", err)
		_ = r.store.SetCallback(ctx, job.ID, CallbackFailed, err.Error())
		return
	}
	_ = r.store.SetCallback(ctx, job.ID, CallbackDelivered, "")
}
