// Package workers runs fire-and-forget background tasks (outbound email,
// registry auto-population) on a bounded pool so they never block the request
// that triggered them.
package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of background work. Errors are logged, never propagated.
type Task func(ctx context.Context) error

// Dispatcher accepts background tasks.
type Dispatcher interface {
	Submit(ctx context.Context, name string, task Task)
}

type job struct {
	ctx  context.Context
	name string
	task Task
}

// Pool is a fixed-size worker pool fed by a bounded queue. When the queue is
// full the task is dropped and logged.
type Pool struct {
	size   int
	jobs   chan job
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	group  *errgroup.Group
}

func NewPool(size, queue int, logger *slog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if queue < 1 {
		queue = size
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{size: size, jobs: make(chan job, queue), logger: logger}
}

// Start launches the workers. They exit once Shutdown closes the queue and it
// drains.
func (p *Pool) Start() {
	p.group = new(errgroup.Group)
	for i := 0; i < p.size; i++ {
		p.group.Go(func() error {
			for j := range p.jobs {
				run(j, p.logger)
			}
			return nil
		})
	}
}

// Submit enqueues task. ctx is detached from cancellation so the task outlives
// the request but keeps its request-scoped values.
func (p *Pool) Submit(ctx context.Context, name string, task Task) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.WarnContext(ctx, "background task rejected: pool closed", "task", name)
		return
	}
	select {
	case p.jobs <- job{ctx: context.WithoutCancel(ctx), name: name, task: task}:
	default:
		p.logger.WarnContext(ctx, "background task dropped: queue full", "task", name)
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or for
// ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	if p.group == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- p.group.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline runs tasks synchronously on the caller's goroutine. Used by tests and
// by CLI commands that have no pool.
type Inline struct {
	Logger *slog.Logger
}

func (d Inline) Submit(ctx context.Context, name string, task Task) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	run(job{ctx: context.WithoutCancel(ctx), name: name, task: task}, logger)
}

func run(j job, logger *slog.Logger) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(j.ctx, "background task panicked", "task", j.name, "panic", r)
		}
	}()
	if err := j.task(j.ctx); err != nil {
		logger.WarnContext(j.ctx, "background task failed",
			"task", j.name,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return
	}
	logger.DebugContext(j.ctx, "background task completed", "task", j.name)
}
