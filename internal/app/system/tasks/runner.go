// Package tasks schedules background work: periodic jobs and one-shot
// delayed tasks (the ephemeral command/reply deletions).
//
// Delayed tasks are best-effort with no ordering guarantee relative to
// other work; all execution is logged and drained on Stop. Time flows
// through a Clock so tests can simulate it.
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Clock abstracts time for the scheduler. Production uses the real clock;
// tests inject a fake one and advance it manually.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// Job represents a recurring background task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs registered periodic jobs and accepts one-shot delayed
// tasks while started.
type Scheduler struct {
	logger  *zap.Logger
	clock   Clock
	jobs    []Job
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	running atomic.Int32 // currently executing jobs and tasks
}

// New creates a scheduler using the given clock.
func New(clock Clock, logger *zap.Logger) *Scheduler {
	return &Scheduler{logger: logger, clock: clock}
}

// Register adds a periodic job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start begins executing registered jobs. Call Stop to shut down.
func (s *Scheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(s.ctx, job)
	}

	s.logger.Info("scheduler started", zap.Int("job_count", len(s.jobs)))
}

// After schedules fn to run once after d. The task is dropped (logged,
// not run) if the scheduler stops first. Calling After before Start or
// after Stop is a no-op.
func (s *Scheduler) After(d time.Duration, name string, fn func(ctx context.Context) error) {
	if s.ctx == nil || s.ctx.Err() != nil {
		s.logger.Debug("scheduler not running; dropping delayed task", zap.String("task", name))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-s.ctx.Done():
			s.logger.Debug("delayed task dropped on shutdown", zap.String("task", name))
		case <-s.clock.After(d):
			s.execute(s.ctx, name, fn)
		}
	}()
}

// Stop cancels all work and waits for in-flight jobs within the given
// context's deadline. Pass context.Background() for unlimited wait.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler shutdown timed out",
			zap.Int32("still_running", s.running.Load()))
		return ctx.Err()
	}
}

// runJob executes a single job on its interval. The first run happens
// one interval after Start, not immediately; startup work belongs in
// bootstrap, not here.
func (s *Scheduler) runJob(ctx context.Context, job Job) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("job stopped", zap.String("job", job.Name))
			return
		case <-s.clock.After(job.Interval):
			s.execute(ctx, job.Name, job.Run)
		}
	}
}

// execute runs one unit of work and logs the result.
func (s *Scheduler) execute(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.running.Add(1)
	defer s.running.Add(-1)

	start := s.clock.Now()
	if err := fn(ctx); err != nil {
		// Context cancellation during shutdown is not an error.
		if ctx.Err() != nil {
			s.logger.Debug("task cancelled during shutdown", zap.String("task", name))
			return
		}
		s.logger.Error("task failed",
			zap.String("task", name),
			zap.Duration("duration", s.clock.Now().Sub(start)),
			zap.Error(err))
		return
	}
	s.logger.Debug("task completed",
		zap.String("task", name),
		zap.Duration("duration", s.clock.Now().Sub(start)))
}
