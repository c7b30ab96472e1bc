// Package jobs runs the client's periodic background work on gocron.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Task is the body of a scheduled job. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

// JobStatus describes one registered job.
type JobStatus struct {
	Name     string    `json:"name"`
	Interval string    `json:"interval"`
	NextRun  time.Time `json:"nextRun,omitempty"`
}

type registered struct {
	job      gocron.Job
	interval time.Duration
}

// Scheduler manages named interval jobs. Stopping it cancels the context
// handed to every running task so that in-flight requests are abandoned.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	jobs    map[string]registered
	started bool
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: scheduler,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		jobs:      make(map[string]registered),
	}, nil
}

// AddJob registers task to run every interval. With immediate set the first
// run happens as soon as the scheduler starts. A run that is still going when
// the next one is due is not overlapped.
func (s *Scheduler) AddJob(name string, interval time.Duration, immediate bool, task Task) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s is already registered", name)
	}

	options := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if immediate {
		options = append(options, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run(name, task), s.ctx),
		options...,
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", name, err)
	}
	s.jobs[name] = registered{job: job, interval: interval}
	s.logger.Debug("Registered job", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

func (s *Scheduler) run(name string, task Task) func(ctx context.Context) {
	return func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		started := time.Now()
		task(ctx)
		s.logger.Debug("Job finished", zap.String("job", name), zap.Duration("took", time.Since(started)))
	}
}

// RemoveJob unregisters a job. Unknown names are ignored.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.jobs[name]
	if !exists {
		return nil
	}
	delete(s.jobs, name)
	return s.scheduler.RemoveJob(r.job.ID())
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.logger.Info("Starting background jobs", zap.Int("jobs", len(s.jobs)))
	s.scheduler.Start()
}

// Stop cancels running tasks and shuts the scheduler down. A stopped
// scheduler cannot be restarted.
func (s *Scheduler) Stop() error {
	s.cancel()
	s.logger.Info("Stopping background jobs")
	return s.scheduler.Shutdown()
}

// Status lists the registered jobs sorted by name.
func (s *Scheduler) Status() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for name, r := range s.jobs {
		status := JobStatus{Name: name, Interval: r.interval.String()}
		if next, err := r.job.NextRun(); err == nil {
			status.NextRun = next
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
