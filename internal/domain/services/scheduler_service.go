package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/events"

	"go.uber.org/zap"
)

type SchedulerService interface {
	Add(name, command string, interval int) (*entities.ScheduledJob, error)
	Remove(name string) error
	List() []entities.ScheduledJob
	RunPending(now time.Time) int
	Start(ctx context.Context)
	Stop()
}

type schedulerService struct {
	executor ExecutorService
	tick     time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	jobs    map[string]*entities.ScheduledJob
	runCtx  context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	wake    chan struct{}
	running sync.WaitGroup
}

func NewSchedulerService(executor ExecutorService, tick time.Duration, logger *zap.Logger) *schedulerService {
	if tick <= 0 {
		tick = time.Second
	}
	return &schedulerService{
		executor: executor,
		tick:     tick,
		logger:   logger,
		now:      time.Now,
		jobs:     make(map[string]*entities.ScheduledJob),
		runCtx:   context.Background(),
		wake:     make(chan struct{}, 1),
	}
}

func (s *schedulerService) Add(name, command string, interval int) (*entities.ScheduledJob, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errs.ValidationErrorf("task name is required")
	}
	if strings.TrimSpace(command) == "" {
		return nil, errs.ValidationErrorf("command is required")
	}
	if interval <= 0 {
		return nil, errs.ValidationErrorf("interval must be a positive number of seconds, got %d", interval)
	}

	s.mu.Lock()
	if _, exists := s.jobs[name]; exists {
		s.mu.Unlock()
		return nil, &errs.DuplicateJobError{Name: name}
	}
	job := entities.NewScheduledJob(name, command, interval, s.now())
	s.jobs[name] = job
	snapshot := *job
	s.mu.Unlock()

	s.logger.Info("Scheduled task added",
		zap.String("name", name),
		zap.String("command", command),
		zap.Int("interval", interval))
	s.signal()

	return &snapshot, nil
}

func (s *schedulerService) Remove(name string) error {
	s.mu.Lock()
	if _, exists := s.jobs[name]; !exists {
		s.mu.Unlock()
		return &errs.UnknownJobError{Name: name}
	}
	delete(s.jobs, name)
	s.mu.Unlock()

	s.logger.Info("Scheduled task removed", zap.String("name", name))
	s.signal()

	return nil
}

// List returns a copy of every job, sorted by name.
func (s *schedulerService) List() []entities.ScheduledJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]entities.ScheduledJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs
}

// RunPending fires every job due at now, each on its own goroutine, and
// returns how many were started.
func (s *schedulerService) RunPending(now time.Time) int {
	type fire struct {
		name    string
		command string
	}

	s.mu.Lock()
	var due []fire
	for _, job := range s.jobs {
		if job.Due(now) {
			due = append(due, fire{name: job.Name, command: job.Command})
			job.MarkRun(now)
		}
	}
	ctx := s.runCtx
	s.running.Add(len(due))
	s.mu.Unlock()

	for _, f := range due {
		go func(name, command string) {
			defer s.running.Done()
			s.runJob(ctx, name, command)
		}(f.name, f.command)
	}

	return len(due)
}

func (s *schedulerService) runJob(ctx context.Context, name, command string) {
	result := s.executor.RunTrusted(ctx, command, entities.AuditSourceScheduler)
	if !result.Success() {
		s.logger.Warn("Scheduled task failed",
			zap.String("name", name),
			zap.String("command", command),
			zap.Int("exit_code", result.ExitCode))
	}

	events.PublishJobRunEvent(&entities.JobRunEvent{
		JobName:   name,
		Command:   command,
		Output:    result.Text(),
		Success:   result.Success(),
		Timestamp: s.now(),
	})
}

// Start launches the background loop. It is a no-op if the loop is already running.
func (s *schedulerService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.runCtx = ctx
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.loop(ctx, done)
}

// Stop ends the loop and waits for in-flight job runs to finish.
func (s *schedulerService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.runCtx = context.Background()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	s.running.Wait()
}

func (s *schedulerService) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(s.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-timer.C:
			s.RunPending(s.now())
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.nextDelay())
	}
}

// nextDelay is the time until the earliest job is due, capped at the tick.
func (s *schedulerService) nextDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	delay := s.tick
	now := s.now()
	for _, job := range s.jobs {
		if d := job.NextRun.Sub(now); d < delay {
			delay = d
		}
	}
	if delay < 0 {
		delay = 0
	}
	return delay
}

func (s *schedulerService) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
