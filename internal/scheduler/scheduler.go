// Package scheduler runs the collection and reporting pipeline on a cron
// schedule.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Task is the work executed on each tick.
type Task func(ctx context.Context) error

// Service drives a single recurring task. Overlapping runs are skipped: a
// tick that fires while the previous run is still going is dropped.
type Service struct {
	cron    *cron.Cron
	task    Task
	logger  arbor.ILogger
	entryID cron.EntryID

	mu      sync.Mutex
	running bool
	started bool
	lastRun time.Time
}

// NewService creates a scheduler for the given task.
func NewService(task Task, logger arbor.ILogger) *Service {
	return &Service{
		cron:   cron.New(),
		task:   task,
		logger: logger,
	}
}

// Start registers the task under the cron expression and starts the
// scheduler. Standard 5-field expressions are accepted.
func (s *Service) Start(cronExpr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	entryID, err := s.cron.AddFunc(cronExpr, s.run)
	if err != nil {
		return err
	}
	s.entryID = entryID
	s.cron.Start()
	s.started = true

	if s.logger != nil {
		s.logger.Info().Str("schedule", cronExpr).Msg("Scheduler started")
	}
	return nil
}

// Stop halts the scheduler and waits for an in-flight run to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.logger != nil {
		s.logger.Info().Msg("Scheduler stopped")
	}
}

// TriggerNow runs the task immediately, outside the schedule.
func (s *Service) TriggerNow() error {
	return s.execute()
}

// NextRun reports when the next scheduled run will fire.
func (s *Service) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return time.Time{}, false
	}
	return s.cron.Entry(s.entryID).Next, true
}

func (s *Service) run() {
	if err := s.execute(); err != nil && s.logger != nil {
		s.logger.Error().Err(err).Msg("Scheduled run failed")
	}
}

func (s *Service) execute() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn().Msg("Previous run still in progress, skipping tick")
		}
		return nil
	}
	s.running = true
	s.lastRun = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	return s.task(context.Background())
}
