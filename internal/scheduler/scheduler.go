// Package scheduler runs registered jobs on timezone-aware cron schedules
// with an at-most-one-execution-per-job guarantee shared by scheduled and
// manual firings.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/billops/backoffice/internal/domain"
)

var (
	ErrUnknownJob   = errors.New("scheduler: unknown job")
	ErrDuplicateJob = errors.New("scheduler: job already registered")
	ErrJobBusy      = errors.New("scheduler: job already running")
)

// RunFunc is a job body. It receives the firing instant explicitly so tests
// can drive it with arbitrary clocks, and returns the number of records it
// affected.
type RunFunc func(ctx context.Context, now time.Time) (int64, error)

// RunObserver is notified after every completed run, successful or failed.
// Observer errors are logged and never affect the run outcome.
type RunObserver interface {
	ObserveRun(ctx context.Context, run *domain.JobRun)
}

// JobInfo is the admin-facing view of a registered job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	NextRun  time.Time `json:"next_run"`
	Running  bool      `json:"running"`
}

type job struct {
	name    string
	spec    string
	run     RunFunc
	entryID cron.EntryID

	// busy serializes firings of this job. A firing that fails to acquire
	// it is skipped, not queued.
	busy    sync.Mutex
	running atomic.Bool
}

// Scheduler owns the trigger loop for all registered jobs. One instance per
// process; constructed explicitly and passed to whatever needs it.
type Scheduler struct {
	cron      *cron.Cron
	loc       *time.Location
	log       zerolog.Logger
	observers []RunObserver

	mu      sync.Mutex
	jobs    map[string]*job
	started bool
	stop    sync.Once
}

// New creates a scheduler evaluating schedules in loc.
func New(loc *time.Location, log zerolog.Logger, observers ...RunObserver) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		loc:       loc,
		log:       log.With().Str("component", "scheduler").Logger(),
		observers: observers,
		jobs:      make(map[string]*job),
	}
}

// Register binds a named job to a five-field cron spec. A malformed spec
// fails registration; it must never become a silently dead job.
func (s *Scheduler) Register(name, spec string, run RunFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("scheduler.Register: %q: %w", name, ErrDuplicateJob)
	}

	j := &job{name: name, spec: spec, run: run}

	entryID, err := s.cron.AddFunc(spec, func() {
		// Outcome is logged and fanned out inside execute; a scheduled
		// firing has no caller to return to.
		_, _ = s.execute(context.Background(), j, domain.TriggerScheduled)
	})
	if err != nil {
		return fmt.Errorf("scheduler.Register: %q: invalid schedule %q: %w", name, spec, err)
	}

	j.entryID = entryID
	s.jobs[name] = j

	s.log.Info().Str("job", name).Str("schedule", spec).Msg("job registered")
	return nil
}

// Start activates all registered jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.log.Info().Str("timezone", s.loc.String()).Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop prevents further firings. Idempotent and safe when never started.
// In-flight runs are not interrupted; Stop returns once they finish.
func (s *Scheduler) Stop() {
	s.stop.Do(func() {
		<-s.cron.Stop().Done()
		s.log.Info().Msg("scheduler stopped")
	})
}

// RunNow executes a job immediately, outside its schedule. It shares the
// no-overlap lock with scheduled firings: if the job is mid-run, RunNow
// returns ErrJobBusy instead of executing concurrently.
func (s *Scheduler) RunNow(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("scheduler.RunNow: %q: %w", name, ErrUnknownJob)
	}

	return s.execute(ctx, j, domain.TriggerManual)
}

// Jobs returns the registered jobs with their next firing instants.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		infos = append(infos, JobInfo{
			Name:     j.name,
			Schedule: j.spec,
			NextRun:  s.cron.Entry(j.entryID).Next,
			Running:  j.running.Load(),
		})
	}
	return infos
}

// execute is the single run boundary: no-overlap, panic isolation, outcome
// logging and observer fan-out all live here.
func (s *Scheduler) execute(ctx context.Context, j *job, trigger domain.JobTrigger) (affected int64, err error) {
	if !j.busy.TryLock() {
		s.log.Warn().Str("job", j.name).Str("trigger", string(trigger)).Msg("firing skipped: previous run still in flight")
		return 0, fmt.Errorf("scheduler: job %q: %w", j.name, ErrJobBusy)
	}
	defer j.busy.Unlock()

	j.running.Store(true)
	defer j.running.Store(false)

	started := time.Now().In(s.loc)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: job %q panicked: %v", j.name, r)
		}

		run := &domain.JobRun{
			ID:         uuid.New(),
			JobName:    j.name,
			Trigger:    trigger,
			StartedAt:  started,
			FinishedAt: time.Now().In(s.loc),
			Affected:   affected,
		}
		if err != nil {
			run.Error = err.Error()
			s.log.Error().Err(err).
				Str("job", j.name).
				Str("trigger", string(trigger)).
				Dur("duration", run.Duration()).
				Msg("job run failed")
		} else {
			s.log.Info().
				Str("job", j.name).
				Str("trigger", string(trigger)).
				Int64("affected", affected).
				Dur("duration", run.Duration()).
				Msg("job run completed")
		}

		for _, obs := range s.observers {
			obs.ObserveRun(ctx, run)
		}
	}()

	affected, err = j.run(ctx, started)
	return affected, err
}
