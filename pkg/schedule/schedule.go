package schedule

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	tperrors "github.com/ejgdlyz/threadpool/pkg/common/errors"
	"github.com/ejgdlyz/threadpool/pkg/common/validation"
	"github.com/ejgdlyz/threadpool/pkg/metrics"
	"github.com/ejgdlyz/threadpool/pkg/threadpool"
)

// Entry describes a scheduled job.
type Entry struct {
	ID       string
	RunAt    time.Time
	Interval time.Duration // Zero for one-time jobs
	Created  time.Time
}

// Scheduler runs jobs on a thread pool at scheduled times.
//
// A Scheduler is single-use: once Stop has been called, Start returns an
// error wrapping errors.ErrPoolStopped.
type Scheduler interface {
	// Basic scheduling
	Schedule(id string, job threadpool.Job, runAt time.Time) error
	ScheduleAfter(id string, job threadpool.Job, delay time.Duration) error
	ScheduleRepeating(id string, job threadpool.Job, interval time.Duration) error

	// Cron scheduling
	ScheduleCron(id string, cronExpr string, job threadpool.Job) error

	// Entry management
	Cancel(id string) bool
	CancelAll()
	List() []Entry

	// Lifecycle
	Start() error
	Stop() <-chan struct{}
}

// Config holds scheduler configuration.
type Config struct {
	Pool         *threadpool.Pool // Pool to run jobs on; the scheduler owns one if nil
	Location     *time.Location   // For cron scheduling
	TickInterval time.Duration    // How often to check for ready jobs (default: 50ms)
	MaxEntries   int              // Maximum number of scheduled jobs (default: 10000)

	// Name labels this scheduler in metrics. Metrics are recorded only when
	// Registry is set.
	Name     string
	Registry *metrics.Registry
}

type scheduledJob struct {
	id           string
	job          threadpool.Job
	runAt        time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

type scheduler struct {
	pool         *threadpool.Pool
	ownPool      bool
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	cronParser   cron.Parser

	name     string
	registry *metrics.Registry

	mu      sync.RWMutex
	entries map[string]*scheduledJob
	ticker  *time.Ticker
	done    chan struct{}
	running bool
	stopped bool
}

// New creates a scheduler with default configuration.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with custom configuration.
func NewWithConfig(cfg Config) Scheduler {
	pool := cfg.Pool
	ownPool := false
	if pool == nil {
		pool = threadpool.New()
		ownPool = true
	}

	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	return &scheduler{
		pool:         pool,
		ownPool:      ownPool,
		location:     location,
		tickInterval: tickInterval,
		maxEntries:   maxEntries,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		name:         cfg.Name,
		registry:     cfg.Registry,
		entries:      make(map[string]*scheduledJob),
		done:         make(chan struct{}),
	}
}

func (s *scheduler) validateEntry(id string, job threadpool.Job) error {
	if err := validation.ValidateNotEmpty("schedule", "id", id); err != nil {
		return err
	}
	if len(id) > 255 {
		return tperrors.NewValidationError("schedule", "id", id, "too long").
			WithHint("use an ID of at most 255 characters")
	}
	if job == nil {
		return tperrors.NewValidationError("schedule", "job", nil, "cannot be nil")
	}
	return nil
}

// addLocked inserts an entry, enforcing uniqueness and the entry cap.
// Caller must hold s.mu.
func (s *scheduler) addLocked(entry *scheduledJob) error {
	if _, exists := s.entries[entry.id]; exists {
		return tperrors.NewValidationError("schedule", "id", entry.id, "already scheduled").
			WithHint("cancel the existing entry or use a different ID")
	}
	if len(s.entries) >= s.maxEntries {
		return tperrors.NewOperationError("schedule", "Schedule", tperrors.ErrQueueFull).
			WithContext(fmt.Sprintf("entry limit %d reached", s.maxEntries))
	}

	s.entries[entry.id] = entry
	if s.registry != nil {
		s.registry.JobsScheduled.WithLabelValues(s.name).Inc()
	}
	return nil
}

func (s *scheduler) Schedule(id string, job threadpool.Job, runAt time.Time) error {
	if err := s.validateEntry(id, job); err != nil {
		return err
	}
	if runAt.IsZero() {
		return tperrors.NewValidationError("schedule", "runAt", runAt, "cannot be zero")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addLocked(&scheduledJob{
		id:      id,
		job:     job,
		runAt:   runAt,
		created: time.Now(),
	})
}

func (s *scheduler) ScheduleAfter(id string, job threadpool.Job, delay time.Duration) error {
	return s.Schedule(id, job, time.Now().Add(delay))
}

func (s *scheduler) ScheduleRepeating(id string, job threadpool.Job, interval time.Duration) error {
	if err := s.validateEntry(id, job); err != nil {
		return err
	}
	if err := validation.ValidatePositiveDuration("schedule", "interval", interval); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	return s.addLocked(&scheduledJob{
		id:       id,
		job:      job,
		runAt:    now,
		interval: interval,
		created:  now,
	})
}

func (s *scheduler) ScheduleCron(id string, cronExpr string, job threadpool.Job) error {
	if err := s.validateEntry(id, job); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty("schedule", "cronExpr", cronExpr); err != nil {
		return err
	}

	sched, err := s.cronParser.Parse(cronExpr)
	if err != nil {
		return tperrors.NewValidationError("schedule", "cronExpr", cronExpr, "invalid cron expression").
			WithHint(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().In(s.location)
	return s.addLocked(&scheduledJob{
		id:           id,
		job:          job,
		runAt:        sched.Next(now),
		cronSchedule: sched,
		created:      time.Now(),
	})
}

func (s *scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		delete(s.entries, id)
		return true
	}
	return false
}

func (s *scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*scheduledJob)
}

func (s *scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:       e.id,
			RunAt:    e.runAt,
			Interval: e.interval,
			Created:  e.created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RunAt.Before(entries[j].RunAt)
	})

	return entries
}

func (s *scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return tperrors.NewOperationError("schedule", "Start", tperrors.ErrPoolRunning).
			WithContext("scheduler already running")
	}
	if s.stopped {
		return tperrors.NewOperationError("schedule", "Start", tperrors.ErrPoolStopped).
			WithContext("scheduler is single-use")
	}

	if s.ownPool && !s.pool.Running() {
		if err := s.pool.Start(4); err != nil {
			return err
		}
	}

	s.running = true
	s.ticker = time.NewTicker(s.tickInterval)

	go s.run()
	return nil
}

func (s *scheduler) Stop() <-chan struct{} {
	s.mu.Lock()
	s.stopped = true
	if s.running {
		s.running = false
		close(s.done)
		if s.ticker != nil {
			s.ticker.Stop()
		}
	}
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if s.ownPool {
			<-s.pool.Shutdown()
		}
	}()

	return stopped
}

func (s *scheduler) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.dispatchReady()
		}
	}
}

// dispatchReady collects entries whose run time has arrived, reschedules the
// repeating ones, and hands the jobs to the pool. Each submission runs on its
// own goroutine so a full queue, which makes SubmitJob wait out the pool's
// submit timeout, never stalls the tick loop.
func (s *scheduler) dispatchReady() {
	now := time.Now()

	s.mu.Lock()
	if len(s.entries) == 0 {
		s.mu.Unlock()
		return
	}

	ready := make([]*scheduledJob, 0, len(s.entries))
	for id, e := range s.entries {
		if now.Before(e.runAt) {
			continue
		}
		ready = append(ready, e)

		switch {
		case e.interval > 0:
			e.runAt = now.Add(e.interval)
		case e.cronSchedule != nil:
			e.runAt = e.cronSchedule.Next(now.In(s.location))
		default:
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range ready {
		e := e
		go func() {
			res := s.pool.SubmitJob(e.job)
			if s.registry == nil {
				return
			}
			if res.Rejected() {
				s.registry.ScheduleSkips.WithLabelValues(s.name).Inc()
			} else {
				s.registry.ScheduleRuns.WithLabelValues(s.name).Inc()
			}
		}()
	}
}
